package mamedb

import (
	"bytes"
	"testing"

	"rom-manager/core/database"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/require"
)

const testDat = `clrmamepro (
	name "MAME"
	description "MAME v0.139"
	version 0.139
)

game (
	name pacman
	description "Pac-Man (Midway)"
	year 1980
	rom ( name pacman.6e size 4096 crc c1e6ab10 )
	rom ( name pacman.6f size 4096 crc 1a6fb2d4 )
)

game (
	name puckman
	cloneof pacman
	romof pacman
	description "PuckMan (Japan set 1)"
	rom ( name pacman.6e merge pacman.6e size 4096 crc c1e6ab10 )
)
`

var testCore = CoreInfo{
	Library:         "mame2010_libretro",
	Name:            "mame2010",
	DatFile:         "MAME v0.139 (xml).zip",
	UnzippedDatFile: "MAME v0.139.dat",
}

func zipDat(t *testing.T, member, content string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(member)
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	store := NewStore(db)
	require.NoError(t, store.Migrate())
	return store
}
