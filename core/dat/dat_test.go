package dat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabase_Game(t *testing.T) {
	db := NewDatabase()
	db.AddGame(&Game{Name: "pacman"})

	_, ok := db.Game("pacman.zip")
	assert.True(t, ok)
	_, ok = db.Game("pacman")
	assert.True(t, ok)
	_, ok = db.Game("galaga")
	assert.False(t, ok)
}

func TestDatabase_Names(t *testing.T) {
	db := &Database{}
	db.AddGame(&Game{Name: "pacman"})
	db.AddGame(&Game{Name: "galaga"})
	db.AddGame(&Game{Name: "dkong"})

	assert.Equal(t, []string{"dkong", "galaga", "pacman"}, db.Names())
}

func TestDatabase_Identity(t *testing.T) {
	db := &Database{Name: "MAME"}
	assert.Equal(t, "MAME", db.Identity())

	db.Core = "mame2010"
	assert.Equal(t, "mame2010", db.Identity())
}
