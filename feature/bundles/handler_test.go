package bundles

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"rom-manager/core/bundle"
	"rom-manager/core/checksum"
	"rom-manager/core/dat"
	apperrors "rom-manager/core/errors"
	"rom-manager/core/index"
	"rom-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var pacmanRoms = map[string][]byte{
	"pacman.6e": []byte("rom 6e"),
	"pacman.6f": []byte("rom 6f"),
}

func pacmanDatabase() *dat.Database {
	db := dat.NewDatabase()
	db.Core = "mame2010"
	db.Name = "MAME"
	g := &dat.Game{Name: "pacman", Description: "Pac-Man (Midway)"}
	for _, name := range []string{"pacman.6e", "pacman.6f"} {
		g.Roms = append(g.Roms, dat.Rom{Name: name, CRC: checksum.Sum(pacmanRoms[name])})
	}
	db.AddGame(g)
	return db
}

func setupTestApp(t *testing.T, databases DatabaseSource) (*fiber.App, string) {
	dir := t.TempDir()
	require.NoError(t, bundle.WriteMembers(filepath.Join(dir, "pacman.zip"), pacmanRoms))
	require.NoError(t, bundle.WriteMembers(filepath.Join(dir, "junk.zip"), map[string][]byte{"junk.bin": []byte("junk")}))

	if databases == nil {
		databases = func(context.Context) ([]*dat.Database, error) {
			return []*dat.Database{pacmanDatabase()}, nil
		}
	}

	app := fiber.New()
	feature := NewFeature(index.Config{Dir: dir}, databases, zap.NewNop())
	require.True(t, feature.IsEnabled())
	require.NoError(t, feature.Load(app))
	return app, dir
}

func decode(t *testing.T, app *fiber.App, method, target string, status int, out any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	require.Equal(t, status, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestHandleList(t *testing.T) {
	app, dir := setupTestApp(t, nil)

	var listing Listing
	decode(t, app, "GET", "/bundles", 200, &listing)

	assert.Equal(t, dir, listing.Dir)
	assert.Equal(t, 2, listing.Stats.Bundles)
	require.Len(t, listing.Bundles, 2)
	assert.Equal(t, "junk", listing.Bundles[0].Name)
	assert.Equal(t, "pacman", listing.Bundles[1].Name)
	assert.Len(t, listing.Bundles[1].Members, 2)
	assert.NotEmpty(t, listing.Bundles[1].SizeHuman)
	assert.Nil(t, listing.Bundles[1].Stamp)
}

func TestHandleGet(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	var v View
	decode(t, app, "GET", "/bundles/pacman", 200, &v)
	assert.Equal(t, "pacman", v.Name)

	var body map[string]string
	decode(t, app, "GET", "/bundles/galaga", 404, &body)
	assert.Contains(t, body["error"], "galaga")
}

func TestHandleReconcile(t *testing.T) {
	app, dir := setupTestApp(t, nil)

	var dry reconcile.Report
	decode(t, app, "POST", "/bundles/reconcile?dry_run=true", 200, &dry)
	assert.True(t, dry.DryRun)
	assert.Equal(t, 1, dry.Summary.Exact)
	assert.Equal(t, 1, dry.Summary.NoMatch)

	stamp, err := bundle.ReadStamp(filepath.Join(dir, "pacman.zip"))
	require.NoError(t, err)
	assert.Nil(t, stamp, "dry run writes nothing")

	var report reconcile.Report
	decode(t, app, "POST", "/bundles/reconcile", 200, &report)
	assert.False(t, report.DryRun)
	assert.Equal(t, 1, report.Summary.Exact)

	var v View
	decode(t, app, "GET", "/bundles/pacman", 200, &v)
	require.NotNil(t, v.Stamp)
	assert.Equal(t, bundle.Stamp{CoreName: "mame2010", Description: "Pac-Man (Midway)"}, *v.Stamp)

	decode(t, app, "POST", "/bundles/reconcile", 200, &report)
	assert.Equal(t, 1, report.Summary.Settled)
}

func TestHandleReconcile_DatabaseFailure(t *testing.T) {
	app, _ := setupTestApp(t, func(context.Context) ([]*dat.Database, error) {
		return nil, errors.Join(&apperrors.NetworkError{URL: "http://dats.invalid/MAME.zip", StatusCode: 503})
	})

	var body map[string]string
	decode(t, app, "POST", "/bundles/reconcile", 502, &body)
	assert.Contains(t, body["error"], "503")
}

func TestFeature_DisabledWithoutDir(t *testing.T) {
	f := NewFeature(index.Config{}, nil, nil)
	assert.Equal(t, "bundles", f.Name())
	assert.False(t, f.IsEnabled())
}
