package thumbnail

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	apperrors "rom-manager/core/errors"
	"rom-manager/feature/playlist"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"Pac-Man (Midway)", "Pac-Man (Midway)"},
		{"Street Fighter II: The World Warrior", "Street Fighter II_ The World Warrior"},
		{`AC/DC & Co * "x" <y>? a|b \ c`, `AC_DC _ Co _ "x" _y__ a_b _ c`},
		{"`quoted`", "_quoted_"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.label))
		})
	}
}

func TestURLAndDir(t *testing.T) {
	d := NewDownloader(Config{BaseURL: "http://thumbnails.libretro.com/MAME/"}, nil)
	assert.Equal(t, "http://thumbnails.libretro.com/MAME/Named_Snaps/Pac-Man%20%28Midway%29.png", d.URL("Named_Snaps", "Pac-Man (Midway)"))
	assert.Equal(t, filepath.Join("/ra", "thumbnails", "MAME", "Named_Titles"), Dir("/ra", "MAME.lpl", "Named_Titles"))
}

// thumbServer serves a PNG for every label except "Missing".
func thumbServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if filepath.Base(r.URL.Path) == "Missing.png" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("png:" + r.URL.Path))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestDownload(t *testing.T) {
	srv, hits := thumbServer(t)
	root := t.TempDir()
	d := NewDownloader(Config{BaseURL: srv.URL, Workers: 2}, zaptest.NewLogger(t))

	existing := filepath.Join(Dir(root, "MAME.lpl", "Named_Boxarts"), "Galaga.png")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0o755))
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o644))

	stats, err := d.Download(context.Background(), root, "MAME.lpl", []string{"Pac-Man: Midway", "Galaga", "Missing"})
	require.NoError(t, err)
	assert.Equal(t, Stats{Downloaded: 5, Skipped: 1, Failed: 3}, stats)
	assert.Equal(t, int32(8), hits.Load())

	data, err := os.ReadFile(filepath.Join(Dir(root, "MAME.lpl", "Named_Snaps"), "Pac-Man_ Midway.png"))
	require.NoError(t, err)
	assert.Equal(t, "png:/Named_Snaps/Pac-Man_ Midway.png", string(data))

	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	_, err = os.Stat(filepath.Join(Dir(root, "MAME.lpl", "Named_Titles"), "Missing.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDownload_SkipsOnSecondRun(t *testing.T) {
	srv, hits := thumbServer(t)
	root := t.TempDir()
	d := NewDownloader(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))

	_, err := d.Download(context.Background(), root, "MAME.lpl", []string{"Galaga"})
	require.NoError(t, err)
	stats, err := d.Download(context.Background(), root, "MAME.lpl", []string{"Galaga"})
	require.NoError(t, err)

	assert.Equal(t, Stats{Skipped: 3}, stats)
	assert.Equal(t, int32(3), hits.Load())
}

func TestDownloadPlaylist(t *testing.T) {
	srv, _ := thumbServer(t)
	root := t.TempDir()

	p, err := playlist.Load(root, "Arcade.lpl")
	require.NoError(t, err)
	p.Add("/roms/pacman.zip", "Pac-Man (Midway)", "/cores/mame2010_libretro.so")
	require.NoError(t, p.Save())

	d := NewDownloader(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
	stats, err := d.DownloadPlaylist(context.Background(), p.Path())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Downloaded)
	assert.FileExists(t, filepath.Join(root, "thumbnails", "Arcade", "Named_Boxarts", "Pac-Man (Midway).png"))
}

func TestDownloadPlaylist_Missing(t *testing.T) {
	d := NewDownloader(Config{}, zaptest.NewLogger(t))
	_, err := d.DownloadPlaylist(context.Background(), filepath.Join(t.TempDir(), "playlists", "MAME.lpl"))
	assert.True(t, apperrors.IsNotFound(err))
}
