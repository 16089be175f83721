package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	apperrors "rom-manager/core/errors"
	"rom-manager/feature/playlist"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Categories are the thumbnail kinds RetroArch displays.
var Categories = []string{"Named_Boxarts", "Named_Snaps", "Named_Titles"}

var unsafeChars = regexp.MustCompile("[&*/:`<>?|\\\\]")

// Sanitize returns the file name RetroArch expects for a label.
func Sanitize(label string) string {
	return unsafeChars.ReplaceAllString(label, "_")
}

// Stats counts the outcome of a download run.
type Stats struct {
	Downloaded int64 `json:"downloaded"`
	Skipped    int64 `json:"skipped"`
	Failed     int64 `json:"failed"`
}

// Downloader fetches thumbnails over HTTP.
type Downloader struct {
	baseURL string
	workers int
	client  *http.Client
	logger  *zap.Logger
}

// NewDownloader creates a downloader.
func NewDownloader(cfg Config, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Downloader{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		workers: workers,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// URL returns the remote location of one thumbnail.
func (d *Downloader) URL(category, label string) string {
	return fmt.Sprintf("%s/%s/%s.png", d.baseURL, category, url.PathEscape(Sanitize(label)))
}

// Dir returns the local directory of a category for a playlist.
func Dir(root, playlistName, category string) string {
	name := strings.TrimSuffix(playlistName, filepath.Ext(playlistName))
	return filepath.Join(root, "thumbnails", name, category)
}

// DownloadPlaylist fetches the thumbnails of every item of the playlist file at
// path. The RetroArch root is the parent of the playlist's directory.
func (d *Downloader) DownloadPlaylist(ctx context.Context, path string) (Stats, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Stats{}, err
	}
	if _, err := os.Stat(abs); err != nil {
		return Stats{}, apperrors.NewNotFoundError("playlist", path)
	}

	root := filepath.Dir(filepath.Dir(abs))
	p, err := playlist.Load(root, filepath.Base(abs))
	if err != nil {
		return Stats{}, err
	}
	return d.Download(ctx, root, p.Name(), p.Labels())
}

// Download fetches every category for every label. Only cancellation and
// directory creation failures are returned.
func (d *Downloader) Download(ctx context.Context, root, playlistName string, labels []string) (Stats, error) {
	var downloaded, skipped, failed atomic.Int64

	for _, category := range Categories {
		dir := Dir(root, playlistName, category)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Stats{}, fmt.Errorf("failed to create thumbnail directory: %w", err)
		}
		d.logger.Info("Downloading thumbnails", zap.String("category", category), zap.Int("labels", len(labels)))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(d.workers)
		for _, label := range labels {
			target := filepath.Join(dir, Sanitize(label)+".png")
			if _, err := os.Stat(target); err == nil {
				skipped.Add(1)
				continue
			}

			source := d.URL(category, label)
			g.Go(func() error {
				if err := d.fetch(gctx, source, target); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					failed.Add(1)
					d.logger.Warn("Thumbnail download failed",
						zap.String("category", category),
						zap.String("label", label),
						zap.Error(err),
					)
					return nil
				}
				downloaded.Add(1)
				d.logger.Debug("Thumbnail downloaded", zap.String("path", target))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{Downloaded: downloaded.Load(), Skipped: skipped.Load(), Failed: failed.Load()}
	d.logger.Info("Thumbnails done",
		zap.Int64("downloaded", stats.Downloaded),
		zap.Int64("skipped", stats.Skipped),
		zap.Int64("failed", stats.Failed),
	)
	return stats, nil
}

func (d *Downloader) fetch(ctx context.Context, source, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return &apperrors.NetworkError{URL: source, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &apperrors.NetworkError{URL: source, StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".thumb-*")
	if err != nil {
		return err
	}
	_, err = io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return &apperrors.NetworkError{URL: source, Err: err}
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return errors.Join(fmt.Errorf("failed to store %s", target), err)
	}
	return nil
}
