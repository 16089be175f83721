package index

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"rom-manager/core/bundle"
	"rom-manager/core/checksum"
	apperrors "rom-manager/core/errors"
	"rom-manager/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Stats describes the outcome of the last scan.
type Stats struct {
	// Bundles is the number of readable bundles in the index.
	Bundles int `json:"bundles"`
	// ArchivesRead counts bundles whose bytes were read instead of served from cache.
	ArchivesRead int64 `json:"archives_read"`
	// Unreadable counts bundles excluded because they could not be read.
	Unreadable int `json:"unreadable"`
	// Checksums is the number of distinct checksums in the index.
	Checksums int `json:"checksums"`
	// Bytes is the total size of the indexed bundles.
	Bytes int64 `json:"bytes"`
}

// Index is the set of bundles below one directory plus their checksum index.
type Index struct {
	cfg    Config
	logger *zap.Logger

	dir         string
	cache       cache
	bundles     []*bundle.Bundle
	crcs        map[checksum.CRC32]bundle.Location
	diagnostics []error
	read        atomic.Int64
}

// New creates an empty index. Call Scan to populate it.
func New(cfg Config, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Index{
		cfg:    cfg.withDefaults(),
		logger: logger,
		cache:  cache{},
		crcs:   make(map[checksum.CRC32]bundle.Location),
	}
}

// scanSlot carries one bundle through the parallel read phase.
type scanSlot struct {
	bundle *bundle.Bundle
	err    error
}

// Scan walks dir, restores or reads every bundle, rebuilds the checksum index and
// persists the cache. Unreadable bundles are recorded as diagnostics and excluded;
// only walk, cancellation and cache write failures are returned.
func (idx *Index) Scan(ctx context.Context, dir string) error {
	abs := utils.AbsPath(dir)
	if abs == "" {
		return apperrors.NewNotFoundError("rom directory", dir)
	}

	var err error
	idx.dir = abs
	idx.bundles = nil
	idx.diagnostics = nil
	idx.read.Store(0)

	idx.cache, err = loadCache(idx.cachePath())
	if err != nil {
		idx.logger.Warn("Discarding unreadable bundle cache", zap.Error(err))
		idx.cache = cache{}
	}

	paths, err := idx.walk(abs)
	if err != nil {
		return err
	}

	slots := make([]scanSlot, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.cfg.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			slots[i] = idx.load(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if slot.err != nil {
			idx.exclude(slot.bundle, slot.err)
			continue
		}
		b := slot.bundle
		seen[b.Name] = struct{}{}
		idx.bundles = append(idx.bundles, b)
		idx.cache[b.Name] = cacheRecord{ModTime: b.ModTime, Path: b.Path, Members: b.Members}
	}
	for name := range idx.cache {
		if _, ok := seen[name]; !ok {
			delete(idx.cache, name)
		}
	}

	idx.rebuild()

	stats := idx.Stats()
	idx.logger.Info("Scanned bundles",
		zap.String("dir", abs),
		zap.Int("bundles", stats.Bundles),
		zap.Int64("archives_read", stats.ArchivesRead),
		zap.Int("unreadable", stats.Unreadable),
	)

	return idx.Persist()
}

// walk returns every archive below dir in lexical path order.
func (idx *Index) walk(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && strings.HasSuffix(d.Name(), idx.cfg.Extension) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// load stats one archive and fills its members from cache or disk. It only reads
// idx.cache, which is not mutated during the parallel phase.
func (idx *Index) load(path string) scanSlot {
	b, err := bundle.Stat(path)
	if err != nil {
		return scanSlot{
			bundle: &bundle.Bundle{Path: path, Name: utils.GameName(path)},
			err:    apperrors.NewArchiveUnreadableError(path, err),
		}
	}

	if rec, ok := idx.cache[b.Name]; ok && rec.fresh(b) {
		b.Members = rec.Members
		return scanSlot{bundle: b}
	}

	idx.logger.Debug("Reading bundle", zap.String("path", path))
	idx.read.Add(1)
	members, err := bundle.ReadMembers(path)
	if err != nil {
		return scanSlot{bundle: b, err: err}
	}
	b.Members = members
	return scanSlot{bundle: b}
}

func (idx *Index) exclude(b *bundle.Bundle, err error) {
	idx.logger.Warn("Skipping unreadable bundle",
		zap.String("bundle", b.Name),
		zap.String("path", b.Path),
		zap.Error(err),
	)
	idx.diagnostics = append(idx.diagnostics, err)
	if rec, ok := idx.cache[b.Name]; ok && (rec.Path == "" || rec.Path == b.Path) {
		delete(idx.cache, b.Name)
	}
}

// rebuild recomputes the checksum index from the current member lists.
func (idx *Index) rebuild() {
	idx.crcs = make(map[checksum.CRC32]bundle.Location, len(idx.crcs))
	for _, b := range idx.bundles {
		for _, m := range b.Members {
			idx.crcs[m.CRC] = b.Location(m.Name)
		}
	}
}

// Refresh re-reads b after its archive was rewritten, updating its members, its
// cache record and the checksum index.
func (idx *Index) Refresh(b *bundle.Bundle) error {
	fresh, err := bundle.Stat(b.Path)
	if err != nil {
		return apperrors.NewArchiveUnreadableError(b.Path, err)
	}
	idx.read.Add(1)
	members, err := bundle.ReadMembers(b.Path)
	if err != nil {
		return err
	}

	b.Members = members
	b.ModTime = fresh.ModTime
	b.Size = fresh.Size
	idx.cache[b.Name] = cacheRecord{ModTime: b.ModTime, Path: b.Path, Members: b.Members}
	idx.rebuild()
	return nil
}

// Touch records b's new modification time without re-reading it. It is used after
// writes that leave the member list unchanged, such as stamping.
func (idx *Index) Touch(b *bundle.Bundle) error {
	fresh, err := bundle.Stat(b.Path)
	if err != nil {
		return apperrors.NewArchiveUnreadableError(b.Path, err)
	}
	b.ModTime = fresh.ModTime
	b.Size = fresh.Size
	idx.cache[b.Name] = cacheRecord{ModTime: b.ModTime, Path: b.Path, Members: b.Members}
	return nil
}

// Persist writes the cache file for the scanned directory.
func (idx *Index) Persist() error {
	if idx.dir == "" {
		return nil
	}
	return idx.cache.save(idx.cachePath(), idx.crcs)
}

// Locate returns where a checksum lives in the scanned directory.
func (idx *Index) Locate(crc checksum.CRC32) (bundle.Location, bool) {
	loc, ok := idx.crcs[crc]
	return loc, ok
}

// Bundles returns the readable bundles in path order.
func (idx *Index) Bundles() []*bundle.Bundle {
	out := make([]*bundle.Bundle, len(idx.bundles))
	copy(out, idx.bundles)
	return out
}

// Bundle returns the first bundle with the given name. A trailing archive
// extension is ignored.
func (idx *Index) Bundle(name string) (*bundle.Bundle, bool) {
	name = strings.TrimSuffix(name, idx.cfg.Extension)
	for _, b := range idx.bundles {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Diagnostics returns the per-archive failures of the last scan.
func (idx *Index) Diagnostics() []error {
	return idx.diagnostics
}

// Dir returns the absolute directory of the last scan.
func (idx *Index) Dir() string {
	return idx.dir
}

// Stats summarizes the last scan.
func (idx *Index) Stats() Stats {
	s := Stats{
		Bundles:      len(idx.bundles),
		ArchivesRead: idx.read.Load(),
		Unreadable:   len(idx.diagnostics),
		Checksums:    len(idx.crcs),
	}
	for _, b := range idx.bundles {
		s.Bytes += b.Size
	}
	return s
}

func (idx *Index) cachePath() string {
	return filepath.Join(idx.dir, idx.cfg.CacheFile)
}
