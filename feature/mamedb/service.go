package mamedb

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"rom-manager/core/dat"
	apperrors "rom-manager/core/errors"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service loads reference databases for cores.
type Service struct {
	logger *zap.Logger
	store  *Store
	mirror *StorageSource
	remote Source

	sf     singleflight.Group
	mu     sync.RWMutex
	loaded map[string]*dat.Database
}

// Option configures a Service.
type Option func(*Service)

// WithStore enables the parsed-database store.
func WithStore(store *Store) Option {
	return func(s *Service) { s.store = store }
}

// WithMirror enables the object-storage mirror, read first and written through.
func WithMirror(mirror *StorageSource) Option {
	return func(s *Service) { s.mirror = mirror }
}

// WithRemote replaces the HTTP source.
func WithRemote(remote Source) Option {
	return func(s *Service) { s.remote = remote }
}

// NewService creates a service downloading from cfg.BaseURL.
func NewService(cfg Config, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	s := &Service{
		logger: logger,
		remote: NewHTTPSource(cfg.BaseURL, timeout),
		loaded: make(map[string]*dat.Database),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the reference database of info. Results are memoized for the
// lifetime of the service.
func (s *Service) Load(ctx context.Context, info CoreInfo) (*dat.Database, error) {
	s.mu.RLock()
	db, ok := s.loaded[info.Library]
	s.mu.RUnlock()
	if ok {
		return db, nil
	}

	v, err, _ := s.sf.Do(info.Library, func() (any, error) {
		db, err := s.load(ctx, info)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.loaded[info.Library] = db
		s.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dat.Database), nil
}

// LoadLibrary resolves a core library name and loads its database.
func (s *Service) LoadLibrary(ctx context.Context, library string) (*dat.Database, error) {
	info, err := LookupCore(library)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, info)
}

// LoadAll loads the databases of cores in order, skipping cores that fail. An
// error is returned only when cores were given and none could be loaded, or on
// cancellation.
func (s *Service) LoadAll(ctx context.Context, cores []Core) ([]*dat.Database, error) {
	var (
		dbs  []*dat.Database
		errs []error
	)
	for _, core := range cores {
		db, err := s.Load(ctx, core.Info)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			s.logger.Warn("Skipping core without reference database",
				zap.String("core", core.Info.Name),
				zap.String("path", core.Path),
				zap.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		dbs = append(dbs, db)
	}

	if len(dbs) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return dbs, nil
}

func (s *Service) load(ctx context.Context, info CoreInfo) (*dat.Database, error) {
	log := s.logger.With(zap.String("core", info.Name))

	if s.store != nil {
		db, ok, err := s.store.Load(info.Name)
		if err != nil {
			log.Warn("Stored reference database unreadable", zap.Error(err))
		} else if ok {
			log.Debug("Reference database loaded from store", zap.Int("games", db.Len()))
			return db, nil
		}
	}

	data, err := s.fetch(ctx, info, log)
	if err != nil {
		return nil, err
	}

	text, err := dat.ReadZipped(bytes.NewReader(data), int64(len(data)), info.UnzippedDatFile)
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", info.DatFile, err)
	}

	db, err := dat.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", info.UnzippedDatFile, err)
	}
	db.Core = info.Name
	log.Info("Reference database parsed", zap.String("dat", info.UnzippedDatFile), zap.Int("games", db.Len()))

	if s.store != nil {
		if err := s.store.Save(db); err != nil {
			log.Warn("Failed to store reference database", zap.Error(err))
		}
	}
	return db, nil
}

func (s *Service) fetch(ctx context.Context, info CoreInfo, log *zap.Logger) ([]byte, error) {
	if s.mirror != nil {
		data, err := s.mirror.Fetch(ctx, info)
		if err == nil {
			log.Debug("DAT archive read from mirror", zap.String("key", s.mirror.Key(info)))
			return data, nil
		}
		if !apperrors.IsNotFound(err) {
			log.Warn("DAT mirror unavailable", zap.Error(err))
		}
	}

	data, err := s.remote.Fetch(ctx, info)
	if err != nil {
		return nil, err
	}
	log.Info("DAT archive downloaded", zap.String("source", s.remote.Name()), zap.Int("bytes", len(data)))

	if s.mirror != nil {
		if err := s.mirror.Put(ctx, info, data); err != nil {
			log.Warn("Failed to mirror DAT archive", zap.Error(err))
		}
	}
	return data, nil
}
