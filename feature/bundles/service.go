package bundles

import (
	"context"
	"sync"

	"rom-manager/core/bundle"
	"rom-manager/core/dat"
	apperrors "rom-manager/core/errors"
	"rom-manager/core/index"
	"rom-manager/core/reconcile"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// DatabaseSource returns the reference databases to reconcile against, in
// priority order.
type DatabaseSource func(ctx context.Context) ([]*dat.Database, error)

// View is the API representation of a bundle.
type View struct {
	Name      string          `json:"name"`
	Path      string          `json:"path"`
	Members   []bundle.Member `json:"members"`
	Size      int64           `json:"size"`
	SizeHuman string          `json:"size_human"`
	Stamp     *bundle.Stamp   `json:"stamp,omitempty"`
	StampErr  string          `json:"stamp_error,omitempty"`
}

// Listing is the response of a directory scan.
type Listing struct {
	Dir         string      `json:"dir"`
	Bundles     []View      `json:"bundles"`
	Stats       index.Stats `json:"stats"`
	Diagnostics []string    `json:"diagnostics,omitempty"`
}

// Service scans and reconciles one ROM directory.
type Service struct {
	cfg       index.Config
	databases DatabaseSource
	logger    *zap.Logger
	mu        sync.Mutex
}

// NewService creates a service for the directory in cfg.Dir.
func NewService(cfg index.Config, databases DatabaseSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cfg: cfg, databases: databases, logger: logger}
}

func (s *Service) scan(ctx context.Context, logger *zap.Logger) (*index.Index, error) {
	idx := index.New(s.cfg, logger)
	if err := idx.Scan(ctx, s.cfg.Dir); err != nil {
		return nil, err
	}
	return idx, nil
}

// List scans the directory and describes every readable bundle.
func (s *Service) List(ctx context.Context, logger *zap.Logger) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.scan(ctx, logger)
	if err != nil {
		return nil, err
	}

	listing := &Listing{Dir: idx.Dir(), Bundles: []View{}, Stats: idx.Stats()}
	for _, b := range idx.Bundles() {
		listing.Bundles = append(listing.Bundles, view(b))
	}
	for _, d := range idx.Diagnostics() {
		listing.Diagnostics = append(listing.Diagnostics, d.Error())
	}
	return listing, nil
}

// Get scans the directory and describes the bundle called name.
func (s *Service) Get(ctx context.Context, name string, logger *zap.Logger) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.scan(ctx, logger)
	if err != nil {
		return nil, err
	}
	b, ok := idx.Bundle(name)
	if !ok {
		return nil, apperrors.NewNotFoundError("bundle", name)
	}
	v := view(b)
	return &v, nil
}

// Reconcile scans the directory and reconciles it against the reference databases.
func (s *Service) Reconcile(ctx context.Context, dryRun bool, logger *zap.Logger) (*reconcile.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dbs, err := s.databases(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := s.scan(ctx, logger)
	if err != nil {
		return nil, err
	}
	return reconcile.NewEngine(idx, dbs, logger, reconcile.Options{DryRun: dryRun}).Reconcile(ctx)
}

func view(b *bundle.Bundle) View {
	v := View{
		Name:      b.Name,
		Path:      b.Path,
		Members:   b.Members,
		Size:      b.Size,
		SizeHuman: humanize.Bytes(uint64(b.Size)),
	}
	stamp, err := bundle.ReadStamp(b.Path)
	if err != nil {
		v.StampErr = err.Error()
	}
	v.Stamp = stamp
	return v
}
