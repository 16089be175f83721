package cmd

import (
	"context"
	"fmt"

	"rom-manager/core/config"
	"rom-manager/core/dat"
	"rom-manager/core/database"
	apperrors "rom-manager/core/errors"
	"rom-manager/core/logger"
	"rom-manager/core/storage"
	"rom-manager/core/utils"
	"rom-manager/feature/mamedb"

	"go.uber.org/zap"
)

// environment is what every command starts from.
type environment struct {
	cfg *config.Config
	log *zap.Logger
}

// bootstrap loads configuration from the working directory and builds the logger.
func bootstrap() (*environment, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(l)
	return &environment{cfg: cfg, log: l}, nil
}

// override replaces target with value when the flag was given.
func override(target *string, value string) {
	if value != "" {
		*target = value
	}
}

// mameDB builds the reference database service. The store and the storage mirror
// are optional: a failure to reach either is logged and the service falls back
// to downloading.
func (env *environment) mameDB(ctx context.Context) *mamedb.Service {
	var opts []mamedb.Option

	if env.cfg.MameDB.UseStore {
		if db, err := database.Connect(env.cfg.Database); err != nil {
			env.log.Warn("Reference database store unavailable", zap.Error(err))
		} else {
			store := mamedb.NewStore(db)
			if err := store.Migrate(); err != nil {
				env.log.Warn("Reference database store unavailable", zap.Error(err))
			} else {
				opts = append(opts, mamedb.WithStore(store))
			}
		}
	}

	if env.cfg.Storage.Enabled {
		client, err := storage.NewClient(env.cfg.Storage)
		if err == nil {
			err = storage.EnsureBucket(ctx, client, env.cfg.Storage.Bucket, env.cfg.Storage.Region)
		}
		if err != nil {
			env.log.Warn("DAT mirror unavailable", zap.Error(err))
		} else {
			opts = append(opts, mamedb.WithMirror(mamedb.NewStorageSource(client, env.cfg.Storage.Bucket, env.cfg.MameDB.Prefix)))
		}
	}

	return mamedb.NewService(env.cfg.MameDB, env.log, opts...)
}

// databases discovers the MAME cores under the RetroArch root and loads their
// reference databases.
func (env *environment) databases(ctx context.Context, svc *mamedb.Service) ([]mamedb.Core, []*dat.Database, error) {
	root := utils.AbsPath(env.cfg.RetroArch.Root)
	if root == "" {
		return nil, nil, fmt.Errorf("retroarch root is not set (use --root or RETROARCH_ROOT)")
	}

	cores, err := mamedb.DiscoverCores(root)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover cores: %w", err)
	}
	if len(cores) == 0 {
		return nil, nil, apperrors.NewNotFoundError("mame core", root)
	}
	for _, c := range cores {
		env.log.Info("Found core", zap.String("core", c.Info.Name), zap.String("path", c.Path))
	}

	dbs, err := svc.LoadAll(ctx, cores)
	if err != nil {
		return nil, nil, err
	}
	return cores, dbs, nil
}
