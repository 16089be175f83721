package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"rom-manager/core/dat"
	"rom-manager/core/loader"
	"rom-manager/core/logger"
	"rom-manager/core/middleware/auth"
	"rom-manager/core/middleware/rayid"
	"rom-manager/feature/bundles"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	startRoot   string
	startRomDir string
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		env, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer env.log.Sync()
		logg := env.log

		override(&env.cfg.RetroArch.Root, startRoot)
		override(&env.cfg.Library.Dir, startRomDir)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		svc := env.mameDB(context.Background())
		databases := func(ctx context.Context) ([]*dat.Database, error) {
			_, dbs, err := env.databases(ctx, svc)
			return dbs, err
		}

		mgr := loader.NewManager()
		mgr.Register(bundles.NewFeature(env.cfg.Library, databases, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Use(auth.New(auth.Config{ApiKey: env.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		for _, f := range mgr.Features() {
			logg.Info("Feature", zap.String("name", f.Name()), zap.Bool("enabled", f.IsEnabled()))
		}

		go func() {
			logg.Info("Starting server", zap.String("address", env.cfg.Server.Address()))
			if err := app.Listen(env.cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(env.cfg.Server.ShutdownTimeout()); err != nil {
			logg.Warn("Shutdown incomplete", zap.Error(err))
		}
	},
}

func init() {
	startCmd.Flags().StringVar(&startRoot, "root", "", "RetroArch root (overrides RETROARCH_ROOT)")
	startCmd.Flags().StringVar(&startRomDir, "romdir", "", "ROM directory (overrides LIBRARY_DIR)")
	RootCmd.AddCommand(startCmd)
}
