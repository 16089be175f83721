package cmd

import (
	"context"
	"fmt"

	"rom-manager/core/index"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scanRomDir string

// scanCmd indexes a ROM directory and refreshes its cache file.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Index a ROM directory",
	Long: `Reads every bundle of the ROM directory (or restores it from the cache file
when unchanged), rebuilds the checksum index and rewrites the cache.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanRomDir, "romdir", "", "ROM directory (overrides LIBRARY_DIR)")
	RootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	override(&env.cfg.Library.Dir, scanRomDir)
	if env.cfg.Library.Dir == "" {
		return fmt.Errorf("rom directory is not set (use --romdir or LIBRARY_DIR)")
	}

	idx := index.New(env.cfg.Library, env.log)
	if err := idx.Scan(context.Background(), env.cfg.Library.Dir); err != nil {
		return fmt.Errorf("failed to scan %s: %w", env.cfg.Library.Dir, err)
	}

	for _, d := range idx.Diagnostics() {
		env.log.Warn("Unreadable bundle", zap.Error(d))
	}

	s := idx.Stats()
	fmt.Printf("%s: %d bundles, %s, %d distinct roms (%d archives read, %d unreadable)\n",
		idx.Dir(), s.Bundles, humanize.Bytes(uint64(s.Bytes)), s.Checksums, s.ArchivesRead, s.Unreadable)
	return nil
}
