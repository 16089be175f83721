package cmd

import (
	"context"
	"fmt"

	"rom-manager/feature/playlist"
	"rom-manager/feature/thumbnail"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	playlistRoot       string
	playlistRomDir     string
	playlistName       string
	playlistThumbnails bool
)

// playlistCmd fixes the ROM directory and lists the reconciled bundles in a
// RetroArch playlist.
var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "Fix bundles and write the MAME playlist",
	Long: `Runs fix, then rewrites <root>/playlists/<name> with every stamped bundle,
labelled with its game description and bound to the core it was verified for.`,
	RunE: runPlaylist,
}

func init() {
	playlistCmd.Flags().StringVar(&playlistRoot, "root", "", "RetroArch root (overrides RETROARCH_ROOT)")
	playlistCmd.Flags().StringVar(&playlistRomDir, "romdir", "", "ROM directory (overrides LIBRARY_DIR)")
	playlistCmd.Flags().StringVar(&playlistName, "name", "", "Playlist file name (overrides RETROARCH_PLAYLIST)")
	playlistCmd.Flags().BoolVar(&playlistThumbnails, "thumbnails", false, "Download thumbnails for the playlist")
	RootCmd.AddCommand(playlistCmd)
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	override(&env.cfg.RetroArch.Root, playlistRoot)
	override(&env.cfg.Library.Dir, playlistRomDir)
	override(&env.cfg.RetroArch.Name, playlistName)

	ctx := context.Background()
	report, cores, err := env.fix(ctx, false)
	if err != nil {
		return err
	}

	p, err := playlist.Load(env.cfg.RetroArch.Root, env.cfg.RetroArch.Name)
	if err != nil {
		return err
	}
	n := p.Fill(report, cores, env.log)
	if err := p.Save(); err != nil {
		return err
	}
	env.log.Info("Playlist written", zap.String("path", p.Path()), zap.Int("items", n))
	fmt.Printf("%s: %d games\n", p.Path(), n)

	if !playlistThumbnails {
		return nil
	}
	stats, err := thumbnail.NewDownloader(env.cfg.Thumbnail, env.log).Download(ctx, p.Root(), p.Name(), p.Labels())
	if err != nil {
		return err
	}
	fmt.Printf("thumbnails: %d downloaded, %d present, %d failed\n", stats.Downloaded, stats.Skipped, stats.Failed)
	return nil
}
