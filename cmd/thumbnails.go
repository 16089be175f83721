package cmd

import (
	"context"
	"fmt"

	"rom-manager/feature/thumbnail"

	"github.com/spf13/cobra"
)

var thumbnailsPlaylist string

// thumbnailsCmd downloads thumbnails for an existing playlist.
var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails",
	Short: "Download thumbnails for a playlist",
	Long: `Downloads boxart, snap and title images for every item of a playlist into
<root>/thumbnails/<playlist>/, where <root> is the parent of the playlist's
directory. Images already present are skipped.`,
	RunE: runThumbnails,
}

func init() {
	thumbnailsCmd.Flags().StringVar(&thumbnailsPlaylist, "playlist", "", "Playlist file")
	_ = thumbnailsCmd.MarkFlagRequired("playlist")
	RootCmd.AddCommand(thumbnailsCmd)
}

func runThumbnails(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	stats, err := thumbnail.NewDownloader(env.cfg.Thumbnail, env.log).DownloadPlaylist(context.Background(), thumbnailsPlaylist)
	if err != nil {
		return err
	}
	fmt.Printf("thumbnails: %d downloaded, %d present, %d failed\n", stats.Downloaded, stats.Skipped, stats.Failed)
	return nil
}
