package playlist

// Config holds configuration for playlist generation.
type Config struct {
	// Root is the RetroArch installation directory.
	Root string `mapstructure:"root" default:""`
	// Name is the playlist file name under <root>/playlists.
	Name string `mapstructure:"playlist" default:"MAME.lpl"`
}
