package thumbnail

// Config holds configuration for thumbnail downloads.
type Config struct {
	// BaseURL is the thumbnail server directory of the system.
	BaseURL string `mapstructure:"base_url" default:"http://thumbnails.libretro.com/MAME"`
	// TimeoutSeconds bounds one download.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// Workers bounds concurrent downloads.
	Workers int `mapstructure:"workers" default:"4"`
}
