package mamedb

// Config holds configuration for reference database loading.
type Config struct {
	// BaseURL is the directory URL DAT archives are downloaded from.
	BaseURL string `mapstructure:"base_url" default:"http://www.logiqx.com/Dats/MAMEBeta/"`
	// Prefix is the object-storage key prefix of mirrored DAT archives.
	Prefix string `mapstructure:"prefix" default:"dats/"`
	// TimeoutSeconds bounds one download.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
	// UseStore enables the parsed-database store.
	UseStore bool `mapstructure:"use_store" default:"true"`
}
