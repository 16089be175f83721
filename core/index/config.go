package index

// Config holds configuration for directory scans.
type Config struct {
	// Dir is the ROM directory to scan.
	Dir string `mapstructure:"dir" default:""`
	// CacheFile is the cache file name, relative to the scanned directory.
	CacheFile string `mapstructure:"cache_file" default:".bundlecache.json"`
	// Extension selects archive files.
	Extension string `mapstructure:"extension" default:".zip"`
	// Workers bounds the number of archives read concurrently.
	Workers int `mapstructure:"workers" default:"4"`
}

func (c Config) withDefaults() Config {
	if c.CacheFile == "" {
		c.CacheFile = ".bundlecache.json"
	}
	if c.Extension == "" {
		c.Extension = ".zip"
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	return c
}
