// Package config provides configuration management for the ROM manager.
//
// Values come from environment variables and an optional .env file. Defaults are
// declared next to each field with a `default` struct tag and registered with
// Viper by reflection, so every key can be overridden from the environment
// (e.g. LIBRARY_DIR for library.dir).
//
// # Configuration Structure
//
//   - Server: HTTP server settings (host, port, API key)
//   - Storage: S3/MinIO bucket mirroring DAT archives
//   - Log: logging level and format
//   - Database: store of parsed reference databases (sqlite or mysql)
//   - Library: ROM directory, cache file name, scan workers
//   - MameDB: DAT download location
//   - RetroArch: installation root and playlist name
//   - Thumbnail: thumbnail server and download workers
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Library.Dir)
package config
