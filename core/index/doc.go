// Package index scans a ROM directory and builds the directory-wide checksum index.
//
// Every archive found below the directory becomes a bundle.Bundle whose members are
// either restored from the cache file or read from disk. A cached member list is
// trusted only while the archive's modification time has not advanced past the
// recorded one; anything else is re-read, in parallel, by a bounded worker pool.
//
// The checksum index maps every member CRC to the bundle holding it. It is rebuilt
// from the current member lists on every scan and never loaded from the cache, so
// it always reflects what is on disk. When two bundles hold the same checksum the
// one visited last (in path order) wins.
//
// # Cache file
//
// The cache lives inside the scanned directory (default .bundlecache.json):
//
//	{
//	    "pacman": {"mtime": 1700000000.5, "path": "/roms/pacman.zip", "roms": [{"name": "pacman.6e", "crc": "c1e6ab10"}]},
//	    "_crc_map": {"c1e6ab10": {"name": "pacman.6e", "bundle_name": "pacman", "bundle_path": "/roms/pacman.zip"}}
//	}
//
// The _crc_map key is written for inspection only and is ignored when loading.
//
// An Index is not safe for concurrent use; callers serialize scans and mutations.
package index
