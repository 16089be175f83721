package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rom-manager/core/bundle"
	"rom-manager/core/checksum"
)

// crcMapKey is the reserved cache key holding the inspection copy of the checksum index.
const crcMapKey = "_crc_map"

// cacheRecord is the persisted member list of one bundle.
type cacheRecord struct {
	ModTime float64         `json:"mtime"`
	Path    string          `json:"path,omitempty"`
	Members []bundle.Member `json:"roms"`
}

// fresh reports whether the record may stand in for reading the bundle.
func (r cacheRecord) fresh(b *bundle.Bundle) bool {
	if r.Path != "" && r.Path != b.Path {
		return false
	}
	return r.ModTime >= b.ModTime
}

// cache is the in-memory form of the cache file, keyed by bundle name.
type cache map[string]cacheRecord

// loadCache reads the cache file. A missing file yields an empty cache; records
// that do not decode are dropped.
func loadCache(path string) (cache, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cache{}, nil
	}
	if err != nil {
		return cache{}, fmt.Errorf("failed to read cache %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return cache{}, fmt.Errorf("failed to decode cache %s: %w", path, err)
	}

	c := make(cache, len(raw))
	for name, msg := range raw {
		if name == crcMapKey {
			continue
		}
		var rec cacheRecord
		if err := json.Unmarshal(msg, &rec); err != nil {
			continue
		}
		c[name] = rec
	}
	return c, nil
}

// save writes the cache and the checksum index to path, replacing it atomically.
func (c cache) save(path string, crcs map[checksum.CRC32]bundle.Location) error {
	out := make(map[string]any, len(c)+1)
	for name, rec := range c {
		out[name] = rec
	}
	crcMap := make(map[string]bundle.Location, len(crcs))
	for crc, loc := range crcs {
		crcMap[crc.String()] = loc
	}
	out[crcMapKey] = crcMap

	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write cache %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write cache %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write cache %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write cache %s: %w", path, err)
	}
	return nil
}
