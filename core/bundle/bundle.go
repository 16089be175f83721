package bundle

import (
	"os"
	"path/filepath"

	"rom-manager/core/checksum"
	"rom-manager/core/utils"
)

// StampMember is the reserved member name holding a bundle's Stamp.
const StampMember = "version.json"

// Member is one file inside a bundle.
type Member struct {
	Name string         `json:"name"`
	CRC  checksum.CRC32 `json:"crc"`
}

// Bundle is one archive found while scanning a ROM directory.
type Bundle struct {
	Path    string   `json:"path"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
	// ModTime is the file modification time in fractional Unix seconds.
	ModTime float64 `json:"mtime"`
	Size    int64   `json:"size"`
}

// Location is where a checksum was found during a scan.
type Location struct {
	BundlePath string `json:"bundle_path"`
	BundleName string `json:"bundle_name"`
	Member     string `json:"name"`
}

// Stat builds a Bundle for path with its members left empty.
func Stat(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	return &Bundle{
		Path:    path,
		Name:    utils.GameName(path),
		ModTime: ModTime(info),
		Size:    info.Size(),
	}, nil
}

// ModTime converts a file's modification time to fractional Unix seconds.
func ModTime(info os.FileInfo) float64 {
	return float64(info.ModTime().UnixNano()) / 1e9
}

// Lookup returns the member with the given checksum.
func (b *Bundle) Lookup(crc checksum.CRC32) (Member, bool) {
	for _, m := range b.Members {
		if m.CRC == crc {
			return m, true
		}
	}
	return Member{}, false
}

// Has reports whether the bundle holds a member with the given checksum.
func (b *Bundle) Has(crc checksum.CRC32) bool {
	_, ok := b.Lookup(crc)
	return ok
}

// Location returns where member lives.
func (b *Bundle) Location(member string) Location {
	return Location{BundlePath: b.Path, BundleName: b.Name, Member: member}
}

// FileName returns the archive's base file name.
func (b *Bundle) FileName() string {
	return filepath.Base(b.Path)
}
