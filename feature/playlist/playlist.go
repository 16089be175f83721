package playlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rom-manager/core/utils"
)

const (
	// Version is the playlist format version written to new files.
	Version = "1.0"
	// Detect lets RetroArch resolve a field itself.
	Detect = "DETECT"
	// Dir is the playlist directory under a RetroArch root.
	Dir = "playlists"
)

// Item is one playlist entry.
type Item struct {
	Path     string `json:"path"`
	Label    string `json:"label"`
	CorePath string `json:"core_path"`
	CoreName string `json:"core_name"`
	CRC32    string `json:"crc32"`
	DBName   string `json:"db_name"`
}

// Playlist is a RetroArch playlist file.
type Playlist struct {
	root  string
	name  string
	path  string
	extra map[string]json.RawMessage

	Version string `json:"version"`
	Items   []Item `json:"items"`
}

// Load opens the playlist name under root, or starts an empty one when the file
// does not exist yet.
func Load(root, name string) (*Playlist, error) {
	root = utils.AbsPath(root)
	p := &Playlist{
		root:    root,
		name:    name,
		path:    filepath.Join(root, Dir, name),
		extra:   map[string]json.RawMessage{},
		Version: Version,
		Items:   []Item{},
	}

	data, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read playlist %s: %w", p.path, err)
	}

	if err := json.Unmarshal(data, &p.extra); err != nil {
		return nil, fmt.Errorf("invalid playlist %s: %w", p.path, err)
	}
	if raw, ok := p.extra["version"]; ok {
		if err := json.Unmarshal(raw, &p.Version); err != nil {
			return nil, fmt.Errorf("invalid playlist version in %s: %w", p.path, err)
		}
	}
	if raw, ok := p.extra["items"]; ok {
		if err := json.Unmarshal(raw, &p.Items); err != nil {
			return nil, fmt.Errorf("invalid playlist items in %s: %w", p.path, err)
		}
	}
	delete(p.extra, "version")
	delete(p.extra, "items")
	return p, nil
}

// Path returns the playlist file path.
func (p *Playlist) Path() string { return p.path }

// Name returns the playlist file name.
func (p *Playlist) Name() string { return p.name }

// Root returns the RetroArch root the playlist belongs to.
func (p *Playlist) Root() string { return p.root }

// Reset drops all items.
func (p *Playlist) Reset() {
	p.Items = []Item{}
}

// Add appends an entry. Core name and checksum are left for RetroArch to detect.
func (p *Playlist) Add(path, label, corePath string) {
	p.Items = append(p.Items, Item{
		Path:     path,
		Label:    label,
		CorePath: corePath,
		CoreName: Detect,
		CRC32:    Detect,
		DBName:   p.name,
	})
}

// Save writes the playlist with two-space indentation, creating the playlists
// directory if needed.
func (p *Playlist) Save() error {
	doc := make(map[string]any, len(p.extra)+2)
	for k, v := range p.extra {
		doc[k] = v
	}
	doc["version"] = p.Version
	doc["items"] = p.Items

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode playlist: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write playlist %s: %w", p.path, err)
	}
	return nil
}

// Labels returns the item labels in playlist order.
func (p *Playlist) Labels() []string {
	labels := make([]string, 0, len(p.Items))
	for _, item := range p.Items {
		labels = append(labels, item.Label)
	}
	return labels
}
