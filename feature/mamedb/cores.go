package mamedb

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "rom-manager/core/errors"
)

// CoreInfo describes a libretro core and the DAT it was built against.
type CoreInfo struct {
	// Library is the core's file name without extension.
	Library string `json:"library"`
	// Name is the identity stamped into reconciled bundles.
	Name string `json:"name"`
	// DatFile is the archive name on the DAT site.
	DatFile string `json:"datfile"`
	// UnzippedDatFile is the DAT member inside the archive.
	UnzippedDatFile string `json:"unzipped_datfile"`
}

// Core is a core installed under a RetroArch root.
type Core struct {
	Info CoreInfo `json:"info"`
	// Path is the core file, as written to playlists.
	Path string `json:"path"`
}

// knownCores maps core libraries to their reference databases.
var knownCores = map[string]CoreInfo{
	"mame2010_libretro": {
		Library:         "mame2010_libretro",
		Name:            "mame2010",
		DatFile:         "MAME v0.139 (xml).zip",
		UnzippedDatFile: "MAME v0.139.dat",
	},
}

// LookupCore returns the reference database description of a core library.
func LookupCore(library string) (CoreInfo, error) {
	info, ok := knownCores[library]
	if !ok {
		return CoreInfo{}, apperrors.NewNotFoundError("core", library)
	}
	return info, nil
}

// DiscoverCores lists the known MAME cores installed under root/cores, in path
// order. A missing cores directory yields no cores.
func DiscoverCores(root string) ([]Core, error) {
	dir := filepath.Join(root, "cores")

	var cores []Core
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir && errors.Is(err, os.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || !strings.HasPrefix(d.Name(), "mame") {
			return nil
		}

		library := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
		if info, err := LookupCore(library); err == nil {
			cores = append(cores, Core{Info: info, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(cores, func(i, j int) bool { return cores[i].Path < cores[j].Path })
	return cores, nil
}
