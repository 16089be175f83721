package dat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"rom-manager/core/checksum"
	apperrors "rom-manager/core/errors"

	"github.com/klauspost/compress/zip"
)

const (
	xmlDeclaration = "<?xml"
	utf8BOM        = "\ufeff"
	statusNoDump   = "nodump"
)

// Parse converts raw DAT text into a Database.
func Parse(text string) (*Database, error) {
	return parse("", text)
}

// ParseFile reads and parses a DAT file. Zipped DATs are opened transparently and
// the first .dat or .xml member is parsed.
func ParseFile(path string) (*Database, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		text, err := readZippedDat(path, "")
		if err != nil {
			return nil, err
		}
		return parse(filepath.Base(path), text)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dat %s: %w", path, err)
	}
	return parse(filepath.Base(path), string(data))
}

// ReadZipped extracts the DAT text named member from a zip archive held in memory.
// When member is empty the first .dat or .xml entry is used.
func ReadZipped(r io.ReaderAt, size int64, member string) (string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open dat archive: %w", err)
	}
	return extractDat(zr.File, member)
}

func readZippedDat(path, member string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open dat archive %s: %w", path, err)
	}
	defer zr.Close()
	return extractDat(zr.File, member)
}

func extractDat(files []*zip.File, member string) (string, error) {
	for _, f := range files {
		if member != "" && f.Name != member {
			continue
		}
		if member == "" {
			ext := strings.ToLower(filepath.Ext(f.Name))
			if ext != ".dat" && ext != ".xml" {
				continue
			}
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		return string(data), nil
	}

	if member == "" {
		member = "*.dat"
	}
	return "", apperrors.NewNotFoundError("dat member", member)
}

func parse(source, text string) (*Database, error) {
	var (
		db  *Database
		err error
	)

	if isXML(text) {
		db, err = parseXML(text)
	} else {
		db, err = parseClrMamePro(text)
	}
	if err != nil {
		var fe *apperrors.FormatError
		if errors.As(err, &fe) && fe.Source == "" {
			fe.Source = source
		}
		return nil, err
	}

	if db.Name == "" && db.Description == "" && db.Len() == 0 {
		return nil, apperrors.NewFormatError(source, "no header and no games found", nil)
	}
	return db, nil
}

func isXML(text string) bool {
	text = strings.TrimPrefix(text, utf8BOM)
	return strings.HasPrefix(strings.TrimSpace(text), xmlDeclaration)
}

// romFields is the attribute bag shared by both grammars.
type romFields struct {
	name, size, crc, sha1, merge, status string
}

// build converts raw attributes into a Rom. ok is false for roms that impose no
// obligation (nodump or no checksum).
func (f romFields) build(game string) (rom Rom, ok bool, err error) {
	if f.status == statusNoDump || strings.TrimSpace(f.crc) == "" {
		return Rom{}, false, nil
	}

	crc, err := checksum.Parse(f.crc)
	if err != nil {
		return Rom{}, false, apperrors.NewFormatError("", fmt.Sprintf("game %s rom %s", game, f.name), err)
	}

	rom = Rom{
		Name:  f.name,
		CRC:   crc,
		SHA1:  strings.ToLower(f.sha1),
		Merge: f.merge,
	}
	if f.size != "" {
		size, err := strconv.ParseInt(f.size, 10, 64)
		if err != nil {
			return Rom{}, false, apperrors.NewFormatError("", fmt.Sprintf("game %s rom %s: invalid size %q", game, f.name, f.size), nil)
		}
		rom.Size = &size
	}
	return rom, true, nil
}
