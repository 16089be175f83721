package bundle

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"rom-manager/core/checksum"
	apperrors "rom-manager/core/errors"

	"github.com/klauspost/compress/zip"
)

// Stamp records the reference database and game a bundle was matched against.
type Stamp struct {
	CoreName    string `json:"core_name"`
	Description string `json:"description"`
}

// ReadMembers opens the archive at path and checksums every member.
// Failures are returned as ArchiveUnreadableError.
func ReadMembers(path string) ([]Member, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, apperrors.NewArchiveUnreadableError(path, err)
	}
	defer zr.Close()

	members := make([]Member, 0, len(zr.File))
	for _, f := range zr.File {
		if isReserved(f) {
			continue
		}
		crc, err := sumMember(f)
		if err != nil {
			return nil, apperrors.NewArchiveUnreadableError(path, fmt.Errorf("member %s: %w", f.Name, err))
		}
		members = append(members, Member{Name: f.Name, CRC: crc})
	}
	return members, nil
}

// ReadMember returns the decompressed bytes of the named member.
func ReadMember(path, name string) ([]byte, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, apperrors.NewArchiveUnreadableError(path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, apperrors.NewArchiveUnreadableError(path, err)
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, apperrors.NewArchiveUnreadableError(path, fmt.Errorf("member %s: %w", name, err))
		}
		return data, nil
	}
	return nil, apperrors.NewNotFoundError("member", filepath.Base(path)+":"+name)
}

// ReadStamp returns the bundle's stamp, or nil when it has none.
func ReadStamp(path string) (*Stamp, error) {
	data, err := ReadMember(path, StampMember)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var stamp Stamp
	if err := json.Unmarshal(data, &stamp); err != nil {
		return nil, fmt.Errorf("invalid stamp in %s: %w", path, err)
	}
	return &stamp, nil
}

// WriteStamp stores stamp as the bundle's reserved stamp member.
func WriteStamp(path string, stamp Stamp) error {
	data, err := json.Marshal(stamp)
	if err != nil {
		return fmt.Errorf("failed to encode stamp: %w", err)
	}
	return WriteMembers(path, map[string][]byte{StampMember: data})
}

// WriteMembers adds or replaces members of the archive at path, creating the
// archive when it does not exist. Untouched members keep their order and
// compressed bytes; written members are appended in name order.
func WriteMembers(path string, members map[string][]byte) error {
	var existing []*zip.File
	zr, err := zip.OpenReader(path)
	switch {
	case err == nil:
		defer zr.Close()
		existing = zr.File
	case os.IsNotExist(err):
	default:
		return apperrors.NewArchiveUnreadableError(path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := writeArchive(tmp, existing, members); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmpPath, info.Mode().Perm())
	} else {
		_ = os.Chmod(tmpPath, 0o644)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func writeArchive(w io.Writer, existing []*zip.File, members map[string][]byte) error {
	zw := zip.NewWriter(w)

	for _, f := range existing {
		if _, replaced := members[f.Name]; replaced {
			continue
		}
		if err := zw.Copy(f); err != nil {
			return fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}

	now := time.Now()
	for _, name := range sortedNames(members) {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: now})
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := fw.Write(members[name]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return zw.Close()
}

func sortedNames(members map[string][]byte) []string {
	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sumMember(f *zip.File) (checksum.CRC32, error) {
	rc, err := f.Open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	return checksum.SumReader(rc)
}

func isReserved(f *zip.File) bool {
	return f.Name == StampMember || strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
}
