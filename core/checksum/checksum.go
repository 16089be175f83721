// Package checksum defines the CRC-32 value used as the content identity of ROM files.
//
// Every comparison in the system (DAT entries, archive members, the directory-wide
// index) goes through CRC32, so the textual form is normalized to eight lowercase
// hex digits regardless of how a DAT file or cache spelled it.
package checksum

import (
	"fmt"
	"hash"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/crc32"
)

// CRC32 is an IEEE CRC-32 checksum.
type CRC32 uint32

// Sum returns the checksum of data.
func Sum(data []byte) CRC32 {
	return CRC32(crc32.ChecksumIEEE(data))
}

// SumReader consumes r and returns the checksum of everything read.
func SumReader(r io.Reader) (CRC32, error) {
	h := crc32.NewIEEE()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return CRC32(h.Sum32()), nil
}

// NewHash returns a streaming hash producing CRC32 values.
func NewHash() hash.Hash32 {
	return crc32.NewIEEE()
}

// Parse parses a hex encoded checksum. Case and an optional 0x prefix are ignored.
func Parse(s string) (CRC32, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	if s == "" || len(s) > 8 {
		return 0, fmt.Errorf("invalid crc32 %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid crc32 %q: %w", s, err)
	}
	return CRC32(v), nil
}

// String returns the checksum as eight lowercase hex digits.
func (c CRC32) String() string {
	return fmt.Sprintf("%08x", uint32(c))
}

// MarshalText implements encoding.TextMarshaler.
func (c CRC32) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CRC32) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
