package reconcile

import (
	"rom-manager/core/bundle"
	"rom-manager/core/checksum"
)

// Index is the view of a scanned directory the engine reconciles against.
// *index.Index implements it.
type Index interface {
	// Bundles returns the readable bundles in path order.
	Bundles() []*bundle.Bundle

	// Locate returns where a checksum lives in the directory.
	Locate(crc checksum.CRC32) (bundle.Location, bool)

	// Refresh re-reads a bundle whose members changed and rebuilds the checksum index.
	Refresh(b *bundle.Bundle) error

	// Touch records a bundle's new modification time after a write that left its
	// members unchanged.
	Touch(b *bundle.Bundle) error

	// Persist writes the cache for the scanned directory.
	Persist() error
}
