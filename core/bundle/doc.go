// Package bundle reads and rewrites ROM bundles: zip archives named after the
// game they hold.
//
// A bundle's members are identified by content. ReadMembers computes the CRC-32 of
// every member's decompressed bytes; the reserved stamp member (version.json) and
// directory entries are never reported as members.
//
// Writes never patch an archive in place. WriteMembers copies the existing entries
// (raw, without recompressing) together with the new or replaced members into a
// temporary file next to the archive and renames it over the original, so a
// failed write leaves the bundle untouched.
//
// # Stamps
//
// A stamp records that a bundle has been reconciled against a reference database:
//
//	err := bundle.WriteStamp(path, bundle.Stamp{CoreName: "mame2010", Description: "Pac-Man (Midway)"})
//	stamp, err := bundle.ReadStamp(path) // nil stamp when the bundle was never reconciled
package bundle
