// Package reconcile matches ROM bundles against reference databases and repairs
// the ones that can be completed from other bundles in the same directory.
//
// # Decision
//
// Bundles are visited in path order. A bundle that already carries a stamp is
// settled and skipped without any checksum comparison. Otherwise each database is
// tried in order; for the game named like the bundle every rom is classified as:
//
//   - ok: the bundle holds a member with the rom's checksum
//   - other: another bundle holds it (per the directory checksum index)
//   - missing: nobody holds it
//
// All ok is an exact match: the bundle is stamped. No missing roms is a repairable
// match: the missing members are copied in under the names the game expects and
// the bundle is stamped in the same write. Any missing rom moves on to the next
// database. A bundle no database matches is left untouched; that is not an error.
//
// # Repair
//
// Planning produces Actions (copy_rom, stamp); applying them reads every donor
// member, verifies its checksum and only then rewrites the target archive once.
// A donor that disappeared or changed since the scan fails the repair with a
// RepairSourceUnavailableError and leaves the target unmodified; the engine then
// treats the database as not matching.
//
// # Usage
//
//	idx := index.New(cfg.Library, logger)
//	if err := idx.Scan(ctx, romDir); err != nil {
//	    return err
//	}
//	report, err := reconcile.NewEngine(idx, dbs, logger, reconcile.Options{}).Reconcile(ctx)
//
// With Options.DryRun the engine plans without writing: exact matches are reported
// but not stamped and repairable bundles are reported as repairable.
package reconcile
