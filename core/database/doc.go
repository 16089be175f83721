// Package database handles database connections and schema inspection.
//
// It wraps GORM to open the database that persists parsed reference databases
// between runs. SQLite (a single file under the user's home by default) is the
// default; MySQL is supported for shared setups.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns let callers detect tables written by an
// older schema so they can be rebuilt instead of read with missing fields.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return err
//	}
//	missing, err := database.MissingColumns(db, "mamedb_roms", "crc", "position")
package database
