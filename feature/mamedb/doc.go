// Package mamedb resolves the reference database of every installed MAME core.
//
// Cores are discovered in <retroarch root>/cores: any file whose name starts with
// "mame" and, once its extension is stripped, names a known libretro core. Each
// known core maps to a Logiqx DAT archive.
//
// Loading a core's database tries, in order:
//
//  1. the parsed-database store (gorm; sqlite by default), filled on first load
//  2. the object-storage mirror (dats/<archive> in the configured bucket)
//  3. the DAT site over HTTP; a successful download is written through to the mirror
//
// Concurrent loads of the same core are collapsed with singleflight. An unknown
// core or an archive without the expected DAT member is a NotFoundError; a non-2xx
// response is a NetworkError.
package mamedb
