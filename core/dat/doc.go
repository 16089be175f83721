// Package dat parses reference databases ("DAT files") into a normalized model of
// games and their expected ROM checksums.
//
// Two textual formats are supported:
//
//   - Logiqx XML: a <datafile> document with a <header> element and one <game>
//     (or <machine>) element per game, each holding <rom> elements.
//   - clrmamepro: a stream of bareword/quoted tokens and parenthesized groups,
//     e.g. `game ( name pacman rom ( name pacman.6e crc c1e6ab10 ) )`.
//
// Format selection is a content sniff: text starting with an XML declaration is
// parsed as XML, anything else as clrmamepro. Malformed input surfaces as the chosen
// parser's own error; text that yields neither a header nor a single game is
// reported as a FormatError.
//
// ROMs marked status="nodump" carry no checksum obligation and are dropped while
// parsing, as are ROMs with no checksum at all.
//
// # Usage
//
//	db, err := dat.ParseFile("MAME v0.139.dat")
//	if err != nil {
//	    return err
//	}
//	db.Core = "mame2010"
//	if game, ok := db.Game("pacman.zip"); ok {
//	    fmt.Println(game.Description, len(game.Roms))
//	}
package dat
