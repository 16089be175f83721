package dat

import (
	"sort"
	"strings"

	"rom-manager/core/checksum"
	"rom-manager/core/utils"
)

// Rom is one file a game expects to find in its bundle.
type Rom struct {
	// Name is the member name the game expects inside its archive.
	Name string `json:"name"`
	// CRC is the identity used for matching; names may differ across dumps.
	CRC checksum.CRC32 `json:"crc"`
	// Size is the expected size in bytes, nil when the DAT does not say.
	Size *int64 `json:"size,omitempty"`
	// SHA1 is carried through from the DAT but never compared.
	SHA1 string `json:"sha1,omitempty"`
	// Merge names the parent rom for clones.
	Merge string `json:"merge,omitempty"`
}

// Game is one entry of a reference database.
type Game struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Year         string `json:"year,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	SourceFile   string `json:"sourcefile,omitempty"`
	CloneOf      string `json:"cloneof,omitempty"`
	RomOf        string `json:"romof,omitempty"`
	Roms         []Rom  `json:"roms"`
}

// Database is a parsed reference database. It is read-only once built.
type Database struct {
	// Core identifies the emulator core this database belongs to (e.g. "mame2010").
	// It is assigned by the loader, not by the DAT text, and is what stamps record.
	Core        string           `json:"core"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category,omitempty"`
	Version     string           `json:"version,omitempty"`
	Author      string           `json:"author,omitempty"`
	Games       map[string]*Game `json:"games"`
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{Games: make(map[string]*Game)}
}

// AddGame registers a game, replacing any previous game with the same name.
func (db *Database) AddGame(g *Game) {
	if db.Games == nil {
		db.Games = make(map[string]*Game)
	}
	db.Games[g.Name] = g
}

// Game looks a game up by archive name. A trailing ".zip" is ignored.
func (db *Database) Game(name string) (*Game, bool) {
	g, ok := db.Games[strings.TrimSuffix(name, utils.ArchiveExt)]
	return g, ok
}

// Len returns the number of games.
func (db *Database) Len() int {
	return len(db.Games)
}

// Names returns all game names in sorted order.
func (db *Database) Names() []string {
	names := make([]string, 0, len(db.Games))
	for name := range db.Games {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Identity returns the name recorded in stamps: the core when set, the DAT name otherwise.
func (db *Database) Identity() string {
	if db.Core != "" {
		return db.Core
	}
	return db.Name
}
