package mamedb

import (
	"errors"
	"fmt"
	"time"

	"rom-manager/core/checksum"
	"rom-manager/core/dat"
	"rom-manager/core/database"

	"gorm.io/gorm"
)

// DatabaseRow is a stored reference database.
type DatabaseRow struct {
	ID          uint      `gorm:"primaryKey"`
	Core        string    `gorm:"size:64;uniqueIndex"`
	Name        string    `gorm:"size:255"`
	Description string    `gorm:"size:255"`
	Category    string    `gorm:"size:255"`
	Version     string    `gorm:"size:64"`
	Author      string    `gorm:"size:255"`
	CreatedAt   time.Time
	Games       []GameRow `gorm:"foreignKey:DatabaseID"`
}

// TableName overrides the table name.
func (DatabaseRow) TableName() string { return "mamedb_databases" }

// GameRow is a stored game.
type GameRow struct {
	ID           uint     `gorm:"primaryKey"`
	DatabaseID   uint     `gorm:"index"`
	Name         string   `gorm:"size:191;index"`
	Description  string   `gorm:"size:255"`
	Year         string   `gorm:"size:16"`
	Manufacturer string   `gorm:"size:255"`
	SourceFile   string   `gorm:"size:255"`
	CloneOf      string   `gorm:"size:191"`
	RomOf        string   `gorm:"size:191"`
	Roms         []RomRow `gorm:"foreignKey:GameID"`
}

// TableName overrides the table name.
func (GameRow) TableName() string { return "mamedb_games" }

// RomRow is a stored rom. Position keeps the DAT order.
type RomRow struct {
	ID       uint   `gorm:"primaryKey"`
	GameID   uint   `gorm:"index"`
	Position int
	Name     string `gorm:"size:255"`
	CRC      string `gorm:"size:8"`
	Size     *int64
	SHA1     string `gorm:"size:40"`
	Merge    string `gorm:"size:255"`
}

// TableName overrides the table name.
func (RomRow) TableName() string { return "mamedb_roms" }

// gameBatchSize bounds games per insert statement batch.
const gameBatchSize = 100

// Store persists parsed reference databases so later runs skip download and parse.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open connection. Call Migrate before use.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables, rebuilding any table written by an older schema.
func (s *Store) Migrate() error {
	models := []struct {
		model   any
		table   string
		columns []string
	}{
		{&RomRow{}, RomRow{}.TableName(), []string{"game_id", "position", "crc", "size", "sha1", "merge"}},
		{&GameRow{}, GameRow{}.TableName(), []string{"database_id", "name", "clone_of", "rom_of"}},
		{&DatabaseRow{}, DatabaseRow{}.TableName(), []string{"core", "name", "version"}},
	}

	for _, m := range models {
		if !s.db.Migrator().HasTable(m.table) {
			continue
		}
		missing, err := database.MissingColumns(s.db, m.table, m.columns...)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			if err := s.db.Migrator().DropTable(m.model); err != nil {
				return fmt.Errorf("failed to drop outdated table %s: %w", m.table, err)
			}
		}
	}

	if err := s.db.AutoMigrate(&DatabaseRow{}, &GameRow{}, &RomRow{}); err != nil {
		return fmt.Errorf("failed to migrate mamedb tables: %w", err)
	}
	return nil
}

// Load returns the stored database of core. ok is false when none is stored.
func (s *Store) Load(core string) (db *dat.Database, ok bool, err error) {
	var row DatabaseRow
	err = s.db.
		Preload("Games").
		Preload("Games.Roms", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Where("core = ?", core).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load stored database %s: %w", core, err)
	}

	db, err = row.toDatabase()
	if err != nil {
		return nil, false, err
	}
	return db, true, nil
}

// Save replaces the stored database of db.Core.
func (s *Store) Save(db *dat.Database) error {
	if db.Core == "" {
		return fmt.Errorf("cannot store database %q without core", db.Name)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteCore(tx, db.Core); err != nil {
			return err
		}

		row := DatabaseRow{
			Core:        db.Core,
			Name:        db.Name,
			Description: db.Description,
			Category:    db.Category,
			Version:     db.Version,
			Author:      db.Author,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to store database %s: %w", db.Core, err)
		}

		games := make([]GameRow, 0, db.Len())
		for _, name := range db.Names() {
			games = append(games, gameRow(row.ID, db.Games[name]))
		}
		if len(games) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(games, gameBatchSize).Error; err != nil {
			return fmt.Errorf("failed to store games of %s: %w", db.Core, err)
		}
		return nil
	})
}

// Delete removes the stored database of core.
func (s *Store) Delete(core string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return deleteCore(tx, core)
	})
}

func deleteCore(tx *gorm.DB, core string) error {
	var ids []uint
	if err := tx.Model(&DatabaseRow{}).Where("core = ?", core).Pluck("id", &ids).Error; err != nil {
		return fmt.Errorf("failed to find stored database %s: %w", core, err)
	}
	if len(ids) == 0 {
		return nil
	}

	games := tx.Model(&GameRow{}).Select("id").Where("database_id IN ?", ids)
	if err := tx.Where("game_id IN (?)", games).Delete(&RomRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete roms of %s: %w", core, err)
	}
	if err := tx.Where("database_id IN ?", ids).Delete(&GameRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete games of %s: %w", core, err)
	}
	if err := tx.Where("id IN ?", ids).Delete(&DatabaseRow{}).Error; err != nil {
		return fmt.Errorf("failed to delete database %s: %w", core, err)
	}
	return nil
}

func gameRow(databaseID uint, g *dat.Game) GameRow {
	row := GameRow{
		DatabaseID:   databaseID,
		Name:         g.Name,
		Description:  g.Description,
		Year:         g.Year,
		Manufacturer: g.Manufacturer,
		SourceFile:   g.SourceFile,
		CloneOf:      g.CloneOf,
		RomOf:        g.RomOf,
		Roms:         make([]RomRow, 0, len(g.Roms)),
	}
	for i, r := range g.Roms {
		row.Roms = append(row.Roms, RomRow{
			Position: i,
			Name:     r.Name,
			CRC:      r.CRC.String(),
			Size:     r.Size,
			SHA1:     r.SHA1,
			Merge:    r.Merge,
		})
	}
	return row
}

func (row DatabaseRow) toDatabase() (*dat.Database, error) {
	db := dat.NewDatabase()
	db.Core = row.Core
	db.Name = row.Name
	db.Description = row.Description
	db.Category = row.Category
	db.Version = row.Version
	db.Author = row.Author

	for _, g := range row.Games {
		game := &dat.Game{
			Name:         g.Name,
			Description:  g.Description,
			Year:         g.Year,
			Manufacturer: g.Manufacturer,
			SourceFile:   g.SourceFile,
			CloneOf:      g.CloneOf,
			RomOf:        g.RomOf,
			Roms:         make([]dat.Rom, 0, len(g.Roms)),
		}
		for _, r := range g.Roms {
			crc, err := checksum.Parse(r.CRC)
			if err != nil {
				return nil, fmt.Errorf("stored rom %s of %s: %w", r.Name, g.Name, err)
			}
			game.Roms = append(game.Roms, dat.Rom{
				Name:  r.Name,
				CRC:   crc,
				Size:  r.Size,
				SHA1:  r.SHA1,
				Merge: r.Merge,
			})
		}
		db.AddGame(game)
	}
	return db, nil
}
