package dat

import (
	"encoding/xml"
	"fmt"
	"strings"

	apperrors "rom-manager/core/errors"
)

type xmlDatafile struct {
	Header   *xmlHeader `xml:"header"`
	Games    []xmlGame  `xml:"game"`
	Machines []xmlGame  `xml:"machine"`
}

type xmlHeader struct {
	Name        string `xml:"name"`
	Description string `xml:"description"`
	Category    string `xml:"category"`
	Version     string `xml:"version"`
	Author      string `xml:"author"`
}

type xmlGame struct {
	Name         string   `xml:"name,attr"`
	SourceFile   string   `xml:"sourcefile,attr"`
	CloneOf      string   `xml:"cloneof,attr"`
	RomOf        string   `xml:"romof,attr"`
	Description  string   `xml:"description"`
	Year         string   `xml:"year"`
	Manufacturer string   `xml:"manufacturer"`
	Roms         []xmlRom `xml:"rom"`
}

type xmlRom struct {
	Name   string `xml:"name,attr"`
	Size   string `xml:"size,attr"`
	CRC    string `xml:"crc,attr"`
	SHA1   string `xml:"sha1,attr"`
	Merge  string `xml:"merge,attr"`
	Status string `xml:"status,attr"`
}

func parseXML(text string) (*Database, error) {
	var doc xmlDatafile
	if err := xml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("malformed xml dat: %w", err)
	}

	db := NewDatabase()
	if h := doc.Header; h != nil {
		db.Name = strings.TrimSpace(h.Name)
		db.Description = strings.TrimSpace(h.Description)
		db.Category = strings.TrimSpace(h.Category)
		db.Version = strings.TrimSpace(h.Version)
		db.Author = strings.TrimSpace(h.Author)
	}

	for _, list := range [][]xmlGame{doc.Games, doc.Machines} {
		for _, g := range list {
			game, err := g.build()
			if err != nil {
				return nil, err
			}
			db.AddGame(game)
		}
	}

	return db, nil
}

func (g xmlGame) build() (*Game, error) {
	if g.Name == "" {
		return nil, apperrors.NewFormatError("", "game element without name", nil)
	}

	game := &Game{
		Name:         g.Name,
		Description:  strings.TrimSpace(g.Description),
		Year:         strings.TrimSpace(g.Year),
		Manufacturer: strings.TrimSpace(g.Manufacturer),
		SourceFile:   g.SourceFile,
		CloneOf:      g.CloneOf,
		RomOf:        g.RomOf,
		Roms:         []Rom{},
	}

	for _, r := range g.Roms {
		fields := romFields{
			name:   r.Name,
			size:   r.Size,
			crc:    r.CRC,
			sha1:   r.SHA1,
			merge:  r.Merge,
			status: r.Status,
		}
		rom, ok, err := fields.build(g.Name)
		if err != nil {
			return nil, err
		}
		if ok {
			game.Roms = append(game.Roms, rom)
		}
	}

	return game, nil
}
