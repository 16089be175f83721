package reconcile

import (
	"rom-manager/core/bundle"
	"rom-manager/core/checksum"
)

// Status is the outcome of reconciling one bundle.
type Status string

const (
	// StatusSettled marks a bundle stamped by an earlier run.
	StatusSettled Status = "settled"
	// StatusExact marks a bundle holding every rom of its game.
	StatusExact Status = "exact"
	// StatusRepaired marks a bundle completed from other bundles.
	StatusRepaired Status = "repaired"
	// StatusRepairable marks a bundle a dry run would repair.
	StatusRepairable Status = "repairable"
	// StatusNoMatch marks a bundle no database could match.
	StatusNoMatch Status = "no_match"
	// StatusFailed marks a bundle whose stamp could not be read or written.
	StatusFailed Status = "failed"
)

// RomState classifies one required rom against a bundle.
type RomState string

const (
	RomOK      RomState = "ok"
	RomOther   RomState = "other"
	RomMissing RomState = "missing"
)

// Decision is the match verdict of one bundle against one game.
type Decision int

const (
	DecisionNoMatch Decision = iota
	DecisionExact
	DecisionRepairable
)

// RomCheck is the classification of one required rom.
type RomCheck struct {
	Rom   string         `json:"rom"`
	CRC   checksum.CRC32 `json:"crc"`
	State RomState       `json:"state"`
	// Source is where an "other" rom will be copied from.
	Source *bundle.Location `json:"source,omitempty"`
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionCopyRom copies a member from a donor bundle into the target.
	ActionCopyRom ActionType = "copy_rom"
	// ActionStamp writes the stamp member into the target.
	ActionStamp ActionType = "stamp"
)

// Action represents a planned mutation of one bundle.
type Action struct {
	Type ActionType `json:"type"`

	// Rom is the member name the game expects. Only set for ActionCopyRom.
	Rom string `json:"rom,omitempty"`

	// CRC is the checksum the copied bytes must have. Only set for ActionCopyRom.
	CRC checksum.CRC32 `json:"crc,omitempty"`

	// Source is the donor member. Only set for ActionCopyRom.
	Source *bundle.Location `json:"source,omitempty"`

	// Stamp is the record to write. Only set for ActionStamp.
	Stamp *bundle.Stamp `json:"stamp,omitempty"`
}

// Result is the reconciliation output for a single bundle.
type Result struct {
	Bundle string `json:"bundle"`
	Path   string `json:"path"`
	Status Status `json:"status"`

	// Core is the identity of the matched (or previously stamped) database.
	Core string `json:"core,omitempty"`

	// Game and Description identify the matched game.
	Game        string `json:"game,omitempty"`
	Description string `json:"description,omitempty"`

	// Checks holds the rom classification against the matched database.
	Checks []RomCheck `json:"checks,omitempty"`

	// Actions holds the planned or applied mutations.
	Actions []Action `json:"actions,omitempty"`

	// Errors lists failures met along the way, including repairs abandoned
	// against a database before a later one matched.
	Errors []string `json:"errors,omitempty"`
}

// Summary provides aggregate counts for a report.
type Summary struct {
	Total      int `json:"total"`
	Settled    int `json:"settled"`
	Exact      int `json:"exact"`
	Repaired   int `json:"repaired"`
	Repairable int `json:"repairable"`
	NoMatch    int `json:"no_match"`
	Failed     int `json:"failed"`

	// RomsCopied counts members written into bundles (or that would be, in a dry run).
	RomsCopied int `json:"roms_copied"`
}

// Report is the outcome of one reconciliation pass.
type Report struct {
	Results []Result `json:"results"`
	Summary Summary  `json:"summary"`
	DryRun  bool     `json:"dry_run"`
}

// Options controls reconcile behavior.
type Options struct {
	// DryRun prevents any write to bundles or the cache.
	DryRun bool
}

func (s *Summary) add(r Result) {
	s.Total++
	switch r.Status {
	case StatusSettled:
		s.Settled++
	case StatusExact:
		s.Exact++
	case StatusRepaired:
		s.Repaired++
	case StatusRepairable:
		s.Repairable++
	case StatusNoMatch:
		s.NoMatch++
	case StatusFailed:
		s.Failed++
	}
	if r.Status == StatusRepaired || r.Status == StatusRepairable {
		for _, a := range r.Actions {
			if a.Type == ActionCopyRom {
				s.RomsCopied++
			}
		}
	}
}
