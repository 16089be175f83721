package reconcile

import (
	"context"
	"fmt"

	"rom-manager/core/bundle"
	"rom-manager/core/checksum"
	"rom-manager/core/dat"
	apperrors "rom-manager/core/errors"
)

// Classify checks every rom of game against b and the directory index.
func Classify(idx Index, b *bundle.Bundle, game *dat.Game) ([]RomCheck, Decision) {
	checks := make([]RomCheck, 0, len(game.Roms))
	missing, other := 0, 0

	for _, rom := range game.Roms {
		check := RomCheck{Rom: rom.Name, CRC: rom.CRC}
		switch {
		case b.Has(rom.CRC):
			check.State = RomOK
		default:
			if loc, ok := idx.Locate(rom.CRC); ok {
				check.State = RomOther
				check.Source = &loc
				other++
			} else {
				check.State = RomMissing
				missing++
			}
		}
		checks = append(checks, check)
	}

	switch {
	case missing > 0:
		return checks, DecisionNoMatch
	case other > 0:
		return checks, DecisionRepairable
	default:
		return checks, DecisionExact
	}
}

// PlanActions turns a classification into the mutations that settle the bundle:
// one copy per "other" rom followed by the stamp.
func PlanActions(db *dat.Database, game *dat.Game, checks []RomCheck) []Action {
	var actions []Action
	for _, c := range checks {
		if c.State != RomOther {
			continue
		}
		actions = append(actions, Action{
			Type:   ActionCopyRom,
			Rom:    c.Rom,
			CRC:    c.CRC,
			Source: c.Source,
		})
	}
	actions = append(actions, Action{
		Type:  ActionStamp,
		Stamp: &bundle.Stamp{CoreName: db.Identity(), Description: game.Description},
	})
	return actions
}

// ApplyPlan executes actions against b in a single archive write.
// Donor bytes are gathered and verified first; if any donor is unavailable the
// bundle is left untouched and a RepairSourceUnavailableError is returned.
// It returns the number of members copied.
func ApplyPlan(ctx context.Context, idx Index, b *bundle.Bundle, actions []Action) (copied int, err error) {
	members := make(map[string][]byte, len(actions))

	for _, action := range actions {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		switch action.Type {
		case ActionCopyRom:
			data, err := readDonor(b, action)
			if err != nil {
				return 0, err
			}
			members[action.Rom] = data
			copied++

		case ActionStamp:
			data, err := encodeStamp(action.Stamp)
			if err != nil {
				return 0, err
			}
			members[bundle.StampMember] = data
		}
	}

	if len(members) == 0 {
		return 0, nil
	}
	if err := bundle.WriteMembers(b.Path, members); err != nil {
		return 0, err
	}

	if copied > 0 {
		err = idx.Refresh(b)
	} else {
		err = idx.Touch(b)
	}
	return copied, err
}

func readDonor(b *bundle.Bundle, action Action) ([]byte, error) {
	fail := func(err error) error {
		e := &apperrors.RepairSourceUnavailableError{
			Bundle: b.Name,
			Rom:    action.Rom,
			CRC:    action.CRC.String(),
			Err:    err,
		}
		if action.Source != nil {
			e.Source = action.Source.BundleName + ":" + action.Source.Member
		}
		return e
	}

	if action.Source == nil {
		return nil, fail(fmt.Errorf("no donor located"))
	}

	data, err := bundle.ReadMember(action.Source.BundlePath, action.Source.Member)
	if err != nil {
		return nil, fail(err)
	}
	if got := checksum.Sum(data); got != action.CRC {
		return nil, fail(fmt.Errorf("donor checksum is %s", got))
	}
	return data, nil
}
