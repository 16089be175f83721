package reconcile

import (
	"context"
	"encoding/json"
	"fmt"

	"rom-manager/core/bundle"
	"rom-manager/core/dat"
	apperrors "rom-manager/core/errors"

	"go.uber.org/zap"
)

// Engine reconciles the bundles of one scanned directory against an ordered list
// of reference databases.
type Engine struct {
	idx    Index
	dbs    []*dat.Database
	logger *zap.Logger
	opts   Options
}

// NewEngine creates an engine. Databases are tried in the given order.
func NewEngine(idx Index, dbs []*dat.Database, logger *zap.Logger, opts Options) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{idx: idx, dbs: dbs, logger: logger, opts: opts}
}

// Reconcile visits every bundle once. Per-bundle failures are recorded in the
// report; only cancellation and cache persistence errors are returned.
func (e *Engine) Reconcile(ctx context.Context) (*Report, error) {
	report := &Report{DryRun: e.opts.DryRun, Results: []Result{}}

	for _, b := range e.idx.Bundles() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := e.ReconcileBundle(ctx, b)
		report.Results = append(report.Results, result)
		report.Summary.add(result)
	}

	e.logger.Info("Reconciled bundles",
		zap.Int("total", report.Summary.Total),
		zap.Int("exact", report.Summary.Exact),
		zap.Int("repaired", report.Summary.Repaired),
		zap.Int("repairable", report.Summary.Repairable),
		zap.Int("settled", report.Summary.Settled),
		zap.Int("no_match", report.Summary.NoMatch),
		zap.Int("failed", report.Summary.Failed),
		zap.Bool("dry_run", e.opts.DryRun),
	)

	if e.opts.DryRun {
		return report, nil
	}
	if err := e.idx.Persist(); err != nil {
		return report, fmt.Errorf("failed to persist bundle cache: %w", err)
	}
	return report, nil
}

// ReconcileBundle decides and, unless dry-running, settles one bundle.
func (e *Engine) ReconcileBundle(ctx context.Context, b *bundle.Bundle) Result {
	result := Result{Bundle: b.Name, Path: b.Path, Status: StatusNoMatch}
	log := e.logger.With(zap.String("bundle", b.Name))

	stamp, err := bundle.ReadStamp(b.Path)
	if err != nil {
		log.Warn("Failed to read stamp", zap.Error(err))
		result.Status = StatusFailed
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if stamp != nil {
		result.Status = StatusSettled
		result.Core = stamp.CoreName
		result.Description = stamp.Description
		return result
	}

	for _, db := range e.dbs {
		game, ok := db.Game(b.Name)
		if !ok {
			continue
		}

		checks, decision := Classify(e.idx, b, game)
		if decision == DecisionNoMatch {
			log.Debug("Bundle does not match database", zap.String("core", db.Identity()))
			continue
		}

		actions := PlanActions(db, game, checks)
		matched := Result{
			Bundle:      b.Name,
			Path:        b.Path,
			Core:        db.Identity(),
			Game:        game.Name,
			Description: game.Description,
			Checks:      checks,
			Actions:     actions,
			Errors:      result.Errors,
		}

		if e.opts.DryRun {
			matched.Status = StatusExact
			if decision == DecisionRepairable {
				matched.Status = StatusRepairable
			}
			return matched
		}

		copied, err := ApplyPlan(ctx, e.idx, b, actions)
		if err != nil {
			if apperrors.IsRepairSourceUnavailable(err) {
				log.Warn("Repair abandoned", zap.String("core", db.Identity()), zap.Error(err))
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			log.Error("Failed to settle bundle", zap.String("core", db.Identity()), zap.Error(err))
			matched.Status = StatusFailed
			matched.Errors = append(matched.Errors, err.Error())
			return matched
		}

		matched.Status = StatusExact
		if decision == DecisionRepairable {
			matched.Status = StatusRepaired
			log.Info("Repaired bundle", zap.String("core", db.Identity()), zap.Int("copied", copied))
		} else {
			log.Info("Stamped bundle", zap.String("core", db.Identity()))
		}
		return matched
	}

	return result
}

func encodeStamp(stamp *bundle.Stamp) ([]byte, error) {
	if stamp == nil {
		return nil, fmt.Errorf("stamp action without stamp")
	}
	data, err := json.Marshal(stamp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stamp: %w", err)
	}
	return data, nil
}
