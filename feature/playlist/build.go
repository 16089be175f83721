package playlist

import (
	"rom-manager/core/reconcile"
	"rom-manager/feature/mamedb"

	"go.uber.org/zap"
)

// listable reports whether a bundle of this status carries a stamp on disk.
func listable(s reconcile.Status) bool {
	switch s {
	case reconcile.StatusSettled, reconcile.StatusExact, reconcile.StatusRepaired:
		return true
	}
	return false
}

// Fill replaces the playlist items with the stamped bundles of report. The label
// is the game description and the core path is the installed core the bundle
// was stamped for. Bundles whose core is not installed are skipped. It returns
// the number of items written.
func (p *Playlist) Fill(report *reconcile.Report, cores []mamedb.Core, logger *zap.Logger) int {
	if logger == nil {
		logger = zap.NewNop()
	}

	corePaths := make(map[string]string, len(cores))
	for _, c := range cores {
		if _, ok := corePaths[c.Info.Name]; !ok {
			corePaths[c.Info.Name] = c.Path
		}
	}

	p.Reset()
	for _, r := range report.Results {
		if !listable(r.Status) {
			continue
		}
		corePath, ok := corePaths[r.Core]
		if !ok {
			logger.Warn("Skipping bundle for core that is not installed",
				zap.String("bundle", r.Bundle),
				zap.String("core", r.Core),
			)
			continue
		}
		label := r.Description
		if label == "" {
			label = r.Bundle
		}
		p.Add(r.Path, label, corePath)
	}
	return len(p.Items)
}
