package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"rom-manager/core/index"
	"rom-manager/core/reconcile"
	"rom-manager/feature/mamedb"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	fixRoot    string
	fixRomDir  string
	fixDryRun  bool
	fixAll bool
)

// fixCmd reconciles a ROM directory against the reference databases of the
// installed MAME cores.
var fixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Verify, repair and stamp ROM bundles",
	Long: `Matches every bundle of the ROM directory against the reference databases of
the MAME cores installed under the RetroArch root. Bundles missing roms that exist
elsewhere in the directory are repaired; complete bundles are stamped so later
runs skip them.

Examples:
  # Report what would change
  fix --root ~/.config/retroarch --romdir ~/roms/mame --dry-run

  # Repair and stamp
  fix --root ~/.config/retroarch --romdir ~/roms/mame`,
	RunE: runFix,
}

func init() {
	fixCmd.Flags().StringVar(&fixRoot, "root", "", "RetroArch root (overrides RETROARCH_ROOT)")
	fixCmd.Flags().StringVar(&fixRomDir, "romdir", "", "ROM directory (overrides LIBRARY_DIR)")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Report without writing bundles or the cache")
	fixCmd.Flags().BoolVar(&fixAll, "all", false, "List settled and unmatched bundles too")
	RootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) error {
	env, err := bootstrap()
	if err != nil {
		return err
	}
	defer env.log.Sync()

	override(&env.cfg.RetroArch.Root, fixRoot)
	override(&env.cfg.Library.Dir, fixRomDir)

	report, _, err := env.fix(context.Background(), fixDryRun)
	if err != nil {
		return err
	}
	printReport(os.Stdout, report, fixAll)
	return nil
}

// fix loads the reference databases, scans the ROM directory and reconciles it.
func (env *environment) fix(ctx context.Context, dryRun bool) (*reconcile.Report, []mamedb.Core, error) {
	if env.cfg.Library.Dir == "" {
		return nil, nil, fmt.Errorf("rom directory is not set (use --romdir or LIBRARY_DIR)")
	}

	cores, dbs, err := env.databases(ctx, env.mameDB(ctx))
	if err != nil {
		return nil, nil, err
	}

	idx := index.New(env.cfg.Library, env.log)
	if err := idx.Scan(ctx, env.cfg.Library.Dir); err != nil {
		return nil, nil, fmt.Errorf("failed to scan %s: %w", env.cfg.Library.Dir, err)
	}

	report, err := reconcile.NewEngine(idx, dbs, env.log, reconcile.Options{DryRun: dryRun}).Reconcile(ctx)
	if err != nil {
		return nil, nil, err
	}
	return report, cores, nil
}

var statusColors = map[reconcile.Status]*color.Color{
	reconcile.StatusSettled:    color.New(color.FgHiBlack),
	reconcile.StatusExact:      color.New(color.FgGreen),
	reconcile.StatusRepaired:   color.New(color.FgCyan),
	reconcile.StatusRepairable: color.New(color.FgYellow),
	reconcile.StatusNoMatch:    color.New(color.FgHiBlack),
	reconcile.StatusFailed:     color.New(color.FgRed),
}

// printReport renders the results that changed or need attention, then the summary.
func printReport(w io.Writer, report *reconcile.Report, all bool) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Bundle", "Status", "Core", "Game", "Copied", "Notes"})

	for _, r := range report.Results {
		quiet := r.Status == reconcile.StatusSettled || r.Status == reconcile.StatusNoMatch
		if quiet && !all {
			continue
		}

		copied := 0
		for _, a := range r.Actions {
			if a.Type == reconcile.ActionCopyRom {
				copied++
			}
		}

		status := string(r.Status)
		if c, ok := statusColors[r.Status]; ok {
			status = c.Sprint(status)
		}
		tbl.AppendRow(table.Row{r.Bundle, status, r.Core, r.Description, copied, strings.Join(r.Errors, "; ")})
	}

	s := report.Summary
	tbl.AppendFooter(table.Row{
		fmt.Sprintf("Total: %d", s.Total),
		fmt.Sprintf("exact %d, repaired %d, repairable %d", s.Exact, s.Repaired, s.Repairable),
		fmt.Sprintf("settled %d", s.Settled),
		fmt.Sprintf("no match %d, failed %d", s.NoMatch, s.Failed),
		s.RomsCopied,
		"",
	})
	tbl.Render()

	if report.DryRun {
		color.New(color.FgYellow).Fprintln(w, "Dry-run mode: no changes were made.")
	}
}
