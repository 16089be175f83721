package cmd

import (
	"bytes"
	"testing"

	"rom-manager/core/reconcile"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrintReport(t *testing.T) {
	color.NoColor = true

	report := &reconcile.Report{
		DryRun: true,
		Results: []reconcile.Result{
			{Bundle: "pacman", Status: reconcile.StatusExact, Core: "mame2010", Description: "Pac-Man (Midway)"},
			{Bundle: "mspacman", Status: reconcile.StatusRepairable, Core: "mame2010", Actions: []reconcile.Action{
				{Type: reconcile.ActionCopyRom, Rom: "boot1"},
				{Type: reconcile.ActionStamp},
			}},
			{Bundle: "galaga", Status: reconcile.StatusSettled, Core: "mame2010"},
			{Bundle: "broken", Status: reconcile.StatusFailed, Errors: []string{"archive broken.zip unreadable"}},
		},
		Summary: reconcile.Summary{Total: 4, Exact: 1, Repairable: 1, Settled: 1, Failed: 1, RomsCopied: 1},
	}

	var buf bytes.Buffer
	printReport(&buf, report, false)
	out := buf.String()

	assert.Contains(t, out, "pacman")
	assert.Contains(t, out, "repairable")
	assert.Contains(t, out, "archive broken.zip unreadable")
	assert.NotContains(t, out, "galaga")
	assert.Contains(t, out, "Dry-run mode")

	buf.Reset()
	printReport(&buf, report, true)
	assert.Contains(t, buf.String(), "galaga")
}

func TestOverride(t *testing.T) {
	v := "config"
	override(&v, "")
	assert.Equal(t, "config", v)
	override(&v, "flag")
	assert.Equal(t, "flag", v)
}
