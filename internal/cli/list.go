package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/rthealth/internal/config"
	"github.com/mrz1836/rthealth/internal/doctor"
	"github.com/mrz1836/rthealth/internal/tui"
)

// Check statuses shown by the list command.
const (
	statusEnabled    = "enabled"
	statusDisabled   = "disabled"
	statusOverridden = "overridden"
)

// listEntry describes one check for the list command.
type listEntry struct {
	Name     string `json:"name" yaml:"name"`
	Section  string `json:"section" yaml:"section"`
	Package  string `json:"package" yaml:"package"`
	Status   string `json:"status" yaml:"status"`
	HostProg string `json:"host_prog,omitempty" yaml:"host_prog,omitempty"`
}

// addListCommand adds the list command to the root command.
func addListCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the available checks",
		Long: `List every check with its companion package and whether it is enabled.
A disabled check that has host_prog configured still runs and is shown as
overridden.`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runList(cmd)
		},
	}
	root.AddCommand(cmd)
}

func (a *app) runList(cmd *cobra.Command) error {
	cfg := a.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	entries := listEntries(cfg)
	format := a.output(cmd)
	tui.CheckNoColor()
	out := tui.NewOutput(a.stdout, format)

	if format != tui.FormatText {
		return out.Encode(entries)
	}

	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Section, e.Package, e.Status, e.HostProg})
	}
	out.Table([]string{"Check", "Provider", "Package", "Status", "Host program"}, rows)
	return nil
}

// listEntries describes every built-in check under cfg in run order.
func listEntries(cfg *config.Config) []listEntry {
	checks := doctor.Checks()
	entries := make([]listEntry, 0, len(checks))
	for _, c := range checks {
		cs := cfg.CheckSettings(c.Name)
		status := statusEnabled
		if cs.IsDisabled() {
			status = statusDisabled
			if cs.HostProg != "" {
				status = statusOverridden
			}
		}
		entries = append(entries, listEntry{
			Name:     c.Name,
			Section:  c.Section,
			Package:  cs.Package,
			Status:   status,
			HostProg: cs.HostProg,
		})
	}
	return entries
}
