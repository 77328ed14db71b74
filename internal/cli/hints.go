package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/mrz1836/rthealth/internal/config"
	"github.com/mrz1836/rthealth/internal/doctor"
	"github.com/mrz1836/rthealth/internal/tui"
)

// guideWordWrap is the column at which rendered guides wrap.
const guideWordWrap = 80

// guideDoc is the structured form of a guide for json and yaml output.
type guideDoc struct {
	Check    string `json:"check" yaml:"check"`
	Package  string `json:"package" yaml:"package"`
	Markdown string `json:"markdown" yaml:"markdown"`
}

// addHintsCommand adds the hints command to the root command.
func addHintsCommand(root *cobra.Command, a *app) {
	cmd := &cobra.Command{
		Use:   "hints <check>",
		Short: "Show the install guide for a check",
		Long: `Render the install and upgrade guide for one check as formatted markdown.
The guide uses the package configured for the check.

Examples:
  rthealth hints node
  rthealth hints python -o json`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: doctor.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runHints(cmd, args[0])
		},
	}
	root.AddCommand(cmd)
}

func (a *app) runHints(cmd *cobra.Command, name string) error {
	check, err := doctor.Lookup(name)
	if err != nil {
		return err
	}

	cfg := a.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	pkg := cfg.CheckSettings(name).Package
	md := doctor.Guide(check, pkg)

	format := a.output(cmd)
	if format != tui.FormatText {
		return tui.NewOutput(a.stdout, format).Encode(guideDoc{Check: name, Package: pkg, Markdown: md})
	}

	rendered, err := renderMarkdown(md)
	if err != nil {
		logger := GetLogger()
		logger.Debug().Err(err).Msg("markdown rendering failed, printing source")
		rendered = md
	}
	_, err = fmt.Fprint(a.stdout, rendered)
	return err
}

// renderMarkdown renders md for the terminal. Without color support the
// plain notty style is used.
func renderMarkdown(md string) (string, error) {
	style := glamour.WithAutoStyle()
	if !tui.HasColorSupport() {
		style = glamour.WithStandardStyle("notty")
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(guideWordWrap))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
