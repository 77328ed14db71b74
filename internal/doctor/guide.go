package doctor

import (
	"fmt"
	"strings"
)

// Guide renders the install guide for a check as markdown.
// pkg overrides the check's default package when non-empty.
func Guide(check Check, pkg string) string {
	if pkg == "" {
		pkg = check.DefaultPackage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", check.Section)
	fmt.Fprintf(&b, "The `%s` check needs %s %s or newer and the %s package `%s`.\n\n",
		check.Name, check.Runtime, check.MinVersion, check.Manager, pkg)

	if len(check.RuntimeHints) > 0 {
		fmt.Fprintf(&b, "## Install %s\n\n", check.Runtime)
		for _, hint := range check.RuntimeHints {
			fmt.Fprintf(&b, "- %s\n", hint)
		}
		b.WriteString("\n")
	}

	if check.InstallCommands != nil {
		fmt.Fprintf(&b, "## Install `%s`\n\nUse any one of:\n\n```sh\n", pkg)
		for _, line := range check.InstallCommands(pkg) {
			b.WriteString(line + "\n")
		}
		b.WriteString("```\n\n")
	}

	if check.UpgradeCommand != nil {
		fmt.Fprintf(&b, "## Upgrade\n\n```sh\n%s\n```\n\n", check.UpgradeCommand(pkg))
	}

	fmt.Fprintf(&b, "## Configuration\n\n```yaml\nchecks:\n  %s:\n", check.Name)
	b.WriteString("    disabled: true          # skip this check\n")
	fmt.Fprintf(&b, "    host_prog: /path/to/%s  # use this interpreter; overrides disabled\n", check.program(CheckContext{}))
	fmt.Fprintf(&b, "    package: %s\n```\n\n", pkg)
	fmt.Fprintf(&b, "Environment: `RTHEALTH_CHECKS_%s_DISABLED=true`\n", strings.ToUpper(check.Name))
	return b.String()
}
