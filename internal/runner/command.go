package runner

import (
	"strings"

	rterrors "github.com/mrz1836/rthealth/internal/errors"
)

// Command is an immutable description of one external invocation: either an
// argument vector executed directly or a line handed to the platform shell.
type Command struct {
	argv  []string
	shell string
}

// Argv builds a command executed without a shell. args[0] is the program.
func Argv(args ...string) Command {
	return Command{argv: append([]string(nil), args...)}
}

// ShellLine builds a command run through "sh -c" ("cmd /C" on Windows).
func ShellLine(line string) Command {
	return Command{shell: line}
}

// IsShell reports whether the command is a shell line.
func (c Command) IsShell() bool {
	return c.shell != ""
}

// Args returns a copy of the argument vector, or nil for shell lines.
func (c Command) Args() []string {
	if c.IsShell() {
		return nil
	}
	return append([]string(nil), c.argv...)
}

// Line returns the shell line, or "" for argv commands.
func (c Command) Line() string {
	return c.shell
}

// Program returns the executable an argv command starts, or "" for shell lines.
func (c Command) Program() string {
	if c.IsShell() || len(c.argv) == 0 {
		return ""
	}
	return c.argv[0]
}

// WithProgram returns a copy whose executable is replaced by program.
// Shell lines are returned unchanged.
func (c Command) WithProgram(program string) Command {
	if c.IsShell() || len(c.argv) == 0 || program == "" {
		return c
	}
	args := c.Args()
	args[0] = program
	return Command{argv: args}
}

// Validate returns ErrEmptyCommand when there is nothing to execute.
func (c Command) Validate() error {
	if c.IsShell() {
		if strings.TrimSpace(c.shell) == "" {
			return rterrors.ErrEmptyCommand
		}
		return nil
	}
	if len(c.argv) == 0 || c.argv[0] == "" {
		return rterrors.ErrEmptyCommand
	}
	return nil
}

// Format renders cmd for humans: the raw shell line, or the argv joined with
// POSIX-style quoting where an argument needs it. The result is for display
// and logging only and is never executed.
func Format(cmd Command) string {
	if cmd.IsShell() {
		return cmd.shell
	}
	parts := make([]string, len(cmd.argv))
	for i, a := range cmd.argv {
		parts[i] = quote(a)
	}
	return strings.Join(parts, " ")
}

// String implements fmt.Stringer using Format.
func (c Command) String() string {
	return Format(c)
}

const shellSpecial = " \t\n\"'\\$`!*?[]{}()<>|&;#~^"

func quote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, shellSpecial) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
