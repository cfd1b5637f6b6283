package version

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Build information; overridden with -ldflags "-X scadfmt/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var partColors = []*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// String renders the version line printed by `scadfmt version`.
// With colorize the major/minor/patch numbers are highlighted.
func String(colorize bool) string {
	v := Version
	if colorize {
		v = paint(v)
	}
	var sb strings.Builder
	sb.WriteString("scadfmt ")
	sb.WriteString(v)
	if GitCommit != "" {
		commit := GitCommit
		if len(commit) > 12 {
			commit = commit[:12]
		}
		fmt.Fprintf(&sb, " (%s)", commit)
	}
	if BuildDate != "" {
		fmt.Fprintf(&sb, " built %s", BuildDate)
	}
	return sb.String()
}

// paint colors the numeric parts of "X.Y.Z[-suffix]".
func paint(v string) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.SplitN(core, ".", len(partColors))
	for i, p := range parts {
		c := partColors[i]
		c.EnableColor()
		parts[i] = c.Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
