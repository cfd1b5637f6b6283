package version

import (
	"strings"
	"testing"
)

func TestStringPlain(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = "1.2.3"
	GitCommit = "abc123def456789"
	BuildDate = "2026-01-15T10:30:00Z"

	if got, want := String(false), "scadfmt 1.2.3 (abc123def456) built 2026-01-15T10:30:00Z"; got != want {
		t.Fatalf("String(false) = %q, want %q", got, want)
	}
}

func TestStringOptionalFields(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version, GitCommit, BuildDate = "0.1.0-dev", "", ""
	if got := String(false); got != "scadfmt 0.1.0-dev" {
		t.Fatalf("String(false) = %q", got)
	}
}

func TestStringColored(t *testing.T) {
	origVersion := Version
	t.Cleanup(func() { Version = origVersion })

	Version = "2.0.1-rc1"
	got := String(true)
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected ANSI escapes in %q", got)
	}
	if !strings.HasSuffix(got, "-rc1") {
		t.Fatalf("suffix lost: %q", got)
	}
}
