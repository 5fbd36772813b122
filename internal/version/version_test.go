package version

import (
	"testing"

	"github.com/fatih/color"
)

func withVersion(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })
}

func TestColoredWithoutColor(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []struct {
		in   string
		want string
	}{
		{"0.3.0-dev", "0.3.0-dev"},
		{"1.2.3", "1.2.3"},
		{"1.0.0+build.5", "1.0.0+build.5"},
		{"nightly", "nightly"},
	}
	for _, tt := range tests {
		withVersion(t, tt.in, "", "")
		if got := Colored(); got != tt.want {
			t.Errorf("Colored(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInfo(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	tests := []struct {
		version, commit, date string
		want                  string
	}{
		{"1.2.3", "", "", "codeabs 1.2.3"},
		{"1.2.3", "abc123def4567890", "", "codeabs 1.2.3 (abc123def456)"},
		{"1.2.3", "abc", "2026-01-15", "codeabs 1.2.3 (abc) built 2026-01-15"},
	}
	for _, tt := range tests {
		withVersion(t, tt.version, tt.commit, tt.date)
		if got := Info(); got != tt.want {
			t.Errorf("Info() = %q, want %q", got, tt.want)
		}
	}
}
