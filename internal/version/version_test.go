package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func withNoColor(t *testing.T) {
	t.Helper()
	orig := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = orig })
}

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestColoredKeepsText(t *testing.T) {
	withNoColor(t)
	for _, v := range []string{"0.1.0", "0.1.0-dev", "1.0.0-beta.1", "1.2.3-rc.1+build.123", "snapshot"} {
		override(t, v, "", "")
		if got := Colored(); got != v {
			t.Errorf("Colored() = %q, want %q", got, v)
		}
	}
}

func TestInfo(t *testing.T) {
	withNoColor(t)
	override(t, "1.2.3", "abc123def456", "2024-01-15T10:30:00Z")
	info := Info()
	for _, want := range []string{"eojs 1.2.3\n", "commit: abc123def456\n", "built:  2024-01-15T10:30:00Z\n", "go:     go"} {
		if !strings.Contains(info, want) {
			t.Errorf("Info() missing %q:\n%s", want, info)
		}
	}
}

func TestInfoOmitsEmptyFields(t *testing.T) {
	withNoColor(t)
	override(t, "1.2.3", "", "")
	info := Info()
	if strings.Contains(info, "commit:") || strings.Contains(info, "built:") {
		t.Fatalf("expected optional fields omitted:\n%s", info)
	}
}
