package version

import (
	"strings"
	"testing"
)

func TestVersionDefaultValue(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
	// The dotted shape survives regardless of whether color codes are on.
	if strings.Count(Version, ".") != 2 {
		t.Errorf("Version %q is not major.minor.patch", Version)
	}
}

func TestVersionCanBeOverridden(t *testing.T) {
	origCommit := GitCommit
	origDate := BuildDate
	defer func() {
		GitCommit = origCommit
		BuildDate = origDate
	}()

	// Simulates build-time ldflags.
	GitCommit = "abc123def456"
	BuildDate = "2026-01-15T10:30:00Z"

	if GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q", GitCommit)
	}
	if BuildDate != "2026-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q", BuildDate)
	}
}
