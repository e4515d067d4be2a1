package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestGetVersion tests version resolution priority.
func TestGetVersion(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		orig := version
		version = "v1.2.3"
		t.Cleanup(func() { version = orig })

		if got := getVersion(); got != "v1.2.3" {
			t.Errorf("expected v1.2.3, got %q", got)
		}
	})

	t.Run("falls back without ldflags", func(t *testing.T) {
		orig := version
		version = ""
		t.Cleanup(func() { version = orig })

		if got := getVersion(); got == "" {
			t.Error("expected non-empty fallback version")
		}
	})
}

// TestGetCommit tests commit resolution.
func TestGetCommit(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		orig := commit
		commit = "abc1234"
		t.Cleanup(func() { commit = orig })

		if got := getCommit(); got != "abc1234" {
			t.Errorf("expected abc1234, got %q", got)
		}
	})
}

// TestGetDate tests build date resolution.
func TestGetDate(t *testing.T) {
	t.Run("ldflags value wins", func(t *testing.T) {
		orig := date
		date = "2026-08-01"
		t.Cleanup(func() { date = orig })

		if got := getDate(); got != "2026-08-01" {
			t.Errorf("expected 2026-08-01, got %q", got)
		}
	})
}

// TestVersionCmd tests the version subcommand output.
func TestVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "photos-takeout ") {
		t.Errorf("expected version line, got %q", out)
	}
	if !strings.Contains(out, "commit ") || !strings.Contains(out, "built ") {
		t.Errorf("expected commit and build date in output, got %q", out)
	}
}

// TestBuildSetting tests the embedded build setting lookup.
func TestBuildSetting(t *testing.T) {
	// Test binaries carry build info but no guaranteed VCS settings, so a
	// bogus key must come back empty rather than panic.
	if got := buildSetting("vcs.does-not-exist"); got != "" {
		t.Errorf("expected empty value for unknown key, got %q", got)
	}
}
