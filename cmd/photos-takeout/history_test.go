package main

import (
	"testing"
)

// TestNewHistoryCmd tests the history command definition.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		limit := cmd.Flags().Lookup("limit")
		if limit == nil {
			t.Fatal("expected limit flag")
		}
		if limit.DefValue != "20" {
			t.Errorf("expected default limit 20, got %q", limit.DefValue)
		}
		if cmd.Flags().Lookup("id") == nil {
			t.Error("expected id flag")
		}
	})
}
