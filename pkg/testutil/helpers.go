// Package testutil provides common utility functions for testing.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteTradeFile writes lines, newline-terminated, to name inside a fresh
// temporary directory and returns the full path.
func WriteTradeFile(t testing.TB, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write trade file %s: %v", path, err)
	}
	return path
}

// WriteConfigFile writes a YAML configuration document to a temporary file and
// returns its path.
func WriteConfigFile(t testing.TB, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file %s: %v", path, err)
	}
	return path
}
