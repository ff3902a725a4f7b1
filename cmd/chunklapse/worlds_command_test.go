package main

import (
	"path/filepath"
	"strings"
	"testing"

	"chunklapse/internal/testsupport"
)

func TestWorldsCommandListsChronologically(t *testing.T) {
	env := setupCLITestEnv(t)
	writeWorldFixture(t, env.cfg, "base-250103")
	writeWorldFixture(t, env.cfg, "base-250101")
	writeWorldFixture(t, env.cfg, "notes")

	out, _, err := runCLI(t, []string{"worlds"}, env.configPath)
	if err != nil {
		t.Fatalf("worlds: %v", err)
	}

	first := strings.Index(out, "base-250101")
	second := strings.Index(out, "base-250103")
	third := strings.Index(out, "notes")
	if first < 0 || second < 0 || third < 0 {
		t.Fatalf("missing worlds in output:\n%s", out)
	}
	if !(first < second && second < third) {
		t.Fatalf("worlds out of order:\n%s", out)
	}
	requireContains(t, out, "2025-01-01")
}

func TestWorldsCommandScansPositionalDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	writeWorldFixture(t, env.cfg, "configured")

	other := t.TempDir()
	testsupport.WriteFile(t, filepath.Join(other, "alt-250107", "level.dat"), []byte{})

	out, _, err := runCLI(t, []string{"worlds", other}, env.configPath)
	if err != nil {
		t.Fatalf("worlds: %v", err)
	}
	requireContains(t, out, "alt-250107")
	if strings.Contains(out, "configured") {
		t.Fatalf("configured worlds dir scanned instead of argument:\n%s", out)
	}
}

func TestWorldsCommandEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"worlds"}, env.configPath)
	if err != nil {
		t.Fatalf("worlds: %v", err)
	}
	requireContains(t, out, "No worlds found")
}
