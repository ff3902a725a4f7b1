package worlds_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"chunklapse/internal/worlds"
)

func makeWorld(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(path, "level.dat"), []byte{0}, 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		name string
		want time.Time
		ok   bool
	}{
		{"base-250101", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"hill-250205", time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC), true},
		{"old-991231", time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC), true},
		// Range checks only: Feb 31 is accepted as a literal date.
		{"weird-250231", time.Date(2025, 2, 31, 0, 0, 0, 0, time.UTC), true},
		{"badmonth-251301", time.Time{}, false},
		{"badday-250132", time.Time{}, false},
		{"zeroday-250100", time.Time{}, false},
		{"extra", time.Time{}, false},
		{"short-2501", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := worlds.ParseDate(tc.name)
		if ok != tc.ok {
			t.Fatalf("ParseDate(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestScanOrdersDatedFirstThenUndated(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"extra", "base-250103", "base-250101", "zebra"} {
		makeWorld(t, dir, name)
	}
	// A directory without the marker is skipped.
	if err := os.MkdirAll(filepath.Join(dir, "notaworld"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Plain files are ignored.
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), nil, 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	scanned, err := worlds.Scan(dir)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	got := make([]string, 0, len(scanned))
	for _, w := range scanned {
		got = append(got, w.Name)
	}
	want := []string{"base-250101", "base-250103", "extra", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("unexpected worlds: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
	if !scanned[0].Dated() || scanned[2].Dated() {
		t.Fatal("expected dated flags to track the date token")
	}
}

func TestScanMissingDirectoryReturnsError(t *testing.T) {
	if _, err := worlds.Scan(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestSelectPreservesScanOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"base-250103", "base-250101", "extra"} {
		makeWorld(t, dir, name)
	}
	scanned, err := worlds.Scan(dir)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}

	picked, err := worlds.Select(scanned, []string{"extra", "base-250101"})
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if len(picked) != 2 || picked[0].Name != "base-250101" || picked[1].Name != "extra" {
		t.Fatalf("unexpected selection: %+v", picked)
	}

	if _, err := worlds.Select(scanned, []string{"missing"}); err == nil {
		t.Fatal("expected error for unknown world name")
	}
}

func TestDisplayTitle(t *testing.T) {
	cases := map[string]string{
		"hill-250205":    "Hill",
		"my_base-250101": "My Base",
		"spawn.area":     "Spawn Area",
		"plain":          "Plain",
	}
	for in, want := range cases {
		if got := worlds.DisplayTitle(in); got != want {
			t.Fatalf("DisplayTitle(%q) = %q, want %q", in, got, want)
		}
	}
}
