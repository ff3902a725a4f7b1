package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"chunklapse/internal/config"
	"chunklapse/internal/history"
	"chunklapse/internal/scenes"
	"chunklapse/internal/testsupport"
)

// writeRendererStub installs a fake java binary that drops one snapshot
// into the scene's snapshot directory and exits with the given code.
func writeRendererStub(t *testing.T, cfg *config.Config, scene string, exitCode string) string {
	t.Helper()

	snapshotDir := cfg.SnapshotDir(scene)
	script := "#!/bin/sh\n" +
		"mkdir -p \"" + snapshotDir + "\"\n" +
		"printf png > \"" + filepath.Join(snapshotDir, scene+"-1.png") + "\"\n" +
		"exit " + exitCode + "\n"
	path := filepath.Join(testsupport.BaseDir(cfg), "java-stub")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write renderer stub: %v", err)
	}
	return path
}

func TestRenderCommandRendersAndTagsSnapshot(t *testing.T) {
	env := setupCLITestEnv(t)
	writeSceneFixture(t, env.cfg, "overlook")
	writeWorldFixture(t, env.cfg, "base-250101")
	env.cfg.Render.JavaBinary = writeRendererStub(t, env.cfg, "overlook", "0")
	writeTestConfig(t, env.baseDir, env.cfg)

	out, _, err := runCLI(t, []string{"render", "base-250101", "--scene", "overlook"}, env.configPath)
	if err != nil {
		t.Fatalf("render: %v\noutput:\n%s", err, out)
	}
	requireContains(t, out, "[1/1] rendering base-250101")
	requireContains(t, out, "Rendered 1 of 1 worlds")

	renamed := filepath.Join(env.cfg.SnapshotDir("overlook"), "overlook-1-base-250101.png")
	if _, err := os.Stat(renamed); err != nil {
		t.Fatalf("expected renamed snapshot: %v", err)
	}

	summary, err := scenes.ReadSummary(scenes.Scene{Name: "overlook", Dir: env.cfg.SceneDir("overlook")})
	if err != nil {
		t.Fatalf("read scene: %v", err)
	}
	wantPath := scenes.NormalizePath(filepath.Join(env.cfg.Paths.WorldsDir, "base-250101"))
	if summary.WorldPath != wantPath {
		t.Fatalf("scene world path = %q, want %q", summary.WorldPath, wantPath)
	}

	store := testsupport.MustOpenStore(t, env.cfg)
	records, err := store.RecentRenders(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRenders: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d history records, want 1", len(records))
	}
	if records[0].Status != history.StatusSucceeded || records[0].World != "base-250101" {
		t.Fatalf("unexpected history record: %+v", records[0])
	}
	if _, err := uuid.Parse(records[0].RunID); err != nil {
		t.Fatalf("history run ID %q is not a queue run ID: %v", records[0].RunID, err)
	}
}

func TestRenderCommandReportsFailedBatch(t *testing.T) {
	env := setupCLITestEnv(t)
	writeSceneFixture(t, env.cfg, "overlook")
	writeWorldFixture(t, env.cfg, "base-250101")
	env.cfg.Render.JavaBinary = writeRendererStub(t, env.cfg, "overlook", "3")
	writeTestConfig(t, env.baseDir, env.cfg)

	out, _, err := runCLI(t, []string{"render", "base-250101", "--scene", "overlook"}, env.configPath)
	if err == nil {
		t.Fatalf("expected error when every render fails\noutput:\n%s", out)
	}
	requireContains(t, out, "failed: base-250101")
	requireContains(t, out, "Rendered 0 of 1 worlds")

	store := testsupport.MustOpenStore(t, env.cfg)
	records, err := store.RecentRenders(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRenders: %v", err)
	}
	if len(records) != 1 || records[0].Status != history.StatusFailed {
		t.Fatalf("unexpected history records: %+v", records)
	}
}

func TestRenderCommandRequiresWorldSelection(t *testing.T) {
	env := setupCLITestEnv(t)
	writeSceneFixture(t, env.cfg, "overlook")

	if _, _, err := runCLI(t, []string{"render", "--scene", "overlook"}, env.configPath); err == nil {
		t.Fatal("expected error without worlds or --all")
	}
}

func TestRenderCommandRejectsUnknownScene(t *testing.T) {
	env := setupCLITestEnv(t)
	writeWorldFixture(t, env.cfg, "base-250101")

	if _, _, err := runCLI(t, []string{"render", "base-250101", "--scene", "nowhere"}, env.configPath); err == nil {
		t.Fatal("expected error for missing scene")
	}
}
