package main

import (
	"testing"

	"chunklapse/internal/history"
	"chunklapse/internal/testsupport"
)

func TestHistoryCommandShowsRenders(t *testing.T) {
	env := setupCLITestEnv(t)
	store := testsupport.MustOpenStore(t, env.cfg)
	testsupport.RecordRender(t, store, "run-1", "overlook", "base-250101", history.StatusSucceeded)
	testsupport.RecordRender(t, store, "run-1", "overlook", "base-250102", history.StatusFailed)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "base-250101")
	requireContains(t, out, "base-250102")
	requireContains(t, out, "failed")
}

func TestHistoryCommandEmptyStates(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No renders recorded yet")

	out, _, err = runCLI(t, []string{"history", "--videos"}, env.configPath)
	if err != nil {
		t.Fatalf("history --videos: %v", err)
	}
	requireContains(t, out, "No video runs recorded yet")
}
