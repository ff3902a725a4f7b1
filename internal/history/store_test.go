package history_test

import (
	"context"
	"testing"

	"chunklapse/internal/history"
	"chunklapse/internal/testsupport"
)

func TestBeginAndFinishRender(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	id, err := store.BeginRender(ctx, "run-1", "overlook", "base-250101")
	if err != nil {
		t.Fatalf("BeginRender: %v", err)
	}
	if err := store.FinishRender(ctx, id, history.StatusSucceeded, "", "/snaps/overlook-1-base-250101.png"); err != nil {
		t.Fatalf("FinishRender: %v", err)
	}

	records, err := store.RecentRenders(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRenders: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.RunID != "run-1" || record.World != "base-250101" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.Status != history.StatusSucceeded {
		t.Errorf("status = %s, want succeeded", record.Status)
	}
	if record.SnapshotPath != "/snaps/overlook-1-base-250101.png" {
		t.Errorf("snapshot path = %s", record.SnapshotPath)
	}
	if record.StartedAt.IsZero() || record.FinishedAt.IsZero() {
		t.Error("timestamps should be set")
	}
}

func TestRecentRendersNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	testsupport.RecordRender(t, store, "run-1", "overlook", "base-250101", history.StatusSucceeded)
	testsupport.RecordRender(t, store, "run-1", "overlook", "base-250102", history.StatusFailed)

	records, err := store.RecentRenders(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRenders: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].World != "base-250102" || records[1].World != "base-250101" {
		t.Fatalf("unexpected order: %s, %s", records[0].World, records[1].World)
	}
}

func TestRecordVideo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	err := store.RecordVideo(ctx, history.VideoRecord{
		Scene:      "overlook",
		OutputPath: "/videos/overlook.mp4",
		Codec:      "h264",
		FPS:        20,
		Frames:     12,
		Skipped:    1,
		Status:     history.StatusSucceeded,
	})
	if err != nil {
		t.Fatalf("RecordVideo: %v", err)
	}

	records, err := store.RecentVideos(ctx, 10)
	if err != nil {
		t.Fatalf("RecentVideos: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record.Frames != 12 || record.Skipped != 1 || record.Codec != "h264" {
		t.Fatalf("unexpected record: %+v", record)
	}
	if record.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestOpenIsIdempotentAcrossReopens(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	testsupport.RecordRender(t, store, "run-1", "overlook", "base-250101", history.StatusSucceeded)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	records, err := reopened.RecentRenders(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRenders after reopen: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after reopen, want 1", len(records))
	}
}
