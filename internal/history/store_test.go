package history_test

import (
	"context"
	"path/filepath"
	"testing"

	"midrender/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func record(batch, job string, ts int64) history.Record {
	return history.Record{
		BatchID:        batch,
		JobName:        job,
		TemplateID:     "midrender-cli-1",
		DescriptorPath: "/sub/" + job + ".json",
		SubmittedAtMS:  ts,
		FrameStart:     1,
		FrameEnd:       100,
		ChunkSize:      10,
		Priority:       50,
	}
}

func TestRecordAndRecentNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for i, job := range []string{"a", "b", "c"} {
		if err := store.Record(ctx, record("batch-1", job, int64(1000+i))); err != nil {
			t.Fatalf("Record %s: %v", job, err)
		}
	}

	recent, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("recent: got %d want 2", len(recent))
	}
	if recent[0].JobName != "c" || recent[1].JobName != "b" {
		t.Fatalf("ordering: got %q then %q", recent[0].JobName, recent[1].JobName)
	}
	if recent[0].CreatedAt.IsZero() {
		t.Fatal("created_at not round-tripped")
	}
}

func TestBatchReturnsSubmissionOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.Record(ctx, record("batch-x", "second", 2002)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, record("batch-x", "first", 2001)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := store.Record(ctx, record("other", "noise", 2003)); err != nil {
		t.Fatalf("Record: %v", err)
	}

	batch, err := store.Batch(ctx, "batch-x")
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	if len(batch) != 2 {
		t.Fatalf("batch: got %d want 2", len(batch))
	}
	if batch[0].JobName != "first" || batch[1].JobName != "second" {
		t.Fatalf("batch ordering: got %q then %q", batch[0].JobName, batch[1].JobName)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := first.Record(context.Background(), record("b", "job", 1)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	recent, err := second.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent after reopen: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected existing record to survive reopen, got %d", len(recent))
	}
}
