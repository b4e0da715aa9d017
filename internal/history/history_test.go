package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"cardbinder/pkg/database"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	db := database.MustOpen(database.Config{Path: filepath.Join(t.TempDir(), "history.db")})
	t.Cleanup(func() { db.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db)
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	runID, err := s.StartRun(ctx, KindRefresh)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if runID == "" {
		t.Fatal("empty run id")
	}

	if err := s.RecordCollection(ctx, runID, "swsh1", 42, nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordCollection(ctx, runID, "cel25", 0, errors.New("no cards found")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := s.RecordIssues(ctx, runID, IssueUnmappedSet, []string{"xyz", "abc"}); err != nil {
		t.Fatalf("issues: %v", err)
	}
	if err := s.RecordIssues(ctx, runID, IssueUnmatchedCard, nil); err != nil {
		t.Fatalf("empty issues must be a no-op: %v", err)
	}
	if err := s.FinishRun(ctx, runID); err != nil {
		t.Fatalf("finish: %v", err)
	}

	summary, err := s.RunSummary(ctx, runID)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary[0].Collection != "cel25" || summary[0].Error != "no cards found" {
		t.Fatalf("summary[0] = %+v", summary[0])
	}
	if summary[1].Collection != "swsh1" || summary[1].Updated != 42 {
		t.Fatalf("summary[1] = %+v", summary[1])
	}
}

func TestRecordCollectionUpsert(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	runID, err := s.StartRun(ctx, KindEnrich)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RecordCollection(ctx, runID, "swsh1", 1, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordCollection(ctx, runID, "swsh1", 7, nil); err != nil {
		t.Fatal(err)
	}
	summary, err := s.RunSummary(ctx, runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 1 || summary[0].Updated != 7 {
		t.Fatalf("summary = %+v", summary)
	}
}
