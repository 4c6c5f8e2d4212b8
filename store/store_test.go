package store

import (
	"context"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Results {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	inputs := []Result{
		{BattleTag: "battle-gen9randombattle-1", Format: "gen9randombattle", Opponent: "rival", Won: true, Turns: 21, FinishedAt: base},
		{BattleTag: "battle-gen9randombattle-2", Format: "gen9randombattle", Opponent: "rival", Turns: 9, FinishedAt: base.Add(time.Minute)},
		{BattleTag: "battle-gen9randombattle-3", Format: "gen9randombattle", Opponent: "other", Tie: true, Turns: 1000, FinishedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range inputs {
		saved, err := s.Record(ctx, r)
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if saved.ID == "" {
			t.Fatalf("record should assign an id")
		}
	}

	got, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	if got[0].BattleTag != "battle-gen9randombattle-3" || !got[0].Tie || got[0].Turns != 1000 {
		t.Fatalf("newest first: got %+v", got[0])
	}
	if !got[1].FinishedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("finished_at round trip: got %v", got[1].FinishedAt)
	}

	sum, err := s.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum != (Summary{Battles: 3, Wins: 1, Losses: 1, Ties: 1}) {
		t.Fatalf("summary: got %+v", sum)
	}
}

func TestSummaryEmpty(t *testing.T) {
	s := newTestStore(t)
	sum, err := s.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum != (Summary{}) {
		t.Fatalf("expected empty summary, got %+v", sum)
	}
}

func TestNewSQLiteRejectsEmptyPath(t *testing.T) {
	if _, err := NewSQLite("  "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
