package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-memory/internal/games/memory"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func win(player string, seconds, grid int) memory.ScoreRecord {
	return memory.ScoreRecord{
		SessionID:  fmt.Sprintf("%s-%d-%d", player, seconds, grid),
		Player:     player,
		Pairs:      grid * grid / 2,
		Seconds:    seconds,
		GridSize:   grid,
		FinishedAt: time.Date(2026, 3, 1, 12, 0, seconds, 0, time.UTC),
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreAppendAndReadAll(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records := []memory.ScoreRecord{win("alice", 42, 4), win("bob", 17, 4), win("alice", 30, 4)}
	for _, rec := range records {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("Append() failed: %v", err)
		}
	}

	lines, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}

	want := []string{
		"alice: 8 pairs, Time Taken: 42 seconds",
		"bob: 8 pairs, Time Taken: 17 seconds",
		"alice: 8 pairs, Time Taken: 30 seconds",
	}
	if len(lines) != len(want) {
		t.Fatalf("ReadAll() returned %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestStoreReadAllEmpty(t *testing.T) {
	store := openTestStore(t)

	lines, err := store.ReadAll(context.Background())
	if err != nil {
		t.Fatalf("ReadAll() failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected no lines, got %v", lines)
	}
}

func TestStoreDuplicateSessionRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := win("alice", 42, 4)
	if err := store.Append(ctx, rec); err != nil {
		t.Fatalf("Append() failed: %v", err)
	}
	err := store.Append(ctx, rec)
	if !errors.Is(err, memory.ErrStoreUnavailable) {
		t.Errorf("second Append() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestStoreTopRecords(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, rec := range []memory.ScoreRecord{
		win("alice", 50, 4),
		win("bob", 20, 4),
		win("carol", 35, 4),
		win("dave", 10, 2),
		win("erin", 90, 6),
	} {
		store.Append(ctx, rec)
	}

	tests := []struct {
		name    string
		grid    int
		limit   int
		players []string
	}{
		{"all boards", 0, 10, []string{"dave", "bob", "carol", "alice", "erin"}},
		{"4x4 only", 4, 10, []string{"bob", "carol", "alice"}},
		{"limit", 4, 2, []string{"bob", "carol"}},
		{"empty board size", 8, 10, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			entries, err := store.TopRecords(ctx, tc.grid, tc.limit)
			if err != nil {
				t.Fatalf("TopRecords() failed: %v", err)
			}
			if len(entries) != len(tc.players) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tc.players))
			}
			for i, p := range tc.players {
				if entries[i].Player != p {
					t.Errorf("entry %d player = %q, want %q", i, entries[i].Player, p)
				}
			}
		})
	}
}

func TestStoreRoundTripsRecordFields(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := win("alice", 42, 6)
	if _, err := store.SaveRecord(ctx, rec); err != nil {
		t.Fatalf("SaveRecord() failed: %v", err)
	}

	entries, err := store.PlayerRecords(ctx, "alice", 0)
	if err != nil {
		t.Fatalf("PlayerRecords() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	got := entries[0].Record()
	if got.SessionID != rec.SessionID || got.Pairs != 18 || got.GridSize != 6 {
		t.Errorf("record = %+v", got)
	}
	if !got.FinishedAt.Equal(rec.FinishedAt) {
		t.Errorf("FinishedAt = %s, want %s", got.FinishedAt, rec.FinishedAt)
	}
}

func TestStorePlayerRecordsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Append(ctx, win("alice", 50, 4))
	store.Append(ctx, win("bob", 20, 4))
	store.Append(ctx, win("alice", 30, 4))

	entries, err := store.PlayerRecords(ctx, "alice", 10)
	if err != nil {
		t.Fatalf("PlayerRecords() failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Seconds != 30 || entries[1].Seconds != 50 {
		t.Errorf("entries not newest first: %+v", entries)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx, "nobody")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Wins != 0 || stats.BestSeconds != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.Append(ctx, win("alice", 40, 4))
	store.Append(ctx, win("alice", 20, 4))
	store.Append(ctx, win("bob", 5, 4))

	stats, err = store.Stats(ctx, "alice")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Wins != 2 || stats.BestSeconds != 20 || stats.AvgSeconds != 30 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	store.Append(ctx, win("alice", 40, 4))
	if err := store.ClearScores(ctx); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	lines, _ := store.ReadAll(ctx)
	if len(lines) != 0 {
		t.Errorf("Expected 0 lines after clear, got %d", len(lines))
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestStoreEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Error("Open(\"\") should fail")
	}
}
