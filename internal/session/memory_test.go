package session

import (
	"context"
	"testing"
	"time"

	"housematch/internal/model"
)

func testSession(id string) *model.ConversationSession {
	now := time.Now().UTC()
	return &model.ConversationSession{
		ID:           id,
		UserID:       42,
		State:        model.StateAwaitingAnswer,
		History:      []model.HistoryEntry{{Dimension: model.DimensionPrice, Question: "q", AskedAt: now}},
		CreatedAt:    now,
		LastActivity: now,
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testSession("a")); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.ID != "a" || got.UserID != 42 {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestMemoryStoreGetAbsent(t *testing.T) {
	store := NewMemoryStore()

	got, err := store.Get(context.Background(), "missing")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("expected nil for absent session, got %+v", got)
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sess := testSession("a")
	if err := store.Put(ctx, sess); err != nil {
		t.Fatal(err)
	}

	// Mutating the caller's copy must not reach the stored record.
	sess.State = model.StateAborted
	sess.History[0].Answer = "tampered"

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.State != model.StateAwaitingAnswer {
		t.Errorf("stored state mutated through caller copy: %s", got.State)
	}
	if got.History[0].Answer != "" {
		t.Errorf("stored history mutated through caller copy: %q", got.History[0].Answer)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Put(ctx, testSession("a")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatal(err)
	}

	got, err := store.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("session still present after delete")
	}
}

func TestMemoryStoreList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := store.Put(ctx, testSession(id)); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v", ids)
	}
}

func TestKeyedLock(t *testing.T) {
	l := NewKeyedLock()

	if !l.TryAcquire("a") {
		t.Fatal("first acquire should succeed")
	}
	if l.TryAcquire("a") {
		t.Fatal("second acquire on held key should fail")
	}
	if !l.TryAcquire("b") {
		t.Fatal("acquire on a different key should succeed")
	}

	l.Release("a")
	if !l.TryAcquire("a") {
		t.Fatal("acquire after release should succeed")
	}
}
