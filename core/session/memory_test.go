package session

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreGetAbsent(t *testing.T) {
	store := NewMemoryStore()
	st, err := store.Get(context.Background(), "51900000000")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st != nil {
		t.Fatalf("expected nil state for absent sender, got %+v", st)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	in := &State{
		SenderID:          "51987654321",
		HasSeenMenu:       true,
		SelectedTopic:     "automotriz",
		LastInteractionAt: 1700000000000,
	}
	if err := store.Put(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	out, err := store.Get(ctx, in.SenderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out == nil {
		t.Fatal("expected state after put")
	}
	if out.SelectedTopic != "automotriz" || !out.HasSeenMenu || out.LastInteractionAt != 1700000000000 {
		t.Fatalf("unexpected state: %+v", out)
	}

	// mutating the returned copy must not affect the stored record
	out.SelectedTopic = "glp"
	again, err := store.Get(ctx, in.SenderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if again.SelectedTopic != "automotriz" {
		t.Fatalf("stored record mutated through returned copy: %+v", again)
	}
}

func TestMemoryStoreReset(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.Reset(ctx, "51900000001"); err != nil {
		t.Fatalf("reset on absent sender: %v", err)
	}

	in := &State{SenderID: "51900000001", HasSeenMenu: true, SelectedTopic: "servicios", LastInteractionAt: 100}
	if err := store.Put(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := store.Reset(ctx, in.SenderID); err != nil {
		t.Fatalf("reset: %v", err)
	}
	out, err := store.Get(ctx, in.SenderID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if out.SelectedTopic != "" || out.HasSeenMenu {
		t.Fatalf("reset incomplete: %+v", out)
	}
	if out.LastInteractionAt != 100 {
		t.Fatalf("reset disturbed timestamp: %+v", out)
	}
}

func TestStateExpired(t *testing.T) {
	ttl := 5 * time.Minute
	base := int64(1700000000000)

	st := &State{LastInteractionAt: base}
	if st.Expired(base+ttl.Milliseconds(), ttl) {
		t.Fatal("state at exactly ttl should not be expired")
	}
	if !st.Expired(base+ttl.Milliseconds()+1, ttl) {
		t.Fatal("state past ttl should be expired")
	}
	var nilState *State
	if !nilState.Expired(base, ttl) {
		t.Fatal("nil state should report expired")
	}
}
