package session

import (
	"context"
	"time"
)

// State is the per-sender conversation record. LastInteractionAt is a unix
// epoch in milliseconds; the routing engine judges expiry against the stored
// value, stores never evict on their own.
type State struct {
	SenderID          string `json:"sender_id" db:"sender_id"`
	HasSeenMenu       bool   `json:"has_seen_menu" db:"has_seen_menu"`
	SelectedTopic     string `json:"selected_topic" db:"selected_topic"`
	LastInteractionAt int64  `json:"last_interaction_at" db:"last_interaction_at"`
}

// Expired reports whether the record's last interaction is older than ttl
// relative to now (both in milliseconds).
func (s *State) Expired(nowMs int64, ttl time.Duration) bool {
	if s == nil {
		return true
	}
	return nowMs-s.LastInteractionAt > ttl.Milliseconds()
}

// Store persists per-sender session state.
//
// Get returns (nil, nil) when no record exists for the sender. Any other
// error means the backing store is unavailable and must be propagated;
// callers never fabricate fresh state to mask a store failure.
//
// Reset clears the menu and topic fields but keeps the interaction
// timestamp, so the sender's next message is handled as a fresh contact.
type Store interface {
	Get(ctx context.Context, senderID string) (*State, error)
	Put(ctx context.Context, st *State) error
	Reset(ctx context.Context, senderID string) error
}

// NowMs returns the current unix epoch in milliseconds.
func NowMs() int64 {
	return time.Now().UnixMilli()
}
