package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"log/slog"

	"github.com/dvaldes/warouter/core/logger"
	"github.com/dvaldes/warouter/core/valkey"
)

type valkeyStore struct {
	client *valkey.Client
	prefix string
}

// NewValkeyStore constructs a Store that keeps session records as JSON values
// under the client's key prefix. Records carry no server-side TTL; expiry is
// judged by the routing engine against the stored timestamp.
func NewValkeyStore(client *valkey.Client) Store {
	return &valkeyStore{
		client: client,
		prefix: client.Key("session") + ":",
	}
}

func (v *valkeyStore) key(senderID string) string {
	return v.prefix + senderID
}

func (v *valkeyStore) Get(ctx context.Context, senderID string) (*State, error) {
	inner := v.client.Inner()
	start := time.Now()
	data, err := inner.Do(ctx, inner.B().Get().Key(v.key(senderID)).Build()).AsBytes()
	if err != nil {
		if valkey.IsNil(err) {
			return nil, nil
		}
		logger.SES.Error("session read failed",
			slog.String("event", "session.get"),
			slog.String("store", "valkey"),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return nil, fmt.Errorf("session get: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &st, nil
}

func (v *valkeyStore) Put(ctx context.Context, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}

	inner := v.client.Inner()
	start := time.Now()
	cmd := inner.B().Set().Key(v.key(st.SenderID)).Value(string(data)).Build()
	if err := inner.Do(ctx, cmd).Error(); err != nil {
		logger.SES.Error("session write failed",
			slog.String("event", "session.put"),
			slog.String("store", "valkey"),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (v *valkeyStore) Reset(ctx context.Context, senderID string) error {
	st, err := v.Get(ctx, senderID)
	if err != nil {
		return err
	}
	if st == nil {
		return nil
	}
	st.HasSeenMenu = false
	st.SelectedTopic = ""
	return v.Put(ctx, st)
}
