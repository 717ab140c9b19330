package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"log/slog"

	"github.com/dvaldes/warouter/core/logger"
)

type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore constructs a Store backed by the sessions table.
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

type sessionRow struct {
	SenderID          string         `db:"sender_id"`
	HasSeenMenu       bool           `db:"has_seen_menu"`
	SelectedTopic     sql.NullString `db:"selected_topic"`
	LastInteractionAt int64          `db:"last_interaction_at"`
}

func (p *postgresStore) Get(ctx context.Context, senderID string) (*State, error) {
	var row sessionRow
	start := time.Now()
	err := p.db.GetContext(ctx, &row,
		`SELECT sender_id, has_seen_menu, selected_topic, last_interaction_at
		   FROM sessions WHERE sender_id = $1`, senderID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.SES.Error("session read failed",
			slog.String("event", "session.get"),
			slog.String("store", "postgres"),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return nil, fmt.Errorf("session get: %w", err)
	}

	st := &State{
		SenderID:          row.SenderID,
		HasSeenMenu:       row.HasSeenMenu,
		LastInteractionAt: row.LastInteractionAt,
	}
	if row.SelectedTopic.Valid {
		st.SelectedTopic = row.SelectedTopic.String
	}
	return st, nil
}

func (p *postgresStore) Put(ctx context.Context, st *State) error {
	topic := sql.NullString{String: st.SelectedTopic, Valid: st.SelectedTopic != ""}
	start := time.Now()
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO sessions (sender_id, has_seen_menu, selected_topic, last_interaction_at, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (sender_id) DO UPDATE SET
		   has_seen_menu = EXCLUDED.has_seen_menu,
		   selected_topic = EXCLUDED.selected_topic,
		   last_interaction_at = EXCLUDED.last_interaction_at,
		   updated_at = now()`,
		st.SenderID, st.HasSeenMenu, topic, st.LastInteractionAt)
	if err != nil {
		logger.SES.Error("session write failed",
			slog.String("event", "session.put"),
			slog.String("store", "postgres"),
			slog.String("err", err.Error()),
			slog.Duration("duration", logger.Took(start)),
		)
		return fmt.Errorf("session put: %w", err)
	}
	return nil
}

func (p *postgresStore) Reset(ctx context.Context, senderID string) error {
	_, err := p.db.ExecContext(ctx,
		`UPDATE sessions SET has_seen_menu = FALSE, selected_topic = NULL, updated_at = now()
		  WHERE sender_id = $1`,
		senderID)
	if err != nil {
		logger.SES.Error("session reset failed",
			slog.String("event", "session.reset"),
			slog.String("store", "postgres"),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("session reset: %w", err)
	}
	return nil
}
