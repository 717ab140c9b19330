package router

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/dvaldes/warouter/core/logger"
	"github.com/dvaldes/warouter/core/session"
	"github.com/dvaldes/warouter/core/whatsapp"
)

// Engine decides where each inbound message routes, maintaining the
// per-sender session window along the way.
type Engine struct {
	store session.Store
	ttl   time.Duration
	locks *keyedMutex
	nowMs func() int64
}

// NewEngine constructs an Engine over the given store with the configured
// sliding inactivity window.
func NewEngine(store session.Store, ttl time.Duration) *Engine {
	return &Engine{
		store: store,
		ttl:   ttl,
		locks: newKeyedMutex(),
		nowMs: session.NowMs,
	}
}

// Route processes one inbound event and returns its routing decision.
//
// The read-modify-write over the sender's session is serialized per sender.
// A store failure is returned as-is; the engine never invents session state
// to mask one. An event with no resolvable sender is processed statelessly
// by text classification alone.
func (e *Engine) Route(ctx context.Context, ev whatsapp.Event) (Decision, error) {
	sender := whatsapp.ResolveSender(ev)
	if sender == "" {
		d := e.routeStateless(ev)
		logger.RT.Warn("sender unresolved",
			slog.String("event", "route.decision"),
			slog.String("route", d.RouteTarget),
			slog.Bool("show_menu", d.ShouldShowMenu),
		)
		return d, nil
	}
	ctx = logger.WithSenderID(ctx, sender)

	unlock := e.locks.Lock(sender)
	defer unlock()

	st, err := e.store.Get(ctx, sender)
	if err != nil {
		return Decision{}, fmt.Errorf("load session: %w", err)
	}

	now := e.nowMs()
	firstContact := st == nil
	if firstContact {
		st = &session.State{SenderID: sender}
	}

	expired := !firstContact && st.Expired(now, e.ttl)
	if expired {
		st.HasSeenMenu = false
		st.SelectedTopic = ""
	}

	// The stored timestamp judged expiry above; now it is overwritten
	// unconditionally so the window slides on every message.
	st.LastInteractionAt = now

	if !st.HasSeenMenu {
		st.HasSeenMenu = true
		if err := e.store.Put(ctx, st); err != nil {
			return Decision{}, fmt.Errorf("save session: %w", err)
		}
		d := Decision{NormalizedMessage: FirstContact, RouteTarget: FirstContact, ShouldShowMenu: true}
		e.logDecision(ctx, d, expired, firstContact)
		return d, nil
	}

	text := whatsapp.ExtractText(ev)
	match, topic := Classify(text)

	var d Decision
	switch {
	case match == MatchMenu:
		st.SelectedTopic = ""
		d = Decision{NormalizedMessage: FirstContact, RouteTarget: FirstContact}
	case match == MatchTopic:
		st.SelectedTopic = string(topic)
		d = Decision{NormalizedMessage: text, RouteTarget: string(topic)}
	case st.SelectedTopic != "":
		d = Decision{NormalizedMessage: text, RouteTarget: st.SelectedTopic}
	default:
		d = Decision{NormalizedMessage: text, RouteTarget: RouteFallback}
	}

	if err := e.store.Put(ctx, st); err != nil {
		return Decision{}, fmt.Errorf("save session: %w", err)
	}
	e.logDecision(ctx, d, expired, false)
	return d, nil
}

// routeStateless classifies by text alone, with no session reads or writes.
func (e *Engine) routeStateless(ev whatsapp.Event) Decision {
	text := whatsapp.ExtractText(ev)
	match, topic := Classify(text)
	switch match {
	case MatchMenu:
		return Decision{NormalizedMessage: FirstContact, RouteTarget: FirstContact}
	case MatchTopic:
		return Decision{NormalizedMessage: text, RouteTarget: string(topic)}
	default:
		return Decision{NormalizedMessage: text, RouteTarget: RouteFallback}
	}
}

func (e *Engine) logDecision(ctx context.Context, d Decision, expired, firstContact bool) {
	attrs := []slog.Attr{
		slog.String("route", d.RouteTarget),
		slog.Bool("show_menu", d.ShouldShowMenu),
	}
	if expired {
		attrs = append(attrs, slog.Bool("expired", true))
	}
	if firstContact {
		attrs = append(attrs, slog.Bool("first_contact", true))
	}
	logger.LogEvent(ctx, logger.RT, slog.LevelInfo, "route.decision", attrs...)
}
