package router

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dvaldes/warouter/core/session"
	"github.com/dvaldes/warouter/core/whatsapp"
)

func textEvent(sender, body string) whatsapp.Event {
	return whatsapp.Event{SenderID: sender, Text: &whatsapp.TextBody{Body: body}}
}

// testEngine returns an engine over a fresh memory store with a controllable clock.
func testEngine(t *testing.T) (*Engine, *int64) {
	t.Helper()
	now := int64(1700000000000)
	e := NewEngine(session.NewMemoryStore(), 5*time.Minute)
	e.nowMs = func() int64 { return now }
	return e, &now
}

func route(t *testing.T, e *Engine, ev whatsapp.Event) Decision {
	t.Helper()
	d, err := e.Route(context.Background(), ev)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	return d
}

func TestRouteFirstContact(t *testing.T) {
	e, _ := testEngine(t)
	d := route(t, e, textEvent("+100", "hola"))
	if d.NormalizedMessage != FirstContact || d.RouteTarget != FirstContact || !d.ShouldShowMenu {
		t.Fatalf("unexpected first decision: %+v", d)
	}
}

func TestRouteFirstContactBeatsClassification(t *testing.T) {
	e, _ := testEngine(t)
	// a classifiable first message still goes through the menu
	d := route(t, e, textEvent("+101", "🔧"))
	if d.RouteTarget != FirstContact || !d.ShouldShowMenu {
		t.Fatalf("classification ran before first-contact: %+v", d)
	}
}

func TestRouteTopicSelectionAndContinuation(t *testing.T) {
	e, now := testEngine(t)
	route(t, e, textEvent("+100", "hola"))

	d := route(t, e, textEvent("+100", "3"))
	if d.NormalizedMessage != "3" || d.RouteTarget != "construccion" || d.ShouldShowMenu {
		t.Fatalf("ordinal selection: %+v", d)
	}

	*now += 2 * time.Minute.Milliseconds()
	d = route(t, e, textEvent("+100", "necesito cemento"))
	if d.NormalizedMessage != "necesito cemento" || d.RouteTarget != "construccion" {
		t.Fatalf("free-text continuation: %+v", d)
	}
}

func TestRouteExpiryResetsSession(t *testing.T) {
	e, now := testEngine(t)
	route(t, e, textEvent("+100", "hola"))
	route(t, e, textEvent("+100", "3"))

	*now += 6 * time.Minute.Milliseconds()
	d := route(t, e, textEvent("+100", "hola de nuevo"))
	if d.RouteTarget != FirstContact || !d.ShouldShowMenu {
		t.Fatalf("expired session not treated as fresh: %+v", d)
	}

	// the prior topic is gone; unmatched text now falls back
	d = route(t, e, textEvent("+100", "sigo aqui"))
	if d.RouteTarget != RouteFallback {
		t.Fatalf("stale topic survived expiry: %+v", d)
	}
}

func TestRouteExpiryBoundary(t *testing.T) {
	e, now := testEngine(t)
	route(t, e, textEvent("+100", "hola"))
	route(t, e, textEvent("+100", "4"))

	// exactly at the window the session is still live
	*now += 5 * time.Minute.Milliseconds()
	d := route(t, e, textEvent("+100", "consulta"))
	if d.RouteTarget != "glp" {
		t.Fatalf("session expired at exact window edge: %+v", d)
	}

	*now += 5*time.Minute.Milliseconds() + 1
	d = route(t, e, textEvent("+100", "consulta"))
	if d.RouteTarget != FirstContact {
		t.Fatalf("session survived past window: %+v", d)
	}
}

func TestRouteMenuCommandClearsTopic(t *testing.T) {
	e, _ := testEngine(t)
	route(t, e, textEvent("+100", "hola"))
	route(t, e, textEvent("+100", "2"))

	d := route(t, e, textEvent("+100", "MENÚ"))
	if d.NormalizedMessage != FirstContact || d.RouteTarget != FirstContact {
		t.Fatalf("menu command: %+v", d)
	}
	if d.ShouldShowMenu {
		t.Fatalf("menu command path must not set ShouldShowMenu: %+v", d)
	}

	// topic cleared: unmatched text falls back instead of continuing
	d = route(t, e, textEvent("+100", "texto libre"))
	if d.RouteTarget != RouteFallback {
		t.Fatalf("topic not cleared by menu command: %+v", d)
	}
}

func TestRouteFallbackAwaitingSelection(t *testing.T) {
	e, _ := testEngine(t)
	route(t, e, textEvent("+100", "hola"))
	d := route(t, e, textEvent("+100", "no entiendo"))
	if d.NormalizedMessage != "no entiendo" || d.RouteTarget != RouteFallback || d.ShouldShowMenu {
		t.Fatalf("awaiting-selection fallback: %+v", d)
	}
}

func TestRouteContinuationIdempotent(t *testing.T) {
	e, _ := testEngine(t)
	route(t, e, textEvent("+100", "hola"))
	route(t, e, textEvent("+100", "7"))

	first := route(t, e, textEvent("+100", "cotizacion por favor"))
	second := route(t, e, textEvent("+100", "cotizacion por favor"))
	if first.RouteTarget != second.RouteTarget || first.RouteTarget != "servicios" {
		t.Fatalf("continuation not idempotent: %+v then %+v", first, second)
	}
}

func TestRouteSlidingWindow(t *testing.T) {
	e, now := testEngine(t)
	route(t, e, textEvent("+100", "hola"))
	route(t, e, textEvent("+100", "1"))

	// each message renews the window; three 4-minute gaps never expire
	for i := 0; i < 3; i++ {
		*now += 4 * time.Minute.Milliseconds()
		d := route(t, e, textEvent("+100", "sigo con la consulta"))
		if d.RouteTarget != "gas_natural" {
			t.Fatalf("window did not slide on message %d: %+v", i, d)
		}
	}
}

func TestRouteUnrecognizedPayload(t *testing.T) {
	e, _ := testEngine(t)
	route(t, e, whatsapp.Event{SenderID: "+100", Text: &whatsapp.TextBody{Body: "hola"}})
	d := route(t, e, whatsapp.Event{SenderID: "+100"})
	if d.NormalizedMessage != "" || d.RouteTarget != RouteFallback {
		t.Fatalf("empty payload should fall back with empty text: %+v", d)
	}
}

func TestRouteUnresolvableSender(t *testing.T) {
	e, _ := testEngine(t)

	d := route(t, e, whatsapp.Event{Text: &whatsapp.TextBody{Body: "glp"}})
	if d.RouteTarget != "glp" {
		t.Fatalf("stateless topic classification: %+v", d)
	}
	d = route(t, e, whatsapp.Event{Text: &whatsapp.TextBody{Body: "menu"}})
	if d.RouteTarget != FirstContact || d.ShouldShowMenu {
		t.Fatalf("stateless menu command: %+v", d)
	}
	d = route(t, e, whatsapp.Event{Text: &whatsapp.TextBody{Body: "hola"}})
	if d.RouteTarget != RouteFallback {
		t.Fatalf("stateless fallback: %+v", d)
	}

	// no state was created along the way: a later resolvable message from a
	// fresh sender still sees first contact
	d = route(t, e, textEvent("+300", "hola"))
	if d.RouteTarget != FirstContact {
		t.Fatalf("stateless path leaked state: %+v", d)
	}
}

type failingStore struct {
	err error
}

func (f *failingStore) Get(context.Context, string) (*session.State, error) { return nil, f.err }
func (f *failingStore) Put(context.Context, *session.State) error           { return f.err }
func (f *failingStore) Reset(context.Context, string) error                 { return f.err }

func TestRouteStoreFailurePropagates(t *testing.T) {
	boom := errors.New("store down")
	e := NewEngine(&failingStore{err: boom}, 5*time.Minute)

	_, err := e.Route(context.Background(), textEvent("+100", "hola"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
}

func TestRouteSameSenderSerialized(t *testing.T) {
	e, _ := testEngine(t)

	const n = 20
	done := make(chan Decision, n)
	for i := 0; i < n; i++ {
		go func() {
			d, err := e.Route(context.Background(), textEvent("+100", "hola"))
			if err != nil {
				t.Errorf("route: %v", err)
			}
			done <- d
		}()
	}

	menus := 0
	for i := 0; i < n; i++ {
		if d := <-done; d.ShouldShowMenu {
			menus++
		}
	}
	if menus != 1 {
		t.Fatalf("expected exactly one menu send under concurrency, got %d", menus)
	}
}
