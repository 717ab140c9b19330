package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dvaldes/warouter/core/router"
)

func TestDispatchFirstContactRendersMenu(t *testing.T) {
	d := NewDispatcher()
	dec := router.Decision{
		NormalizedMessage: router.FirstContact,
		RouteTarget:       router.FirstContact,
		ShouldShowMenu:    true,
	}
	reply, err := d.Dispatch(context.Background(), "+100", dec)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if reply != MenuText() {
		t.Fatalf("expected menu, got %q", reply)
	}
}

func TestDispatchMenuCommandRendersMenu(t *testing.T) {
	d := NewDispatcher()
	// menu command path carries the sentinel but not the show-menu flag
	dec := router.Decision{NormalizedMessage: router.FirstContact, RouteTarget: router.FirstContact}
	reply, err := d.Dispatch(context.Background(), "+100", dec)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if reply != MenuText() {
		t.Fatalf("expected menu for FIRST_CONTACT target, got %q", reply)
	}
}

func TestDispatchRegisteredAgent(t *testing.T) {
	d := NewDispatcher()
	var gotSender, gotMsg string
	d.Register(router.TopicGLP, func(_ context.Context, sender, msg string) (string, error) {
		gotSender, gotMsg = sender, msg
		return "precio del balón: consulta derivada", nil
	})

	dec := router.Decision{NormalizedMessage: "precio glp", RouteTarget: "glp"}
	reply, err := d.Dispatch(context.Background(), "+100", dec)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if reply != "precio del balón: consulta derivada" {
		t.Fatalf("unexpected reply: %q", reply)
	}
	if gotSender != "+100" || gotMsg != "precio glp" {
		t.Fatalf("handler args: sender=%q msg=%q", gotSender, gotMsg)
	}
}

func TestDispatchFallback(t *testing.T) {
	d := NewDispatcher()
	dec := router.Decision{NormalizedMessage: "no entiendo", RouteTarget: router.RouteFallback}
	reply, err := d.Dispatch(context.Background(), "+100", dec)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if !strings.Contains(reply, "menú") {
		t.Fatalf("fallback reply should point at the menu: %q", reply)
	}
}

func TestDispatchAgentErrorPropagates(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("agent down")
	d.Register(router.TopicOtro, func(context.Context, string, string) (string, error) {
		return "", boom
	})
	_, err := d.Dispatch(context.Background(), "+100", router.Decision{RouteTarget: "otro"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected agent error, got %v", err)
	}
}

func TestRegisterDefaultsCoversCatalogue(t *testing.T) {
	d := NewDispatcher()
	d.RegisterDefaults()
	for _, topic := range router.Topics() {
		reply, err := d.Dispatch(context.Background(), "+100", router.Decision{
			NormalizedMessage: "hola",
			RouteTarget:       string(topic),
		})
		if err != nil {
			t.Fatalf("dispatch %s: %v", topic, err)
		}
		if reply == "" || reply == MenuText() {
			t.Fatalf("topic %s lacks a default agent reply", topic)
		}
	}
}

func TestMenuTextListsAllOptions(t *testing.T) {
	menu := MenuText()
	for _, fragment := range []string{"Gas natural", "Automotriz", "Construcción", "GLP", "conexiones", "llaves", "Servicios industriales", "Otro"} {
		if !strings.Contains(menu, fragment) {
			t.Fatalf("menu missing %q:\n%s", fragment, menu)
		}
	}
}
