// Package dispatch consumes routing decisions: it maps route targets to topic
// agents, renders the introductory menu, and owns the fallback reply.
package dispatch

import (
	"context"
	"sync"

	"log/slog"

	"github.com/dvaldes/warouter/core/logger"
	"github.com/dvaldes/warouter/core/router"
)

// Handler processes one routed message for a topic and returns the reply body.
type Handler func(ctx context.Context, senderID, message string) (string, error)

// Dispatcher maps route targets to registered topic handlers.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	fallback Handler
}

// NewDispatcher creates a Dispatcher with the default fallback reply.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string]Handler),
		fallback: func(context.Context, string, string) (string, error) {
			return "No logré entenderte. Escribe *menú* para ver las opciones disponibles.", nil
		},
	}
}

// Register binds a handler to a topic. Empty topics and nil handlers are
// skipped with a warning rather than rejected hard.
func (d *Dispatcher) Register(topic router.Topic, h Handler) {
	if topic == "" || h == nil {
		logger.DSP.Warn("register skip",
			slog.String("event", "register.topic"),
			slog.String("topic", string(topic)),
			slog.Bool("handler_nil", h == nil),
		)
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[string(topic)]; exists {
		logger.DSP.Warn("register duplicate",
			slog.String("event", "register.topic"),
			slog.String("topic", string(topic)),
		)
		return
	}
	d.handlers[string(topic)] = h
}

// SetFallback replaces the fallback handler.
func (d *Dispatcher) SetFallback(h Handler) {
	if h == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.fallback = h
}

// Dispatch turns a routing decision into the reply body for the sender.
// First-contact decisions (and any decision asking for the menu) render the
// introductory menu; topic routes go to their registered agent; everything
// else goes to the fallback handler.
func (d *Dispatcher) Dispatch(ctx context.Context, senderID string, dec router.Decision) (string, error) {
	if dec.ShouldShowMenu || dec.RouteTarget == router.FirstContact {
		logger.LogEvent(ctx, logger.DSP, slog.LevelInfo, "dispatch.menu",
			slog.Bool("show_menu", true),
		)
		return MenuText(), nil
	}

	d.mu.RLock()
	h, ok := d.handlers[dec.RouteTarget]
	fb := d.fallback
	d.mu.RUnlock()

	if !ok {
		h = fb
	}

	reply, err := h(ctx, senderID, dec.NormalizedMessage)
	if err != nil {
		logger.LogEvent(ctx, logger.DSP, slog.LevelError, "dispatch.agent",
			slog.String("route", dec.RouteTarget),
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
		return "", err
	}
	logger.LogEvent(ctx, logger.DSP, slog.LevelInfo, "dispatch.agent",
		slog.String("route", dec.RouteTarget),
		slog.String("status", "ok"),
		slog.Bool("registered", ok),
	)
	return reply, nil
}

// RegisterDefaults installs the stock acknowledgment agents for the whole
// topic catalogue, so the service answers usefully before custom agents land.
func (d *Dispatcher) RegisterDefaults() {
	greetings := map[router.Topic]string{
		router.TopicGasNatural:   "Te atenderá nuestro equipo de *gas natural*. Cuéntanos tu consulta.",
		router.TopicAutomotriz:   "Te atenderá nuestro equipo *automotriz*. Cuéntanos tu consulta.",
		router.TopicConstruccion: "Te atenderá nuestro equipo de *construcción*. Cuéntanos tu consulta.",
		router.TopicGLP:          "Te atenderá nuestro equipo de *GLP*. Cuéntanos tu consulta.",
		router.TopicConexiones:   "Te atenderá nuestro equipo de *mangueras y conexiones*. Cuéntanos tu consulta.",
		router.TopicLatonLlaves:  "Te atenderá nuestro equipo de *bronce, latón y llaves*. Cuéntanos tu consulta.",
		router.TopicServicios:    "Te atenderá nuestro equipo de *servicios industriales*. Cuéntanos tu consulta.",
		router.TopicOtro:         "Cuéntanos tu consulta y te derivaremos con la persona indicada.",
	}
	for topic, text := range greetings {
		reply := text
		d.Register(topic, func(context.Context, string, string) (string, error) {
			return reply, nil
		})
	}
}
