// Package router holds the session-and-routing engine: it classifies inbound
// text against the fixed topic catalogue and decides, per sender session,
// where each message goes.
package router

// Topic is one of the eight fixed conversation categories.
type Topic string

const (
	TopicGasNatural   Topic = "gas_natural"
	TopicAutomotriz   Topic = "automotriz"
	TopicConstruccion Topic = "construccion"
	TopicGLP          Topic = "glp"
	TopicConexiones   Topic = "conexiones"
	TopicLatonLlaves  Topic = "laton_llaves"
	TopicServicios    Topic = "servicios"
	TopicOtro         Topic = "otro"
)

// FirstContact is the sentinel used for both the normalized message and the
// route target when the sender must (re)see the introductory menu.
const FirstContact = "FIRST_CONTACT"

// RouteFallback is the catch-all route when no topic applies and none is
// currently selected.
const RouteFallback = "fallback"

// Decision is the routing outcome for one inbound message. It is handed to
// the dispatch layer and never persisted.
type Decision struct {
	NormalizedMessage string `json:"normalizedMessage"`
	RouteTarget       string `json:"routeTarget"`
	ShouldShowMenu    bool   `json:"shouldShowMenu"`
}
