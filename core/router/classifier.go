package router

import "strings"

// Match is the classification outcome for a normalized text.
type Match int

const (
	// MatchNone means the text matched no menu command and no topic rule.
	MatchNone Match = iota
	// MatchMenu means the text is the explicit return-to-menu command.
	MatchMenu
	// MatchTopic means the text selected a topic.
	MatchTopic
)

// rule binds a topic to the ways a sender can select it. Keywords match by
// containment on the lower-cased text; the emoji matches by containment on
// the raw text; the ordinal matches the whole text exactly.
type rule struct {
	topic    Topic
	ordinal  string
	keywords []string
	emoji    string
}

// rules is evaluated in fixed ordinal order 1 to 8. The first matching rule
// wins even when a later rule would also match; this tie-break is part of
// the routing contract.
var rules = []rule{
	{TopicGasNatural, "1", []string{"gas natural"}, "🔥"},
	{TopicAutomotriz, "2", []string{"automotriz"}, "🚗"},
	{TopicConstruccion, "3", []string{"construcción"}, "🏗️"},
	{TopicGLP, "4", []string{"glp", "gas licuado"}, "⛽"},
	{TopicConexiones, "5", []string{"mangueras", "conexiones"}, "🔧"},
	{TopicLatonLlaves, "6", []string{"bronce", "laton", "llaves"}, "🔑"},
	{TopicServicios, "7", []string{"servicios industriales"}, "⚙️"},
	{TopicOtro, "8", []string{"otro"}, "💬"},
}

// Classify maps a normalized text to the menu command, a topic, or no match.
func Classify(text string) (Match, Topic) {
	lower := strings.ToLower(text)
	if lower == "menú" || lower == "menu" {
		return MatchMenu, ""
	}
	for _, r := range rules {
		if matches(r, text, lower) {
			return MatchTopic, r.topic
		}
	}
	return MatchNone, ""
}

func matches(r rule, raw, lower string) bool {
	if raw == r.ordinal {
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return r.emoji != "" && strings.Contains(raw, r.emoji)
}

// Topics returns the catalogue in menu order.
func Topics() []Topic {
	out := make([]Topic, len(rules))
	for i, r := range rules {
		out[i] = r.topic
	}
	return out
}

// ValidTopic reports whether v names a topic from the closed set.
func ValidTopic(v string) bool {
	for _, r := range rules {
		if string(r.topic) == v {
			return true
		}
	}
	return false
}
