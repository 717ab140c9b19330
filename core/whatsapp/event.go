// Package whatsapp models the flattened inbound webhook payload and extracts
// the normalized message text the routing engine works with.
package whatsapp

import "strings"

// TextBody is the plain text message shape.
type TextBody struct {
	Body string `json:"body"`
}

// ListReply is the interactive list selection shape.
type ListReply struct {
	Title string `json:"title"`
	ID    string `json:"id"`
}

// ButtonReply is the interactive button press shape.
type ButtonReply struct {
	Text string `json:"text"`
}

// Event is one inbound message as forwarded by the webhook bridge. Only one of
// the content shapes is normally present; extraction precedence resolves the
// cases where several appear at once.
type Event struct {
	SenderID      string       `json:"sender_id"`
	From          string       `json:"from"`
	SelectionText string       `json:"selection_text"`
	Text          *TextBody    `json:"text"`
	ListReply     *ListReply   `json:"list_reply"`
	ButtonReply   *ButtonReply `json:"button_reply"`
	Body          string       `json:"body"`
	UserMessage   string       `json:"userMessage"`
}

// ExtractText reduces the heterogeneous payload to a single text string.
// First present shape wins; an unrecognized payload yields "".
func ExtractText(ev Event) string {
	if ev.SelectionText != "" {
		return ev.SelectionText
	}
	if ev.Text != nil && ev.Text.Body != "" {
		return ev.Text.Body
	}
	if ev.ListReply != nil {
		if ev.ListReply.Title != "" {
			return ev.ListReply.Title
		}
		if ev.ListReply.ID != "" {
			return ev.ListReply.ID
		}
	}
	if ev.ButtonReply != nil && ev.ButtonReply.Text != "" {
		return ev.ButtonReply.Text
	}
	if ev.Body != "" {
		return ev.Body
	}
	if ev.UserMessage != "" {
		return ev.UserMessage
	}
	return ""
}

// ResolveSender returns the sender identity or "" when none of the payload
// shapes carry one. Callers treat "" as the stateless path.
func ResolveSender(ev Event) string {
	if s := strings.TrimSpace(ev.SenderID); s != "" {
		return s
	}
	from := strings.TrimSpace(ev.From)
	if from == "" {
		return ""
	}
	// "519...@s.whatsapp.net" style addresses reduce to the user part.
	if i := strings.IndexByte(from, '@'); i > 0 {
		return from[:i]
	}
	return from
}
