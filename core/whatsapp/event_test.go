package whatsapp

import "testing"

func TestExtractTextPrecedence(t *testing.T) {
	cases := []struct {
		name string
		ev   Event
		want string
	}{
		{
			name: "selection text wins over everything",
			ev: Event{
				SelectionText: "2",
				Text:          &TextBody{Body: "hola"},
				ListReply:     &ListReply{Title: "Automotriz", ID: "opt_2"},
				ButtonReply:   &ButtonReply{Text: "Ver menu"},
				Body:          "raw",
				UserMessage:   "previo",
			},
			want: "2",
		},
		{
			name: "text body before list reply",
			ev:   Event{Text: &TextBody{Body: "necesito glp"}, ListReply: &ListReply{Title: "GLP"}},
			want: "necesito glp",
		},
		{
			name: "list reply title",
			ev:   Event{ListReply: &ListReply{Title: "Construccion", ID: "opt_3"}},
			want: "Construccion",
		},
		{
			name: "list reply falls back to id",
			ev:   Event{ListReply: &ListReply{ID: "opt_3"}},
			want: "opt_3",
		},
		{
			name: "button reply text",
			ev:   Event{ButtonReply: &ButtonReply{Text: "Servicios"}},
			want: "Servicios",
		},
		{
			name: "generic body",
			ev:   Event{Body: "texto plano"},
			want: "texto plano",
		},
		{
			name: "user message for re-entrant processing",
			ev:   Event{UserMessage: "reintento"},
			want: "reintento",
		},
		{
			name: "unrecognized payload yields empty",
			ev:   Event{},
			want: "",
		},
		{
			name: "empty text body does not shadow later shapes",
			ev:   Event{Text: &TextBody{}, Body: "fondo"},
			want: "fondo",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractText(tc.ev); got != tc.want {
				t.Fatalf("ExtractText = %q, expected %q", got, tc.want)
			}
		})
	}
}

func TestResolveSender(t *testing.T) {
	if got := ResolveSender(Event{SenderID: "51987654321"}); got != "51987654321" {
		t.Fatalf("sender_id field: got %q", got)
	}
	if got := ResolveSender(Event{From: "51987654321@s.whatsapp.net"}); got != "51987654321" {
		t.Fatalf("jid from field: got %q", got)
	}
	if got := ResolveSender(Event{From: "+51987654321"}); got != "+51987654321" {
		t.Fatalf("bare from field: got %q", got)
	}
	if got := ResolveSender(Event{Body: "hola"}); got != "" {
		t.Fatalf("expected empty sender, got %q", got)
	}
}
