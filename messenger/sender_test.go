package messenger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"socrates/domain"
)

func TestGraphClient_Posts_To_Send_Api(t *testing.T) {
	req := require.New(t)

	var gotPath, gotToken string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("access_token")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewGraphClient(slog.Default(), server.URL, "page-token")
	err := client.Send(context.Background(), "alice", domain.TextMessage("hello"))
	req.NoError(err)

	req.Equal("/me/messages", gotPath)
	req.Equal("page-token", gotToken)
	req.Equal(map[string]any{"id": "alice"}, gotBody["recipient"])
	req.Equal(map[string]any{"text": "hello"}, gotBody["message"])
}

func TestGraphClient_Surfaces_Api_Errors(t *testing.T) {
	req := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewGraphClient(slog.Default(), server.URL, "page-token")
	err := client.Send(context.Background(), "alice", domain.TextMessage("hello"))
	req.ErrorContains(err, "status 400")
}

func TestRenderMessage_Plain_Text(t *testing.T) {
	req := require.New(t)

	rendered := renderMessage(domain.TextMessage("hi"))
	req.Equal(map[string]any{"text": "hi"}, rendered)
}

func TestRenderMessage_Quick_Replies(t *testing.T) {
	req := require.New(t)

	rendered := renderMessage(domain.PromptMessage("choose",
		domain.QuickReplyOption{Label: "Mentee", Payload: "mentee"},
		domain.QuickReplyOption{Label: "Mentor", Payload: "mentor"},
	))

	req.Equal("choose", rendered["text"])
	replies, ok := rendered["quick_replies"].([]map[string]any)
	req.True(ok)
	req.Len(replies, 2)
	req.Equal("Mentee", replies[0]["title"])
	req.Equal("mentee", replies[0]["payload"])
	req.Equal("text", replies[0]["content_type"])
}

func TestRenderMessage_Card_Becomes_Generic_Template(t *testing.T) {
	req := require.New(t)

	rendered := renderMessage(domain.CardMessage(domain.Card{
		Title:    "Socrates",
		Subtitle: "Anonymous mentorship",
		Buttons:  []domain.CardButton{{Label: "Get Started", Payload: "get started"}},
	}))

	attachment, ok := rendered["attachment"].(map[string]any)
	req.True(ok)
	req.Equal("template", attachment["type"])

	payload := attachment["payload"].(map[string]any)
	req.Equal("generic", payload["template_type"])

	elements := payload["elements"].([]map[string]any)
	req.Len(elements, 1)
	req.Equal("Socrates", elements[0]["title"])
	req.Equal("Anonymous mentorship", elements[0]["subtitle"])

	buttons := elements[0]["buttons"].([]map[string]any)
	req.Len(buttons, 1)
	req.Equal("Get Started", buttons[0]["title"])
	req.Equal("postback", buttons[0]["type"])
}
