package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"socrates/contract"
	"socrates/domain"
)

var _ contract.NotificationChannel = (*GraphClient)(nil)

// GraphClient delivers outbound messages through the Messenger Send API.
type GraphClient struct {
	log         *slog.Logger
	http        *http.Client
	baseURL     string
	accessToken string
}

func NewGraphClient(log *slog.Logger, baseURL, accessToken string) *GraphClient {
	return &GraphClient{
		log:         log,
		http:        &http.Client{Timeout: 10 * time.Second},
		baseURL:     baseURL,
		accessToken: accessToken,
	}
}

func (g *GraphClient) Send(ctx context.Context, recipientID string, msg domain.OutboundMessage) error {
	payload := map[string]any{
		"recipient": map[string]string{"id": recipientID},
		"message":   renderMessage(msg),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}

	endpoint := fmt.Sprintf("%s/me/messages?access_token=%s", g.baseURL, url.QueryEscape(g.accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("send api call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send api returned status %d", resp.StatusCode)
	}
	g.log.Debug("Message delivered", "recipient", recipientID)
	return nil
}

// renderMessage maps the engine's message shapes onto the Send API format:
// plain text, text with quick_replies, or a generic template card.
func renderMessage(msg domain.OutboundMessage) map[string]any {
	if msg.Card != nil {
		element := map[string]any{"title": msg.Card.Title}
		if msg.Card.Subtitle != "" {
			element["subtitle"] = msg.Card.Subtitle
		}
		if msg.Card.ImageURL != "" {
			element["image_url"] = msg.Card.ImageURL
		}
		if len(msg.Card.Buttons) > 0 {
			buttons := make([]map[string]any, 0, len(msg.Card.Buttons))
			for _, b := range msg.Card.Buttons {
				buttons = append(buttons, map[string]any{
					"type":    "postback",
					"title":   b.Label,
					"payload": b.Payload,
				})
			}
			element["buttons"] = buttons
		}
		return map[string]any{
			"attachment": map[string]any{
				"type": "template",
				"payload": map[string]any{
					"template_type": "generic",
					"elements":      []map[string]any{element},
				},
			},
		}
	}

	rendered := map[string]any{"text": msg.Text}
	if len(msg.QuickReplies) > 0 {
		replies := make([]map[string]any, 0, len(msg.QuickReplies))
		for _, qr := range msg.QuickReplies {
			replies = append(replies, map[string]any{
				"content_type": "text",
				"title":        qr.Label,
				"payload":      qr.Payload,
			})
		}
		rendered["quick_replies"] = replies
	}
	return rendered
}
