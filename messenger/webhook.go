// Package messenger is the chat-platform boundary: it unwraps Messenger
// webhook envelopes into domain events and renders outbound messages into
// the Send API wire format. The engine itself knows nothing about either.
package messenger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"socrates/contract"
	"socrates/domain"
)

// Webhook handles the Messenger Platform webhook endpoints: the GET
// verification handshake and the POST page-event delivery.
type Webhook struct {
	log         *slog.Logger
	verifyToken string
	dispatcher  contract.Dispatcher
}

func NewWebhook(log *slog.Logger, verifyToken string, dispatcher contract.Dispatcher) *Webhook {
	return &Webhook{log: log, verifyToken: verifyToken, dispatcher: dispatcher}
}

func (w *Webhook) Register(r *gin.Engine) {
	r.GET("/webhook", w.verify)
	r.POST("/webhook", w.receive)
}

// verify answers the subscription handshake: echo the challenge when the
// verify token matches, 403 otherwise.
func (w *Webhook) verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode != "subscribe" || token != w.verifyToken {
		w.log.Warn("Webhook verification rejected", "mode", mode)
		c.Status(http.StatusForbidden)
		return
	}
	w.log.Info("Webhook verified")
	c.String(http.StatusOK, challenge)
}

type webhookBody struct {
	Object string `json:"object"`
	Entry  []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message *struct {
				Text string `json:"text"`
			} `json:"message"`
			Postback *struct {
				Payload string `json:"payload"`
			} `json:"postback"`
		} `json:"messaging"`
	} `json:"entry"`
}

// receive unwraps page events into domain events and acknowledges within
// the provider's SLA. Dispatch never blocks on engine processing.
func (w *Webhook) receive(c *gin.Context) {
	var body webhookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		w.log.Warn("Malformed webhook payload", "error", err)
		c.Status(http.StatusBadRequest)
		return
	}
	if body.Object != "page" {
		c.Status(http.StatusNotFound)
		return
	}

	now := time.Now().UTC()
	for _, entry := range body.Entry {
		for _, msg := range entry.Messaging {
			switch {
			case msg.Message != nil:
				w.dispatcher.Dispatch(domain.Event{
					SenderID:   msg.Sender.ID,
					Kind:       domain.EventText,
					Payload:    msg.Message.Text,
					ReceivedAt: now,
				})
			case msg.Postback != nil:
				w.dispatcher.Dispatch(domain.Event{
					SenderID:   msg.Sender.ID,
					Kind:       domain.EventPostback,
					Payload:    msg.Postback.Payload,
					ReceivedAt: now,
				})
			}
		}
	}
	c.String(http.StatusOK, "EVENT_RECEIVED")
}
