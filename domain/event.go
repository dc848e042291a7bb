package domain

import "time"

// EventKind discriminates how an inbound user action reached us.
type EventKind int

const (
	// EventText is a free-text message typed by the participant.
	EventText EventKind = iota
	// EventPostback is a button or quick-reply payload.
	EventPostback
)

// Event is one inbound user action, already unwrapped from whatever
// envelope the transport delivered it in.
type Event struct {
	SenderID   string
	Kind       EventKind
	Payload    string
	ReceivedAt time.Time
}
