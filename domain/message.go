package domain

// QuickReplyOption is one tappable choice attached to a prompt.
type QuickReplyOption struct {
	Label   string
	Payload string
}

// CardButton is an action button on a rich card.
type CardButton struct {
	Label   string
	Payload string
}

// Card is a rich outbound element with a title and optional decorations.
type Card struct {
	Title    string
	Subtitle string
	ImageURL string
	Buttons  []CardButton
}

// OutboundMessage is the shape the engine hands to the notification channel.
// Exactly one of the three renderings applies: plain text, text with
// quick replies, or a rich card. Rendering into a provider wire format is
// the channel's job.
type OutboundMessage struct {
	Text         string
	QuickReplies []QuickReplyOption
	Card         *Card
}

// TextMessage builds a plain text message.
func TextMessage(text string) OutboundMessage {
	return OutboundMessage{Text: text}
}

// PromptMessage builds a text message carrying an ordered list of quick replies.
func PromptMessage(text string, options ...QuickReplyOption) OutboundMessage {
	return OutboundMessage{Text: text, QuickReplies: options}
}

// CardMessage builds a rich card message.
func CardMessage(card Card) OutboundMessage {
	return OutboundMessage{Card: &card}
}
