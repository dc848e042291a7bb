package engine

import "socrates/domain"

// Prompt copy and quick replies shown to participants. The wording follows
// the original Socrates bot.

func greetingCard() domain.OutboundMessage {
	return domain.CardMessage(domain.Card{
		Title:    "Socrates",
		Subtitle: "Anonymous mentorship, matched by field",
	})
}

func rolePrompt() domain.OutboundMessage {
	return domain.PromptMessage(
		"Welcome to Socrates. Please tell us if you are a Mentee looking for mentorship, or a Mentor who would like to assist someone",
		domain.QuickReplyOption{Label: "Mentee", Payload: "mentee"},
		domain.QuickReplyOption{Label: "Mentor", Payload: "mentor"},
	)
}

func roleClarification() domain.OutboundMessage {
	return domain.TextMessage("I don't understand, can you please type the word mentee or mentor?")
}

func roleThanks(role domain.Role) domain.OutboundMessage {
	if role == domain.RoleMentor {
		return domain.TextMessage("Welcome to Socrates! Hello mentor; thank you for signing up")
	}
	return domain.TextMessage("Welcome to Socrates! Hi mentee! We're happy to help with choosing your mentor")
}

func fieldPrompt() domain.OutboundMessage {
	return domain.PromptMessage("What field are you in?", fieldOptions()...)
}

func fieldClarification() domain.OutboundMessage {
	return domain.PromptMessage("Please choose from the options provided.", fieldOptions()...)
}

func fieldOptions() []domain.QuickReplyOption {
	labels := map[domain.Field]string{
		domain.FieldEducation: "Education",
		domain.FieldBusiness:  "Business",
		domain.FieldIT:        "IT",
	}
	opts := make([]domain.QuickReplyOption, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		opts = append(opts, domain.QuickReplyOption{Label: labels[f], Payload: f.String()})
	}
	return opts
}

func matchMePrompt() domain.OutboundMessage {
	return domain.TextMessage(`Type "match me" if you would like to be matched with someone now.`)
}

func attemptingMatch() domain.OutboundMessage {
	return domain.TextMessage("We will now attempt to match you")
}

func stillSearching() domain.OutboundMessage {
	return domain.TextMessage("We are still looking for a match. Hang tight.")
}

func matchAlert() domain.OutboundMessage {
	return domain.TextMessage(`You have been matched. Say hi. Feel free to type "disconnect" at any time to end the conversation`)
}

func noMatchFound() domain.OutboundMessage {
	return domain.TextMessage(`We could not find a match for you. Type "match me" to try again.`)
}

func sessionEnded() domain.OutboundMessage {
	return domain.TextMessage("The session has ended. Type \"match me\" to start another session")
}

func sessionExpired() domain.OutboundMessage {
	return domain.TextMessage(`Your conversation has expired. Type "match me" to find a new partner.`)
}

func alreadyInSession() domain.OutboundMessage {
	return domain.TextMessage(`You are already in a conversation. Type "disconnect" to end it first.`)
}

func whatAmI(role domain.Role) domain.OutboundMessage {
	return domain.TextMessage("You are currently registered as " + role.String())
}

func genericClarification() domain.OutboundMessage {
	return domain.TextMessage("We don't understand. Please type 'match me' to get matched with someone")
}
