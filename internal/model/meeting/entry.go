package meeting

import "time"

// BotHandle is the reserved sender name for entries authored by the bot
// itself. Human participants can never claim it; the chat provider prefixes
// display names, so a plain "@kurtbot" sender always means us.
const BotHandle = "@kurtbot"

// Entry is a single chat message recorded for a meeting.
type Entry struct {
	// Sender is the participant display name, or BotHandle for our replies.
	Sender string `json:"sender"`
	// ParticipantID is the provider id of the human participant. For bot
	// DM replies it identifies who the bot was answering. Empty for
	// public messages.
	ParticipantID string    `json:"participantId,omitempty"`
	Text          string    `json:"text"`
	SentAt        time.Time `json:"sentAt"`
}

// IsBot reports whether the entry was authored by the bot itself.
func (e Entry) IsBot() bool {
	return e.Sender == BotHandle
}

// History holds the full record of a meeting's chat, split by channel.
type History struct {
	Public []Entry
	Direct []Entry
}
