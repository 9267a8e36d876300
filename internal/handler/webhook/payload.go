package webhook

import (
	"strconv"
	"strings"
)

// Payload shapes vary across provider API versions: some events carry flat
// top-level fields ("bot_id"), newer ones nest everything under data, and
// chat messages nest one level deeper again under data.data. The normalizers
// below try each known shape in priority order and degrade to defaults
// instead of failing, so a missing field never takes down event handling.

// unknownSender is the display name used when a payload omits the
// participant name.
const unknownSender = "Unknown"

// ChatMessage is the normalized form of a chat event.
type ChatMessage struct {
	BotID    string
	Sender   string
	SenderID string
	Text     string
	To       string
	IsDM     bool
}

// TranscriptData is the normalized form of a real-time transcript event.
type TranscriptData struct {
	BotID   string
	Speaker string
	Words   string
}

// StatusChange is the normalized form of the legacy bot.status_change event.
type StatusChange struct {
	BotID       string
	Status      string
	RecordingID string
}

// TranscriptDone is the normalized form of an async transcript completion.
type TranscriptDone struct {
	TranscriptID string
	RecordingID  string
}

// normalizeChatMessage extracts chat fields, tolerating both historical
// payload shapes. recipientEveryone in the "to" field marks a public
// message; any other value is a participant id, making it a DM.
func normalizeChatMessage(data map[string]any, recipientEveryone string) ChatMessage {
	participant := child(data, "data", "data", "participant")
	if participant == nil {
		participant = child(data, "data", "participant")
	}

	message := child(data, "data", "data", "data")
	if message == nil {
		message = child(data, "data", "message")
	}

	sender := str(participant, "name")
	if sender == "" {
		sender = unknownSender
	}

	to := str(message, "to")

	return ChatMessage{
		BotID:    extractBotID(data),
		Sender:   sender,
		SenderID: str(participant, "id"),
		Text:     str(message, "text"),
		To:       to,
		IsDM:     to != recipientEveryone,
	}
}

// normalizeTranscriptData extracts speaker and words from a real-time
// transcript event.
func normalizeTranscriptData(data map[string]any) TranscriptData {
	inner := child(data, "data", "data")

	speaker := str(child(inner, "participant"), "name")
	if speaker == "" {
		speaker = unknownSender
	}

	return TranscriptData{
		BotID:   extractBotID(data),
		Speaker: speaker,
		Words:   str(inner, "words"),
	}
}

// normalizeStatusChange extracts the status code and recording id from the
// legacy bot.status_change shape, where both live one level under data.
func normalizeStatusChange(data map[string]any) StatusChange {
	inner := child(data, "data")
	return StatusChange{
		BotID:       extractBotID(data),
		Status:      str(inner, "code"),
		RecordingID: str(inner, "recording_id"),
	}
}

// normalizeTranscriptDone extracts transcript and recording ids from a
// transcript.done event (data.transcript.id / data.recording.id).
func normalizeTranscriptDone(data map[string]any) TranscriptDone {
	return TranscriptDone{
		TranscriptID: str(child(data, "data", "transcript"), "id"),
		RecordingID:  str(child(data, "data", "recording"), "id"),
	}
}

// extractBotID tries the nested shape (data.bot.id) before the flat legacy
// field (bot_id).
func extractBotID(data map[string]any) string {
	if id := str(child(data, "data", "bot"), "id"); id != "" {
		return id
	}
	return str(data, "bot_id")
}

// extractRecordingID tries the nested shape (data.recording.id) before the
// flat field (data.recording_id).
func extractRecordingID(data map[string]any) string {
	if id := str(child(data, "data", "recording"), "id"); id != "" {
		return id
	}
	return str(child(data, "data"), "recording_id")
}

// child walks nested maps, returning nil as soon as a key is absent or not
// a mapping.
func child(m map[string]any, keys ...string) map[string]any {
	current := m
	for _, key := range keys {
		if current == nil {
			return nil
		}
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// str reads a field as a string, stringifying numeric ids the way JSON
// decoding produces them. Missing fields yield "".
func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}

	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// Participant ids arrive as JSON numbers in older payloads.
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
