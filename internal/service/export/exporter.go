// Package export serializes a meeting's full chat history to a JSON artifact
// when the session ends.
package export

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/kurtniemi/kurtclone/internal/model/meeting"
	"github.com/kurtniemi/kurtclone/internal/social"
)

// excerptLimit bounds the source-message excerpt stored with each social
// profile reference.
const excerptLimit = 100

// HistorySource provides read-only access to a meeting's chat buffers.
type HistorySource interface {
	History(botID string) (meeting.History, bool)
}

// Record is the exported artifact.
type Record struct {
	MeetingInfo    Info            `json:"meeting_info"`
	PublicMessages []Message       `json:"public_messages"`
	DirectMessages []Message       `json:"direct_messages"`
	SocialProfiles []SocialProfile `json:"social_profiles"`
}

// Info is the export metadata block.
type Info struct {
	BotID       string `json:"bot_id"`
	RecordingID string `json:"recording_id,omitempty"`
	SavedAt     string `json:"saved_at"`
}

// Message is one exported chat entry.
type Message struct {
	Participant   string      `json:"participant"`
	ParticipantID string      `json:"participant_id,omitempty"`
	Message       string      `json:"message"`
	Timestamp     string      `json:"timestamp"`
	SocialURLs    []SocialURL `json:"social_urls,omitempty"`
	IsBotResponse bool        `json:"is_bot_response,omitempty"`
	// RespondingToParticipantID records, for bot DM replies, which human
	// participant the reply answered.
	RespondingToParticipantID string `json:"responding_to_participant_id,omitempty"`
}

// SocialURL is a platform/URL pair found inside a message.
type SocialURL struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// SocialProfile is the flattened cross-channel view of an extracted URL.
type SocialProfile struct {
	Participant string `json:"participant"`
	Platform    string `json:"platform"`
	URL         string `json:"url"`
	FromMessage string `json:"from_message"`
	FromDM      bool   `json:"from_dm,omitempty"`
}

// Exporter writes session artifacts into a fixed directory.
type Exporter struct {
	source HistorySource
	dir    string
}

// New builds an Exporter reading from source and writing into dir.
func New(source HistorySource, dir string) *Exporter {
	return &Exporter{source: source, dir: dir}
}

// Export serializes all stored history for a bot id. Returns the written
// file path, or "" when the session has no buffers (already purged or never
// chatted) — that case is logged and skipped, not an error.
func (e *Exporter) Export(botID, recordingID string) (string, error) {
	history, ok := e.source.History(botID)
	if !ok {
		log.Printf("[export] no messages found for bot %s", botID)
		return "", nil
	}

	record := Build(botID, recordingID, history, time.Now())

	path := filepath.Join(e.dir, artifactName(botID, recordingID))
	encoded, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	log.Printf("[export] saved %d public messages and %d DMs to %s",
		len(record.PublicMessages), len(record.DirectMessages), path)
	if n := len(record.SocialProfiles); n > 0 {
		log.Printf("[export] found %d social profile URLs", n)
	}

	return path, nil
}

// Build assembles the export record from a history snapshot. Social URLs are
// recomputed here from message text; they are never stored in the session
// buffers. Bot-authored entries are flagged and never scanned for URLs.
func Build(botID, recordingID string, history meeting.History, savedAt time.Time) Record {
	record := Record{
		MeetingInfo: Info{
			BotID:       botID,
			RecordingID: recordingID,
			SavedAt:     savedAt.Format(time.RFC3339),
		},
		PublicMessages: []Message{},
		DirectMessages: []Message{},
		SocialProfiles: []SocialProfile{},
	}

	for _, entry := range history.Public {
		msg := Message{
			Participant: entry.Sender,
			Message:     entry.Text,
			Timestamp:   entry.SentAt.Format(time.RFC3339),
		}

		if entry.IsBot() {
			msg.IsBotResponse = true
		} else {
			msg.SocialURLs = collectURLs(entry, false, &record.SocialProfiles)
		}

		record.PublicMessages = append(record.PublicMessages, msg)
	}

	for _, entry := range history.Direct {
		msg := Message{
			Participant:   entry.Sender,
			ParticipantID: entry.ParticipantID,
			Message:       entry.Text,
			Timestamp:     entry.SentAt.Format(time.RFC3339),
		}

		if entry.IsBot() {
			msg.IsBotResponse = true
			msg.RespondingToParticipantID = entry.ParticipantID
		} else {
			msg.SocialURLs = collectURLs(entry, true, &record.SocialProfiles)
		}

		record.DirectMessages = append(record.DirectMessages, msg)
	}

	return record
}

func collectURLs(entry meeting.Entry, fromDM bool, profiles *[]SocialProfile) []SocialURL {
	matches := social.ExtractURLs(entry.Text)
	if len(matches) == 0 {
		return nil
	}

	urls := make([]SocialURL, 0, len(matches))
	for _, m := range matches {
		urls = append(urls, SocialURL{Platform: m.Platform, URL: m.URL})
		*profiles = append(*profiles, SocialProfile{
			Participant: entry.Sender,
			Platform:    m.Platform,
			URL:         m.URL,
			FromMessage: excerpt(entry.Text),
			FromDM:      fromDM,
		})
	}
	return urls
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptLimit {
		return text
	}
	return string(runes[:excerptLimit])
}

// artifactName derives the export filename. Recording ids are unique per
// meeting, so they name the file directly; without one, a timestamp plus a
// short random suffix keeps repeated exports from colliding.
func artifactName(botID, recordingID string) string {
	if recordingID != "" {
		return fmt.Sprintf("chat_messages_%s.json", recordingID)
	}
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("chat_messages_%s_%s_%s.json",
		botID, time.Now().Format("20060102_150405"), suffix)
}
