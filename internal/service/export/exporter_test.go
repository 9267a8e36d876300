package export_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kurtniemi/kurtclone/internal/model/meeting"
	"github.com/kurtniemi/kurtclone/internal/service/export"
	"github.com/kurtniemi/kurtclone/internal/session"
)

func sampleHistory() meeting.History {
	now := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)
	return meeting.History{
		Public: []meeting.Entry{
			{Sender: "Jane Doe", Text: "Connect with me https://linkedin.com/in/janedoe", SentAt: now},
			{Sender: meeting.BotHandle, Text: "Nice to meet you! Find me at https://linkedin.com/in/kurtniemi", SentAt: now},
		},
		Direct: []meeting.Entry{
			{Sender: "Jane Doe", ParticipantID: "77", Text: "my site https://janedoe.dev", SentAt: now},
			{Sender: meeting.BotHandle, ParticipantID: "77", Text: "Cool site!", SentAt: now},
		},
	}
}

func TestBuildFlagsBotEntriesAndSkipsTheirURLs(t *testing.T) {
	record := export.Build("bot-1", "rec-1", sampleHistory(), time.Now())

	if len(record.PublicMessages) != 2 {
		t.Fatalf("public messages: got %d want 2", len(record.PublicMessages))
	}

	human := record.PublicMessages[0]
	if human.IsBotResponse {
		t.Fatal("human entry flagged as bot response")
	}
	if len(human.SocialURLs) != 1 || human.SocialURLs[0].Platform != "LinkedIn" {
		t.Fatalf("unexpected social urls on human entry: %v", human.SocialURLs)
	}

	bot := record.PublicMessages[1]
	if !bot.IsBotResponse {
		t.Fatal("bot entry not flagged")
	}
	// Bot replies are never scanned, even when they contain URLs.
	if len(bot.SocialURLs) != 0 {
		t.Fatalf("bot entry should have no social urls, got %v", bot.SocialURLs)
	}
}

func TestBuildDirectMessages(t *testing.T) {
	record := export.Build("bot-1", "", sampleHistory(), time.Now())

	if len(record.DirectMessages) != 2 {
		t.Fatalf("direct messages: got %d want 2", len(record.DirectMessages))
	}

	human := record.DirectMessages[0]
	if human.ParticipantID != "77" {
		t.Fatalf("unexpected participant id: %q", human.ParticipantID)
	}

	bot := record.DirectMessages[1]
	if !bot.IsBotResponse {
		t.Fatal("bot DM not flagged")
	}
	if bot.RespondingToParticipantID != "77" {
		t.Fatalf("responding_to: got %q want 77", bot.RespondingToParticipantID)
	}
}

func TestBuildFlattensSocialProfiles(t *testing.T) {
	record := export.Build("bot-1", "", sampleHistory(), time.Now())

	if len(record.SocialProfiles) != 2 {
		t.Fatalf("social profiles: got %d want 2", len(record.SocialProfiles))
	}

	if record.SocialProfiles[0].FromDM {
		t.Fatal("public profile marked as DM")
	}
	if !record.SocialProfiles[1].FromDM {
		t.Fatal("DM profile not marked")
	}
	if record.SocialProfiles[1].Platform != "Website" {
		t.Fatalf("unexpected platform: %s", record.SocialProfiles[1].Platform)
	}
}

func TestBuildTruncatesExcerpt(t *testing.T) {
	long := "https://linkedin.com/in/a " + strings.Repeat("x", 200)
	history := meeting.History{
		Public: []meeting.Entry{{Sender: "Al", Text: long, SentAt: time.Now()}},
	}

	record := export.Build("bot-1", "", history, time.Now())
	if len(record.SocialProfiles) != 1 {
		t.Fatalf("social profiles: got %d want 1", len(record.SocialProfiles))
	}
	if got := len([]rune(record.SocialProfiles[0].FromMessage)); got != 100 {
		t.Fatalf("excerpt length: got %d want 100", got)
	}
}

func TestExportWritesArtifactNamedByRecordingID(t *testing.T) {
	store := session.NewMemoryStore()
	store.RecordPublic("bot-1", meeting.Entry{Sender: "Jane", Text: "hello", SentAt: time.Now()})

	dir := t.TempDir()
	exporter := export.New(store, dir)

	path, err := exporter.Export("bot-1", "rec-9")
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}
	if filepath.Base(path) != "chat_messages_rec-9.json" {
		t.Fatalf("unexpected artifact name: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}

	var record export.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		t.Fatalf("decode artifact: %v", err)
	}
	if record.MeetingInfo.BotID != "bot-1" || record.MeetingInfo.RecordingID != "rec-9" {
		t.Fatalf("unexpected meeting info: %+v", record.MeetingInfo)
	}
	if len(record.PublicMessages) != 1 {
		t.Fatalf("public messages: got %d want 1", len(record.PublicMessages))
	}
}

func TestExportWithoutRecordingIDAvoidsCollisions(t *testing.T) {
	store := session.NewMemoryStore()
	store.RecordPublic("bot-1", meeting.Entry{Sender: "Jane", Text: "hello", SentAt: time.Now()})

	dir := t.TempDir()
	exporter := export.New(store, dir)

	first, err := exporter.Export("bot-1", "")
	if err != nil {
		t.Fatalf("first Export err: %v", err)
	}
	second, err := exporter.Export("bot-1", "")
	if err != nil {
		t.Fatalf("second Export err: %v", err)
	}

	if first == second {
		t.Fatalf("repeated exports share a path: %s", first)
	}
	if !strings.HasPrefix(filepath.Base(first), "chat_messages_bot-1_") {
		t.Fatalf("unexpected fallback name: %s", first)
	}
}

func TestExportAfterPurgeIsNoOp(t *testing.T) {
	store := session.NewMemoryStore()
	store.RecordPublic("bot-1", meeting.Entry{Sender: "Jane", Text: "hello", SentAt: time.Now()})
	store.Purge("bot-1")

	exporter := export.New(store, t.TempDir())

	path, err := exporter.Export("bot-1", "rec-9")
	if err != nil {
		t.Fatalf("Export err: %v", err)
	}
	if path != "" {
		t.Fatalf("expected no artifact after purge, got %s", path)
	}
}
