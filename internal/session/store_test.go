package session_test

import (
	"fmt"
	"testing"

	"github.com/kurtniemi/kurtclone/internal/model/meeting"
	"github.com/kurtniemi/kurtclone/internal/session"
)

func TestContextRollsOverAtLimit(t *testing.T) {
	store := session.NewMemoryStore()

	for i := 1; i <= session.ContextLimit+1; i++ {
		store.RecordPublic("bot-1", meeting.Entry{Sender: "Alice", Text: fmt.Sprintf("msg-%d", i)})
	}

	recent := store.Context("bot-1")
	if len(recent) != session.ContextLimit {
		t.Fatalf("context length: got %d want %d", len(recent), session.ContextLimit)
	}
	if recent[0].Text != "msg-2" {
		t.Fatalf("oldest entry: got %s want msg-2", recent[0].Text)
	}
	if recent[len(recent)-1].Text != "msg-21" {
		t.Fatalf("newest entry: got %s want msg-21", recent[len(recent)-1].Text)
	}
}

func TestContextIsSuffixOfPublicHistory(t *testing.T) {
	store := session.NewMemoryStore()

	for i := 0; i < 30; i++ {
		store.RecordPublic("bot-1", meeting.Entry{Sender: "Bob", Text: fmt.Sprintf("msg-%d", i)})
	}

	history, ok := store.History("bot-1")
	if !ok {
		t.Fatal("expected history for bot-1")
	}
	if len(history.Public) != 30 {
		t.Fatalf("public history length: got %d want 30", len(history.Public))
	}

	recent := store.Context("bot-1")
	offset := len(history.Public) - len(recent)
	for i, entry := range recent {
		if entry.Text != history.Public[offset+i].Text {
			t.Fatalf("context entry %d = %s, not a suffix of public history", i, entry.Text)
		}
	}
}

func TestDirectMessagesStayOutOfContext(t *testing.T) {
	store := session.NewMemoryStore()

	store.RecordDirect("bot-1", meeting.Entry{Sender: "Carol", ParticipantID: "42", Text: "secret"})
	store.RecordPublic("bot-1", meeting.Entry{Sender: "Carol", Text: "hello"})

	recent := store.Context("bot-1")
	if len(recent) != 1 || recent[0].Text != "hello" {
		t.Fatalf("context should only hold public entries, got %v", recent)
	}

	history, ok := store.History("bot-1")
	if !ok {
		t.Fatal("expected history for bot-1")
	}
	if len(history.Direct) != 1 || history.Direct[0].ParticipantID != "42" {
		t.Fatalf("unexpected direct history: %v", history.Direct)
	}
}

func TestUnknownBotHasNoBuffers(t *testing.T) {
	store := session.NewMemoryStore()

	if recent := store.Context("missing"); len(recent) != 0 {
		t.Fatalf("expected empty context, got %v", recent)
	}
	if _, ok := store.History("missing"); ok {
		t.Fatal("expected no history for unknown bot")
	}
}

func TestPurgeReleasesBuffersAndIsIdempotent(t *testing.T) {
	store := session.NewMemoryStore()
	store.RecordPublic("bot-1", meeting.Entry{Sender: "Alice", Text: "hi"})

	store.Purge("bot-1")
	if _, ok := store.History("bot-1"); ok {
		t.Fatal("expected history gone after purge")
	}

	// Purging again (or an unknown key) is a no-op.
	store.Purge("bot-1")
	store.Purge("never-seen")
}

func TestEmptyBotIDIsIgnored(t *testing.T) {
	store := session.NewMemoryStore()

	store.RecordPublic("", meeting.Entry{Sender: "Alice", Text: "hi"})
	store.RecordDirect("", meeting.Entry{Sender: "Alice", Text: "hi"})

	if _, ok := store.History(""); ok {
		t.Fatal("expected no buffers for empty bot id")
	}
}
