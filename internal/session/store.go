// Package session keeps per-meeting chat buffers in memory. State lives only
// for the duration of a meeting: buffers are created lazily on first write
// and released on purge when the bot leaves.
package session

import (
	"sync"

	"github.com/kurtniemi/kurtclone/internal/model/meeting"
)

// ContextLimit caps the rolling buffer used for contextual prompts.
const ContextLimit = 20

// Store exposes the chat buffer operations consumed by the webhook router
// and the exporter.
type Store interface {
	RecordPublic(botID string, entry meeting.Entry)
	RecordDirect(botID string, entry meeting.Entry)
	Context(botID string) []meeting.Entry
	History(botID string) (meeting.History, bool)
	Purge(botID string)
}

// MemoryStore implements Store with a mutex-guarded map keyed by bot id.
type MemoryStore struct {
	mu       sync.RWMutex
	meetings map[string]*buffers
}

type buffers struct {
	// recent is the rolling context window, always a suffix of public.
	recent []meeting.Entry
	public []meeting.Entry
	direct []meeting.Entry
}

// NewMemoryStore bootstraps an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{meetings: make(map[string]*buffers)}
}

// RecordPublic appends a public chat entry to both the rolling context
// buffer and the full history, evicting the oldest context entry past the
// limit.
func (s *MemoryStore) RecordPublic(botID string, entry meeting.Entry) {
	if botID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.buffersLocked(botID)
	b.public = append(b.public, entry)
	b.recent = append(b.recent, entry)
	if len(b.recent) > ContextLimit {
		b.recent = b.recent[len(b.recent)-ContextLimit:]
	}
}

// RecordDirect appends a direct-message entry to the full history. DMs never
// enter the rolling context buffer.
func (s *MemoryStore) RecordDirect(botID string, entry meeting.Entry) {
	if botID == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.buffersLocked(botID)
	b.direct = append(b.direct, entry)
}

// Context returns a snapshot of the rolling buffer in chronological order.
// Unknown bot ids yield an empty snapshot.
func (s *MemoryStore) Context(botID string) []meeting.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.meetings[botID]
	if !ok {
		return nil
	}

	copied := make([]meeting.Entry, len(b.recent))
	copy(copied, b.recent)
	return copied
}

// History returns a snapshot of the full public and DM buffers. The second
// return value is false when no buffers exist for the bot id.
func (s *MemoryStore) History(botID string) (meeting.History, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.meetings[botID]
	if !ok {
		return meeting.History{}, false
	}

	history := meeting.History{
		Public: make([]meeting.Entry, len(b.public)),
		Direct: make([]meeting.Entry, len(b.direct)),
	}
	copy(history.Public, b.public)
	copy(history.Direct, b.direct)
	return history, true
}

// Purge releases all buffers for a bot id. Purging an unknown id is a no-op.
func (s *MemoryStore) Purge(botID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.meetings, botID)
}

func (s *MemoryStore) buffersLocked(botID string) *buffers {
	b, ok := s.meetings[botID]
	if !ok {
		b = &buffers{}
		s.meetings[botID] = b
	}
	return b
}
