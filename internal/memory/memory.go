// Package memory stores thread-scoped long-term facts for the assistant:
// user preferences, profile details, decisions worth remembering across
// conversations. Each memory belongs to exactly one thread; a thread id is
// required to read or write, with an unnamed thread mapping to a default
// scope.
package memory

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultThread is the scope used when no thread id is supplied.
const DefaultThread = "default"

// ErrMemoryNotFound is returned when a memory id does not exist in a thread.
var ErrMemoryNotFound = errors.New("memory not found")

// Memory is one stored fact.
type Memory struct {
	ID         string    `json:"id"`
	ThreadID   string    `json:"thread_id"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags,omitempty"`
	Importance int       `json:"importance,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the thread-scoped memory collaborator.
type Store interface {
	// Save persists a new memory in the thread and returns it with its id.
	Save(ctx context.Context, threadID, content string, tags []string, importance int) (*Memory, error)

	// List returns up to limit memories for the thread, newest first.
	// limit <= 0 means no limit.
	List(ctx context.Context, threadID string, limit int) ([]Memory, error)

	// Search returns up to limit memories whose content or tags contain the
	// query, case-insensitively, newest first.
	Search(ctx context.Context, threadID, query string, limit int) ([]Memory, error)

	// Delete removes a memory by id.
	Delete(ctx context.Context, threadID, memoryID string) error
}

func normalizeThread(threadID string) string {
	if strings.TrimSpace(threadID) == "" {
		return DefaultThread
	}
	return threadID
}

// matchesQuery reports whether the memory's content or any tag contains the
// lowercased query.
func matchesQuery(m *Memory, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(m.Content), loweredQuery) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), loweredQuery) {
			return true
		}
	}
	return false
}

func clip(memories []Memory, limit int) []Memory {
	if limit > 0 && limit < len(memories) {
		return memories[:limit]
	}
	return memories
}
