package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidThreadID is returned when a thread id contains unsafe path
// characters.
var ErrInvalidThreadID = errors.New("invalid thread id: contains path separator or traversal sequence")

// FileStore implements Store with one JSON file per thread:
//
//	<baseDir>/<thread-id>.json    # array of memories, append order
type FileStore struct {
	baseDir string
	mu      sync.Mutex
	now     func() time.Time
}

// NewFileStore creates a file-backed memory store rooted at baseDir,
// creating the directory if needed. If baseDir is empty, "memories" under
// the working directory is used.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		baseDir = "memories"
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create memories directory: %w", err)
	}
	return &FileStore{baseDir: baseDir, now: time.Now}, nil
}

func (f *FileStore) threadPath(threadID string) (string, error) {
	if strings.ContainsAny(threadID, `/\`) || strings.Contains(threadID, "..") {
		return "", ErrInvalidThreadID
	}
	return filepath.Join(f.baseDir, threadID+".json"), nil
}

func (f *FileStore) readThread(threadID string) ([]Memory, string, error) {
	path, err := f.threadPath(threadID)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(path) // #nosec G304 - thread id validated against traversal
	if err != nil {
		if os.IsNotExist(err) {
			return nil, path, nil
		}
		return nil, "", fmt.Errorf("read thread memories: %w", err)
	}

	var memories []Memory
	if err := json.Unmarshal(data, &memories); err != nil {
		return nil, "", fmt.Errorf("parse thread memories: %w", err)
	}
	return memories, path, nil
}

func writeThread(path string, memories []Memory) error {
	data, err := json.MarshalIndent(memories, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal thread memories: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write thread memories: %w", err)
	}
	return nil
}

// Save implements Store.
func (f *FileStore) Save(ctx context.Context, threadID, content string, tags []string, importance int) (*Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	threadID = normalizeThread(threadID)
	memories, path, err := f.readThread(threadID)
	if err != nil {
		return nil, err
	}

	mem := Memory{
		ID:         uuid.NewString(),
		ThreadID:   threadID,
		Content:    content,
		Tags:       tags,
		Importance: importance,
		CreatedAt:  f.now(),
	}
	memories = append(memories, mem)

	if err := writeThread(path, memories); err != nil {
		return nil, err
	}
	return &mem, nil
}

// List implements Store.
func (f *FileStore) List(ctx context.Context, threadID string, limit int) ([]Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	memories, _, err := f.readThread(normalizeThread(threadID))
	if err != nil {
		return nil, err
	}

	sort.Slice(memories, func(i, j int) bool {
		return memories[i].CreatedAt.After(memories[j].CreatedAt)
	})
	return clip(memories, limit), nil
}

// Search implements Store.
func (f *FileStore) Search(ctx context.Context, threadID, query string, limit int) ([]Memory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	memories, _, err := f.readThread(normalizeThread(threadID))
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	var matched []Memory
	for i := range memories {
		if matchesQuery(&memories[i], lowered) {
			matched = append(matched, memories[i])
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return clip(matched, limit), nil
}

// Delete implements Store.
func (f *FileStore) Delete(ctx context.Context, threadID, memoryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	memories, path, err := f.readThread(normalizeThread(threadID))
	if err != nil {
		return err
	}

	kept := memories[:0]
	found := false
	for _, m := range memories {
		if m.ID == memoryID {
			found = true
			continue
		}
		kept = append(kept, m)
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrMemoryNotFound, memoryID)
	}

	return writeThread(path, kept)
}
