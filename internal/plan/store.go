package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrPlanNotFound is returned when a plan file does not exist.
var ErrPlanNotFound = errors.New("plan not found")

// ErrTaskNotFound is returned when a task id does not match any task.
var ErrTaskNotFound = errors.New("task not found")

// ErrInvalidLocation is returned when a storage location contains unsafe
// path components.
var ErrInvalidLocation = errors.New("invalid plan location")

// Store persists plans as one JSON file per plan under a base directory.
// File names embed the plan date and save time: plan_<date>_<HHMMSS>.json.
// Concurrent writers to the same file are not coordinated (last-writer-wins);
// an accepted risk for a single-user assistant.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// Summary describes one persisted plan for listings.
type Summary struct {
	Date      string
	TaskCount int
	CreatedAt string
	Location  string
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used to stamp file names, created_at
// and current_time on save.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates a plan store rooted at dir, creating it if needed.
// If dir is empty, "plans" under the working directory is used.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		dir = "plans"
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create plans directory: %w", err)
	}
	s := &Store{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the base directory of the store.
func (s *Store) Dir() string { return s.dir }

// resolve maps a storage location to a path inside the store. Bare file
// names are joined with the base directory; anything that climbs out of it
// is rejected.
func (s *Store) resolve(location string) (string, error) {
	name := filepath.Base(location)
	if name == "" || name == "." || strings.Contains(name, "..") {
		return "", ErrInvalidLocation
	}
	return filepath.Join(s.dir, name), nil
}

// Save writes the plan to a new file and returns its storage location.
// Missing totals are computed from the task list; totals already present
// and non-zero are preserved. Creation timestamps are stamped when absent.
func (s *Store) Save(p *Plan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p.FillTotals()
	if p.CreatedAt == "" {
		p.CreatedAt = now.Format(time.RFC3339)
	}
	if p.CurrentTime == "" {
		p.CurrentTime = now.Format("15:04")
	}

	name := fmt.Sprintf("plan_%s_%s.json", p.Date, now.Format("150405"))
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("write plan: %w", err)
	}
	return path, nil
}

// Load reads a plan from its storage location.
func (s *Store) Load(location string) (*Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(location)
}

func (s *Store) loadLocked(location string) (*Plan, error) {
	path, err := s.resolve(location)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 - location resolved to base name inside store dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("read plan: %w", err)
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan: %w", err)
	}
	return &p, nil
}

// List returns summaries of every persisted plan, newest first.
// Unreadable files are skipped rather than failing the whole listing.
func (s *Store) List() ([]Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.planFiles()
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	var out []Summary
	for _, name := range names {
		p, err := s.loadLocked(name)
		if err != nil {
			continue
		}
		total := p.TotalTasks
		if total == 0 {
			total = len(p.Tasks)
		}
		created := p.CreatedAt
		if len(created) > 19 {
			created = created[:19]
		}
		if created == "" {
			created = "Unknown"
		}
		out = append(out, Summary{
			Date:      valueOr(p.Date, "Unknown"),
			TaskCount: total,
			CreatedAt: created,
			Location:  filepath.Join(s.dir, name),
		})
	}
	return out, nil
}

// Latest returns the most recently written plan that is not a smoke-test or
// demo plan, together with its location. A nil plan with nil error means no
// eligible plan exists.
func (s *Store) Latest() (*Plan, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names, err := s.planFiles()
	if err != nil {
		return nil, "", err
	}

	type candidate struct {
		name string
		mod  time.Time
	}
	var cands []candidate
	for _, name := range names {
		info, err := os.Stat(filepath.Join(s.dir, name))
		if err != nil {
			continue
		}
		cands = append(cands, candidate{name, info.ModTime()})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].mod.After(cands[j].mod) })

	for _, c := range cands {
		p, err := s.loadLocked(c.name)
		if err != nil || p.IsSample() {
			continue
		}
		return p, filepath.Join(s.dir, c.name), nil
	}
	return nil, "", nil
}

// UpdateTask sets the status of the first task matching taskID in the plan at
// location, rewriting the file in place. The file is left untouched when the
// id is not found.
func (s *Store) UpdateTask(location, taskID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.loadLocked(location)
	if err != nil {
		return err
	}

	task, ok := p.TaskByID(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	task.Status = status

	return s.writeLocked(location, p)
}

// RescheduleTask sets the scheduled time (HH:MM) of the first task matching
// taskID in the plan at location.
func (s *Store) RescheduleTask(location, taskID, hhmm string) error {
	if !ValidTimeFormat(hhmm) {
		return fmt.Errorf("invalid time %q: expected HH:MM", hhmm)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.loadLocked(location)
	if err != nil {
		return err
	}

	task, ok := p.TaskByID(taskID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	task.ScheduledTime = hhmm

	return s.writeLocked(location, p)
}

func (s *Store) writeLocked(location string, p *Plan) error {
	path, err := s.resolve(location)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write plan: %w", err)
	}
	return nil
}

func (s *Store) planFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read plans directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, "plan_") || !strings.HasSuffix(name, ".json") {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}
