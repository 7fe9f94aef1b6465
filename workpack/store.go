// Package workpack keeps maintenance work packs and runs their reviews.
package workpack

import (
	"aviation-ops/errors"
	"aviation-ops/models"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Draft is the input for a new work pack. Each task line becomes one task.
type Draft struct {
	Title        string   `yaml:"title"`
	Description  string   `yaml:"description"`
	AircraftType string   `yaml:"aircraft_type"`
	CreatedBy    string   `yaml:"created_by"`
	Tasks        []string `yaml:"tasks"`
}

// file is the YAML layout of a work-pack file.
type file struct {
	WorkPacks []models.WorkPack `yaml:"work_packs"`
}

// Store holds work packs newest first.
type Store struct {
	mu     sync.RWMutex
	packs  []models.WorkPack
	now    func() time.Time
	logger *zap.Logger
}

type Option func(*Store)

// WithClock replaces time.Now for ids and creation dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

func NewStore(opts ...Option) *Store {
	s := &Store{now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the store contents with the packs in a YAML file. Packs
// without an id get a random one, tasks without an id are numbered, and a
// missing status means Pending Review.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read work packs: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse work packs: %w", err)
	}

	for i := range f.WorkPacks {
		wp := &f.WorkPacks[i]
		if wp.ID == "" {
			wp.ID = "WP-" + uuid.NewString()
		}
		if wp.Status == "" {
			wp.Status = models.StatusPendingReview
		}
		status, err := ParseStatus(string(wp.Status))
		if err != nil {
			return fmt.Errorf("work pack %s: %w", wp.ID, err)
		}
		wp.Status = status
		if wp.Tasks == nil {
			wp.Tasks = []models.WorkPackTask{}
		}
		for j := range wp.Tasks {
			if wp.Tasks[j].ID == "" {
				wp.Tasks[j].ID = taskID(j)
			}
		}
	}

	s.mu.Lock()
	s.packs = f.WorkPacks
	s.mu.Unlock()

	s.logger.Debug("Loaded work packs", zap.String("path", path), zap.Int("count", len(f.WorkPacks)))
	return nil
}

// Save writes the store contents as YAML.
func (s *Store) Save(path string) error {
	s.mu.RLock()
	data, err := yaml.Marshal(file{WorkPacks: s.packs})
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal work packs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write work packs: %w", err)
	}
	return nil
}

// Add creates a pending work pack from a draft and puts it first. Its id is
// WP-<year>-<NNN> where NNN is one more than the number of packs held.
func (s *Store) Add(d Draft) (models.WorkPack, error) {
	if strings.TrimSpace(d.Title) == "" {
		return models.WorkPack{}, fmt.Errorf("work pack title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	wp := models.WorkPack{
		ID:           s.nextID(now.Year()),
		Title:        strings.TrimSpace(d.Title),
		Description:  d.Description,
		AircraftType: d.AircraftType,
		CreatedBy:    d.CreatedBy,
		DateCreated:  now.UTC().Format(time.RFC3339),
		Status:       models.StatusPendingReview,
		Tasks:        make([]models.WorkPackTask, 0, len(d.Tasks)),
	}
	for _, line := range d.Tasks {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		wp.Tasks = append(wp.Tasks, models.WorkPackTask{ID: taskID(len(wp.Tasks)), Description: line})
	}

	s.packs = append([]models.WorkPack{wp}, s.packs...)
	s.logger.Info("Added work pack", zap.String("id", wp.ID), zap.Int("tasks", len(wp.Tasks)))
	return wp, nil
}

// nextID skips numbers already taken by loaded packs.
func (s *Store) nextID(year int) string {
	taken := make(map[string]bool, len(s.packs))
	for _, wp := range s.packs {
		taken[wp.ID] = true
	}
	for n := len(s.packs) + 1; ; n++ {
		id := fmt.Sprintf("WP-%d-%03d", year, n)
		if !taken[id] {
			return id
		}
	}
}

func taskID(index int) string {
	return fmt.Sprintf("t-%03d", index+1)
}

// Get returns the pack with the given id.
func (s *Store) Get(id string) (models.WorkPack, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, wp := range s.packs {
		if wp.ID == id {
			return wp, nil
		}
	}
	return models.WorkPack{}, fmt.Errorf("%w: %s", errors.ErrWorkPackNotFound, id)
}

// List returns a copy of all packs, newest first.
func (s *Store) List() []models.WorkPack {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WorkPack, len(s.packs))
	copy(out, s.packs)
	return out
}

// SetStatus approves or rejects a pack.
func (s *Store) SetStatus(id string, status models.WorkPackStatus) (models.WorkPack, error) {
	if status != models.StatusApproved && status != models.StatusRejected {
		return models.WorkPack{}, fmt.Errorf("%w: %q", errors.ErrInvalidStatus, status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.packs {
		if s.packs[i].ID == id {
			s.packs[i].Status = status
			s.logger.Info("Updated work pack status", zap.String("id", id), zap.String("status", string(status)))
			return s.packs[i], nil
		}
	}
	return models.WorkPack{}, fmt.Errorf("%w: %s", errors.ErrWorkPackNotFound, id)
}

// ParseStatus resolves a status name case-insensitively. "approve" and
// "reject" are accepted as shorthands.
func ParseStatus(s string) (models.WorkPackStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending review", "pending":
		return models.StatusPendingReview, nil
	case "approved", "approve":
		return models.StatusApproved, nil
	case "rejected", "reject":
		return models.StatusRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidStatus, s)
	}
}
