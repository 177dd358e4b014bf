package db

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/banachtech/optionmc/convergence"

	"github.com/google/uuid"
)

type storedReport struct {
	info ReportInfo
	body []byte
}

// MemStore keeps everything in process memory.
type MemStore struct {
	mu      sync.RWMutex
	keys    map[string]APIKey
	reports map[uuid.UUID]storedReport
}

func NewMemStore() *MemStore {
	return &MemStore{
		keys:    map[string]APIKey{},
		reports: map[uuid.UUID]storedReport{},
	}
}

func (s *MemStore) CreateKey(_ context.Context, key APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key.Prefix]; ok {
		return fmt.Errorf("key prefix %s already registered", key.Prefix)
	}
	s.keys[key.Prefix] = key
	return nil
}

func (s *MemStore) GetKey(_ context.Context, prefix string) (APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[prefix]
	if !ok {
		return APIKey{}, fmt.Errorf("key %s: %w", prefix, ErrNotFound)
	}
	return key, nil
}

// SaveReport stores a JSON copy so later changes to rep are not visible.
func (s *MemStore) SaveReport(_ context.Context, rep *convergence.Report) error {
	body, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[rep.ID] = storedReport{
		info: ReportInfo{ID: rep.ID, Name: rep.Name, CreatedAt: time.Now().UTC()},
		body: body,
	}
	return nil
}

func (s *MemStore) GetReport(_ context.Context, id uuid.UUID) (*convergence.Report, error) {
	s.mu.RLock()
	r, ok := s.reports[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("report %s: %w", id, ErrNotFound)
	}
	var rep convergence.Report
	if err := json.Unmarshal(r.body, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// ListReports returns reports newest first.
func (s *MemStore) ListReports(_ context.Context) ([]ReportInfo, error) {
	s.mu.RLock()
	out := make([]ReportInfo, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r.info)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
