package credstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store for tests and examples. Rows are keyed
// by (role, email) with email unique per role, matching the platform's
// per-role table constraint.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Role]map[string]*Record
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	records := make(map[Role]map[string]*Record, len(Roles))
	for _, role := range Roles {
		records[role] = make(map[string]*Record)
	}
	return &MemoryStore{records: records}
}

// Seed inserts a record, assigning a fresh ID when none is set. Returns the
// stored copy.
func (s *MemoryStore) Seed(role Role, rec Record) (*Record, error) {
	if !role.Valid() {
		return nil, ErrUnknownRole
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[role][normalizeEmail(rec.Email)] = &rec

	stored := rec
	return &stored, nil
}

// Lookup fetches the credential record for (role, email).
func (s *MemoryStore) Lookup(_ context.Context, role Role, email string) (*Record, error) {
	if !role.Valid() {
		return nil, ErrUnknownRole
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[role][normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *rec
	return &copied, nil
}

// UpdatePasswordHash replaces the stored hash for (role, email).
func (s *MemoryStore) UpdatePasswordHash(_ context.Context, role Role, email, passwordHash string) error {
	if !role.Valid() {
		return ErrUnknownRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[role][normalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	rec.PasswordHash = passwordHash

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
