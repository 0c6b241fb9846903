package apikey

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xy-planning-network/checkpoint"
)

// A Credential is an API key issued to an owner.
type Credential struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Key       string    `json:"-" gorm:"uniqueIndex;not null"`
	Owner     string    `json:"owner" gorm:"not null"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName names the table Credentials are stored in.
func (Credential) TableName() string { return "api_credentials" }

// A Store looks up Credentials by key.
// Lookup returns an error wrapping checkpoint.ErrNotExist for unknown keys.
type Store interface {
	Lookup(ctx context.Context, key string) (Credential, error)
}

// A MemoryStore is a Store held in process.
type MemoryStore struct {
	mu    sync.RWMutex
	creds map[string]Credential
}

// NewMemoryStore constructs a MemoryStore holding creds.
func NewMemoryStore(creds ...Credential) *MemoryStore {
	s := &MemoryStore{creds: make(map[string]Credential, len(creds))}
	for _, c := range creds {
		s.creds[c.Key] = c
	}

	return s
}

// Put adds or replaces c.
func (s *MemoryStore) Put(c Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds[c.Key] = c
}

func (s *MemoryStore) Lookup(_ context.Context, key string) (Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.creds[key]
	if !ok {
		return Credential{}, fmt.Errorf("%w: api key", checkpoint.ErrNotExist)
	}

	return c, nil
}
