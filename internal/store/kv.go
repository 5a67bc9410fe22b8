// Package store persists the application's JSON documents under a small set of
// well-known keys, over interchangeable byte-level backends.
package store

import (
	"context"
	"slices"
	"sync"
)

const (
	KeyCurrentUser = "currentUser"
	KeyUsers       = "users"
	KeyChallenges  = "challenges"
	KeyQuestions   = "questions"
	KeyAnswers     = "answers"
)

// AllKeys lists every key the application writes.
var AllKeys = []string{KeyCurrentUser, KeyUsers, KeyChallenges, KeyQuestions, KeyAnswers}

// KV is a namespaced byte store. Get reports found=false for absent keys.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = slices.Clone(value)
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.data)
	return nil
}
