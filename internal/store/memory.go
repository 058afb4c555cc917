package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Memory is an in-process store for development and tests. Values are kept
// JSON-encoded so Get/Set round-trips behave exactly like the persistent
// drivers.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	log  zerolog.Logger
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string][]byte),
		log:  zerolog.Nop(),
	}
}

func (s *Memory) Get(ctx context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return decodeInto(raw, dst, key, s.log), nil
}

func (s *Memory) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *Memory) Close() error {
	return nil
}
