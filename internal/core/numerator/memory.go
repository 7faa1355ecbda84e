package numerator

import (
	"context"
	"sync"
	"time"

	"ledgerpos/internal/core/id"
)

// Memory is an in-process Generator. Use in unit tests to avoid database dependencies.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory creates an empty in-memory generator.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

// Next implements Generator.
func (m *Memory) Next(_ context.Context, companyID id.ID, cfg Config, period time.Time) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := companyID.String() + ":" + cfg.Key(period)
	m.counters[key]++
	return cfg.Format(period, m.counters[key]), nil
}

var _ Generator = (*Memory)(nil)
