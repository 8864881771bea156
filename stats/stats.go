// Package stats persists win/loss records at the end of a match.
package stats

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrInvalidPlayer = errors.New("stats: invalid player id")
	ErrClosed        = errors.New("stats: recorder closed")
)

// Recorder receives one call per finished match with a winner.
type Recorder interface {
	RecordResult(ctx context.Context, winnerID, loserID string) error
}

// Record is a player's running tally.
type Record struct {
	PlayerID string
	Wins     int
	Losses   int
}

func validatePair(winnerID, loserID string) error {
	if winnerID == "" || loserID == "" || winnerID == loserID {
		return ErrInvalidPlayer
	}
	return nil
}

// Nop discards every result.
type Nop struct{}

func (Nop) RecordResult(ctx context.Context, winnerID, loserID string) error { return nil }

// MemoryStore keeps records in process. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (m *MemoryStore) RecordResult(ctx context.Context, winnerID, loserID string) error {
	if err := validatePair(winnerID, loserID); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.get(winnerID).Wins++
	m.get(loserID).Losses++
	return nil
}

// Stats returns the tally for id; unknown players have an empty record.
func (m *MemoryStore) Stats(id string) Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[id]; ok {
		return *r
	}
	return Record{PlayerID: id}
}

func (m *MemoryStore) get(id string) *Record {
	r, ok := m.records[id]
	if !ok {
		r = &Record{PlayerID: id}
		m.records[id] = r
	}
	return r
}
