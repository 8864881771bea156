package stats

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryStoreRecordResult(t *testing.T) {
	cases := []struct {
		name   string
		winner string
		loser  string
		err    error
	}{
		{"ok", "alice", "bob", nil},
		{"empty_winner", "", "bob", ErrInvalidPlayer},
		{"self", "bob", "bob", ErrInvalidPlayer},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			m := NewMemoryStore()
			err := m.RecordResult(context.Background(), c.winner, c.loser)
			if c.err != nil {
				require.ErrorIs(t, err, c.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, Record{PlayerID: "alice", Wins: 1}, m.Stats("alice"))
			assert.Equal(t, Record{PlayerID: "bob", Losses: 1}, m.Stats("bob"))
		})
	}
}

func TestMemoryStoreCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemoryStore().RecordResult(ctx, "alice", "bob")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAsyncDelivers(t *testing.T) {
	m := NewMemoryStore()
	a := NewAsync(m, zap.NewNop())

	require.NoError(t, a.RecordResult(context.Background(), "alice", "bob"))
	require.NoError(t, a.RecordResult(context.Background(), "alice", "carol"))
	a.Close()

	assert.Equal(t, 2, m.Stats("alice").Wins)
	assert.Equal(t, 1, m.Stats("carol").Losses)
	assert.ErrorIs(t, a.RecordResult(context.Background(), "alice", "bob"), ErrClosed)
}

type failingRecorder struct{ calls atomic.Int32 }

func (f *failingRecorder) RecordResult(ctx context.Context, winnerID, loserID string) error {
	f.calls.Add(1)
	return errors.New("database is down")
}

func TestAsyncSwallowsFailures(t *testing.T) {
	f := &failingRecorder{}
	a := NewAsync(f, nil)

	assert.NoError(t, a.RecordResult(context.Background(), "alice", "bob"))
	a.Close()
	a.Close()

	assert.EqualValues(t, 1, f.calls.Load())
}

func TestUpsertSQL(t *testing.T) {
	q := upsertSQL("wins")
	assert.True(t, strings.HasPrefix(q, "INSERT INTO player_stats (player_id, wins) VALUES ($1, 1)"))
	assert.Contains(t, q, "SET wins = player_stats.wins + 1")
	assert.NotContains(t, q, "losses")
}

type closingRecorder struct {
	Nop
	closed int
}

func (c *closingRecorder) Close() { c.closed++ }

func TestAsyncClosesWrappedStoreOnce(t *testing.T) {
	inner := &closingRecorder{}
	a := NewAsync(inner, zap.NewNop())

	a.Close()
	a.Close()

	assert.Equal(t, 1, inner.closed)
}
