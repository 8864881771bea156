package arena

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/milk9111/brawler/ecs/component"
	"github.com/milk9111/brawler/policy"
	"github.com/milk9111/brawler/stats"
)

const (
	DefaultRoundsToWin = 2
	DefaultMaxRounds   = 9
)

var ErrNoFactory = errors.New("arena: round factory is nil")

// Rules bound a match. MaxRounds stops a run of drawn rounds from going on
// forever; the higher score then wins, equal scores are a draw.
type Rules struct {
	RoundsToWin int
	MaxRounds   int
}

func DefaultRules() Rules {
	return Rules{RoundsToWin: DefaultRoundsToWin, MaxRounds: DefaultMaxRounds}
}

// RoundFactory builds a fresh arena for the given 1-based round number.
type RoundFactory func(round int) (*Arena, error)

// Inputs carries both sides' button snapshots for one tick.
type Inputs struct {
	Left  policy.Buttons
	Right policy.Buttons
}

// State is where the match stands after a Step.
type State int

const (
	StateRoundInProgress State = iota
	StateRoundEnded
	StateMatchEnded
)

func (s State) String() string {
	switch s {
	case StateRoundEnded:
		return "round_ended"
	case StateMatchEnded:
		return "match_ended"
	default:
		return "round_in_progress"
	}
}

// Result is the final verdict of a match.
type Result struct {
	ID       uuid.UUID
	Winner   Winner
	Score    [2]int
	Rounds   []Outcome
	WinnerID string
	LoserID  string
}

// Match plays rounds until one side reaches the win threshold.
type Match struct {
	id      uuid.UUID
	rules   Rules
	factory RoundFactory
	rec     stats.Recorder
	log     *zap.Logger

	arena  *Arena
	ids    [2]string
	score  [2]int
	rounds []Outcome
	result Result
	done   bool
}

// NewMatch starts round one. rec may be nil when results are not kept.
func NewMatch(factory RoundFactory, rules Rules, rec stats.Recorder, log *zap.Logger) (*Match, error) {
	if factory == nil {
		return nil, ErrNoFactory
	}
	if rules.RoundsToWin <= 0 {
		rules.RoundsToWin = DefaultRoundsToWin
	}
	if rules.MaxRounds <= 0 {
		rules.MaxRounds = DefaultMaxRounds
	}
	if log == nil {
		log = zap.NewNop()
	}

	id := uuid.New()
	m := &Match{
		id:      id,
		rules:   rules,
		factory: factory,
		rec:     rec,
		log:     log.With(zap.String("match", id.String())),
	}
	if err := m.startRound(1); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Match) startRound(n int) error {
	a, err := m.factory(n)
	if err != nil {
		return fmt.Errorf("arena: start round %d: %w", n, err)
	}
	m.arena = a
	for _, side := range []component.Side{component.SideLeft, component.SideRight} {
		if f := a.Fighter(side); f != nil {
			m.ids[side] = f.ID
		}
	}
	m.log.Debug("round started", zap.Int("round", n))
	return nil
}

// Step advances the current round by one tick and handles round and match
// transitions.
func (m *Match) Step(in Inputs) (State, error) {
	if m.done {
		return StateMatchEnded, nil
	}

	o, over := m.arena.Step(in.Left, in.Right)
	if !over {
		return StateRoundInProgress, nil
	}

	m.rounds = append(m.rounds, o)
	if side, ok := o.Winner.Side(); ok {
		m.score[side]++
	}
	m.log.Info("round scored",
		zap.Int("round", o.Round),
		zap.Stringer("winner", o.Winner),
		zap.Int("left", m.score[component.SideLeft]),
		zap.Int("right", m.score[component.SideRight]))

	if m.score[component.SideLeft] >= m.rules.RoundsToWin ||
		m.score[component.SideRight] >= m.rules.RoundsToWin ||
		len(m.rounds) >= m.rules.MaxRounds {
		m.finish()
		return StateMatchEnded, nil
	}

	if err := m.startRound(len(m.rounds) + 1); err != nil {
		return StateRoundEnded, err
	}
	return StateRoundEnded, nil
}

func (m *Match) finish() {
	left, right := m.score[component.SideLeft], m.score[component.SideRight]
	r := Result{
		ID:     m.id,
		Score:  m.score,
		Rounds: append([]Outcome(nil), m.rounds...),
	}
	switch {
	case left > right:
		r.Winner = WinnerLeft
		r.WinnerID, r.LoserID = m.ids[component.SideLeft], m.ids[component.SideRight]
	case right > left:
		r.Winner = WinnerRight
		r.WinnerID, r.LoserID = m.ids[component.SideRight], m.ids[component.SideLeft]
	default:
		r.Winner = WinnerDraw
	}
	m.result, m.done = r, true

	m.log.Info("match over",
		zap.Stringer("winner", r.Winner),
		zap.Int("left", left),
		zap.Int("right", right),
		zap.Int("rounds", len(r.Rounds)))

	if m.rec == nil || r.Winner == WinnerDraw {
		return
	}
	if err := m.rec.RecordResult(context.Background(), r.WinnerID, r.LoserID); err != nil {
		m.log.Warn("record result failed", zap.Error(err))
	}
}

// Run steps the match on every tick until it ends or ctx is cancelled. A
// nil tick channel runs as fast as possible. input may be nil for bot-only
// matches.
func (m *Match) Run(ctx context.Context, input func() Inputs, tick <-chan time.Time) (Result, error) {
	for {
		if tick != nil {
			select {
			case <-ctx.Done():
				return m.result, ctx.Err()
			case <-tick:
			}
		} else if err := ctx.Err(); err != nil {
			return m.result, err
		}

		var in Inputs
		if input != nil {
			in = input()
		}
		st, err := m.Step(in)
		if err != nil {
			return m.result, err
		}
		if st == StateMatchEnded {
			return m.result, nil
		}
	}
}

func (m *Match) ID() uuid.UUID { return m.id }

// Arena is the round currently being played, or the last one once the
// match is over.
func (m *Match) Arena() *Arena { return m.arena }

func (m *Match) Score() [2]int { return m.score }

// Rounds lists the outcomes of finished rounds.
func (m *Match) Rounds() []Outcome { return m.rounds }

// Result returns the verdict once the match has ended.
func (m *Match) Result() (Result, bool) { return m.result, m.done }
