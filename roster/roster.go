// Package roster turns prefab specs into arenas: it loads the fighters, the
// arena layout and the bot tuning, and builds the entries and round
// factories a match runs on.
package roster

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/brawler/arena"
	"github.com/milk9111/brawler/ecs"
	"github.com/milk9111/brawler/policy"
	"github.com/milk9111/brawler/prefabs"
)

var ErrUnknownCharacter = errors.New("roster: unknown character")

// Pick is one side's choice of character and controller.
type Pick struct {
	ID        string
	Character string
	Kind      policy.Kind
}

func (p Pick) String() string {
	return fmt.Sprintf("%s(%s)", p.Character, p.Kind)
}

type Roster struct {
	Arena    *prefabs.ArenaSpec
	Params   policy.Params
	fighters map[string]*prefabs.FighterSpec
	names    []string
	log      *zap.Logger
}

// Load reads every fighter, the arena and the bot tuning. A broken fighter
// file fails the whole load so a hot reload never swaps in half a roster.
func Load(log *zap.Logger) (*Roster, error) {
	if log == nil {
		log = zap.NewNop()
	}
	arenaSpec, err := prefabs.LoadArenaSpec()
	if err != nil {
		return nil, err
	}
	params, err := prefabs.LoadPolicyParams()
	if err != nil {
		return nil, err
	}
	names, err := prefabs.Characters()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("roster: no fighters found")
	}

	r := &Roster{
		Arena:    arenaSpec,
		Params:   params,
		fighters: make(map[string]*prefabs.FighterSpec, len(names)),
		names:    names,
		log:      log,
	}
	for _, name := range names {
		spec, err := prefabs.LoadFighterSpec(name)
		if err != nil {
			return nil, err
		}
		r.fighters[name] = spec
	}
	r.Params.Script.Log = log
	log.Debug("roster loaded", zap.Strings("fighters", names))
	return r, nil
}

// Characters lists the fighter names in display order.
func (r *Roster) Characters() []string {
	return append([]string(nil), r.names...)
}

func (r *Roster) Fighter(name string) (*prefabs.FighterSpec, error) {
	spec, ok := r.fighters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharacter, name)
	}
	return spec, nil
}

// Entry builds the arena entry for p with a fresh policy. Policies keep
// per-round state, so every round gets new ones.
func (r *Roster) Entry(p Pick, rng *rand.Rand) (arena.Entry, error) {
	spec, err := r.Fighter(p.Character)
	if err != nil {
		return arena.Entry{}, err
	}
	pol, err := policy.New(p.Kind, r.Params, rng)
	if err != nil {
		return arena.Entry{}, err
	}
	id := p.ID
	if id == "" {
		id = p.Character
	}
	return arena.Entry{
		ID:         id,
		Character:  spec.Name,
		Kind:       p.Kind,
		Policy:     pol,
		Tunables:   spec.Tunables(),
		Silhouette: spec.BodySilhouette(),
	}, nil
}

// Simulation builds the playfield context from the arena spec.
func (r *Roster) Simulation(tickRate int, clock ecs.Clock, rng *rand.Rand) *ecs.Simulation {
	return ecs.NewSimulation(r.Arena.Bounds(), r.Arena.FloorY(), tickRate, clock, rng)
}

// Rules returns the match rules from the arena spec.
func (r *Roster) Rules() arena.Rules {
	return arena.Rules{RoundsToWin: r.Arena.RoundsToWin, MaxRounds: r.Arena.MaxRounds}
}

// Config lays out one round on sim with the arena's spawn points.
func (r *Roster) Config(sim *ecs.Simulation, round int, left, right arena.Entry) arena.Config {
	return arena.Config{
		Round:     round,
		RoundTime: r.Arena.RoundTime,
		LeftX:     sim.Bounds.L + r.Arena.LeftSpawnX,
		RightX:    sim.Bounds.R - r.Arena.RightSpawnInset,
		SpawnY:    sim.Bounds.T - r.Arena.SpawnOffset,
		Left:      left,
		Right:     right,
	}
}

// NewArena builds round n for the two picks.
func (r *Roster) NewArena(sim *ecs.Simulation, round int, left, right Pick) (*arena.Arena, error) {
	le, err := r.Entry(left, sim.Rand())
	if err != nil {
		return nil, fmt.Errorf("roster: left: %w", err)
	}
	re, err := r.Entry(right, sim.Rand())
	if err != nil {
		return nil, fmt.Errorf("roster: right: %w", err)
	}
	return arena.New(sim, r.Config(sim, round, le, re), r.log)
}

// Factory returns a round factory that reads the roster through get on
// every round, so a reloaded roster takes effect from the next round on.
func Factory(get func() *Roster, sim *ecs.Simulation, left, right Pick) arena.RoundFactory {
	return func(round int) (*arena.Arena, error) {
		return get().NewArena(sim, round, left, right)
	}
}

// WithRoundTime overrides the arena spec's round limit.
func (r *Roster) WithRoundTime(d time.Duration) *Roster {
	if d <= 0 {
		return r
	}
	cp := *r
	spec := *r.Arena
	spec.RoundTime = d
	cp.Arena = &spec
	return &cp
}
