package ecs

import (
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/brawler/ecs/component"
)

// World owns entities, their components, the per-tick event queue and the
// simulation context systems read from.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*sparseSet
	events   EventQueue
	sim      *Simulation
}

// NewWorld creates an empty world bound to sim. sim may be nil in tests that
// never touch time, bounds or randomness.
func NewWorld(sim *Simulation) *World {
	return &World{
		stores: make(map[component.ComponentID]*sparseSet),
		sim:    sim,
	}
}

// Simulation returns the context the world was created with.
func (w *World) Simulation() *Simulation {
	if w == nil {
		return nil
	}
	return w.sim
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// CreateEntity allocates a new entity.
func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and frees its slot. It reports
// false when e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e)
	}
	return w.entities.destroy(e)
}

// IsAlive reports whether e refers to a live entity.
func IsAlive(w *World, e Entity) bool {
	return w != nil && w.entities.isAlive(e)
}

// Entities returns every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return w.entities.live()
}

func (w *World) store(id component.ComponentID, create bool) *sparseSet {
	s, ok := w.stores[id]
	if !ok && create {
		s = &sparseSet{}
		w.stores[id] = s
	}
	return s
}

// Kinded is satisfied by every component.ComponentKind.
type Kinded interface {
	ID() component.ComponentID
}

// Query returns the live entities that carry all of the given kinds.
func (w *World) Query(kinds ...Kinded) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*sparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s == nil {
			return nil
		}
		sets = append(sets, s)
	}
	return intersect(w, sets...)
}

// First returns the first live entity carrying kind.
func (w *World) First(kind Kinded) (Entity, bool) {
	ents := w.Query(kind)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Census counts live components per registered name, skipping empty stores.
func (w *World) Census() map[string]int {
	out := map[string]int{}
	if w == nil {
		return out
	}
	for id, s := range w.stores {
		if n := s.len(); n > 0 {
			out[component.Name(id)] += n
		}
	}
	return out
}

// CensusString formats Census as "name=n" pairs in name order.
func (w *World) CensusString() string {
	census := w.Census()
	keys := make([]string, 0, len(census))
	for k := range census {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(census[k]))
	}
	return b.String()
}
