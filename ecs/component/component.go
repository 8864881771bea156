package component

import (
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

type ComponentID uint32

var (
	nextComponentID atomic.Uint32

	namesMu sync.RWMutex
	names   = map[ComponentID]string{}
)

// ComponentKind is the typed key a component of type T is stored under.
type ComponentKind[T any] struct {
	id ComponentID
}

// NewComponentKind allocates an anonymous kind. Tests use it to get fresh
// stores that never collide with the registered handles.
func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: ComponentID(nextComponentID.Add(1))}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

// ComponentHandle is the package-level registration of a component type.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
	name string
}

// NewComponent registers a kind under name, which shows up in debug census
// output. Names are not required to be unique.
func NewComponent[T any](name string) ComponentHandle[T] {
	kind := NewComponentKind[T]()
	namesMu.Lock()
	names[kind.id] = name
	namesMu.Unlock()
	return ComponentHandle[T]{kind: kind, name: name}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

func (h ComponentHandle[T]) Name() string {
	return h.name
}

// Name returns the registered name of id, or "#id" for anonymous kinds.
func Name(id ComponentID) string {
	namesMu.RLock()
	name, ok := names[id]
	namesMu.RUnlock()
	if ok && name != "" {
		return name
	}
	return "#" + strconv.FormatUint(uint64(id), 10)
}
