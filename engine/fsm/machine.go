package fsm

import (
	"errors"
	"slices"
	"time"

	"github.com/lixenwraith/party-fever/event"
)

var ErrNotLoaded = errors.New("fsm: no config loaded")

// NewMachine returns an empty machine; register guards and actions before LoadConfig
func NewMachine[T any]() *Machine[T] {
	return &Machine[T]{
		leaf:      noState,
		initial:   noState,
		guards:    make(map[string]GuardFunc[T]),
		factories: make(map[string]GuardFactoryFunc[T]),
		actions:   make(map[string]ActionFunc[T]),
	}
}

func (m *Machine[T]) RegisterGuard(name string, fn GuardFunc[T]) { m.guards[name] = fn }

func (m *Machine[T]) RegisterGuardFactory(name string, fn GuardFactoryFunc[T]) {
	m.factories[name] = fn
}

func (m *Machine[T]) RegisterAction(name string, fn ActionFunc[T]) { m.actions[name] = fn }

// Init enters the initial state, root first
func (m *Machine[T]) Init(ctx T) error {
	if m.initial == noState {
		return ErrNotLoaded
	}
	m.moveTo(ctx, m.initial, 0)
	return nil
}

// Update adds dt to the time in state, runs the leaf's on_update actions and
// then evaluates Tick edges
func (m *Machine[T]) Update(ctx T, dt time.Duration) {
	if m.leaf == noState {
		return
	}
	m.elapsed += dt
	run(ctx, m.states[m.leaf].update)
	m.fire(ctx, event.EventTick)
}

// HandleEvent offers et to the active path, leaf first
// Returns true if a transition was taken
func (m *Machine[T]) HandleEvent(ctx T, et event.EventType) bool {
	if m.leaf == noState {
		return false
	}
	return m.fire(ctx, et)
}

func (m *Machine[T]) fire(ctx T, et event.EventType) bool {
	for id := m.leaf; id != noState; id = m.states[id].parent {
		for _, e := range m.states[id].edges {
			if e.trigger == et && (e.guard == nil || e.guard(ctx)) {
				if e.target != m.leaf {
					m.moveTo(ctx, e.target, m.sharedDepth(e.target))
				}
				return true
			}
		}
	}
	return false
}

// sharedDepth is the length of the common prefix of the active path and target's path
func (m *Machine[T]) sharedDepth(target int) int {
	to := m.states[target].path
	n := 0
	for n < len(m.path) && n < len(to) && m.path[n] == to[n] {
		n++
	}
	return n
}

// moveTo exits the active path below keep, commits target, then enters its
// path below keep; enter actions observe the new leaf
func (m *Machine[T]) moveTo(ctx T, target, keep int) {
	for i := len(m.path) - 1; i >= keep; i-- {
		run(ctx, m.states[m.path[i]].exit)
	}

	m.leaf = target
	m.elapsed = 0
	m.path = append(m.path[:0], m.states[target].path...)

	for _, id := range m.path[keep:] {
		run(ctx, m.states[id].enter)
	}
}

// Reset exits everything and re-enters the initial state
func (m *Machine[T]) Reset(ctx T) error {
	if m.initial == noState {
		return ErrNotLoaded
	}
	m.moveTo(ctx, m.initial, 0)
	return nil
}

// CurrentState is the active leaf's name, empty before Init
func (m *Machine[T]) CurrentState() string {
	if m.leaf == noState {
		return ""
	}
	return m.states[m.leaf].name
}

func (m *Machine[T]) TimeInState() time.Duration { return m.elapsed }

// InState reports whether name is the active leaf or one of its ancestors
func (m *Machine[T]) InState(name string) bool {
	id, ok := m.byName[name]
	return ok && slices.Contains(m.path, id)
}

func run[T any](ctx T, actions []Action[T]) {
	for _, a := range actions {
		a.Func(ctx, a.Args)
	}
}
