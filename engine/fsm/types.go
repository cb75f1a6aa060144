// Package fsm is a hierarchical state machine loaded from TOML
// Events bubble from the active leaf to the root; transitions exit and enter
// through the lowest common ancestor
package fsm

import (
	"time"

	"github.com/lixenwraith/party-fever/event"
)

const noState = -1

// Machine runs over a context value T handed to every guard and action
// The graph is fixed by LoadConfig; only the active path changes afterwards
type Machine[T any] struct {
	states  []*state[T] // index is the state id, 0 is the implicit root
	byName  map[string]int
	initial int

	leaf    int
	path    []int // root first
	elapsed time.Duration

	guards    map[string]GuardFunc[T]
	factories map[string]GuardFactoryFunc[T]
	actions   map[string]ActionFunc[T]
}

type state[T any] struct {
	name   string
	parent int
	path   []int // root..self

	enter  []Action[T]
	update []Action[T]
	exit   []Action[T]
	edges  []edge[T] // evaluation order is config order
}

type edge[T any] struct {
	trigger event.EventType // EventTick for timed edges
	target  int
	guard   GuardFunc[T] // nil passes
}

// Action is a registered function bound to its compiled config arguments
type Action[T any] struct {
	Func ActionFunc[T]
	Args any
}

type (
	GuardFunc[T any]  func(ctx T) bool
	ActionFunc[T any] func(ctx T, args any)

	// GuardFactoryFunc builds a guard from guard_args, e.g. StateTimeExceeds
	GuardFactoryFunc[T any] func(m *Machine[T], args map[string]any) (GuardFunc[T], error)
)

// EmitEventArgs is passed to the EmitEvent action
type EmitEventArgs struct {
	Type event.EventType
}

// ShowScreenArgs is passed to the ShowScreen action
type ShowScreenArgs struct {
	Screen string
}
