package fsm

import (
	"fmt"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/party-fever/event"
)

const rootName = "Root"

// document mirrors the TOML layout
type document struct {
	Initial string              `toml:"initial"`
	States  map[string]stateDoc `toml:"states"`
}

type stateDoc struct {
	Parent      string      `toml:"parent"`
	OnEnter     []actionDoc `toml:"on_enter"`
	OnUpdate    []actionDoc `toml:"on_update"`
	OnExit      []actionDoc `toml:"on_exit"`
	Transitions []edgeDoc   `toml:"transitions"`
}

type edgeDoc struct {
	Trigger   string         `toml:"trigger"` // event name or "Tick"
	Target    string         `toml:"target"`
	Guard     string         `toml:"guard"`
	GuardArgs map[string]any `toml:"guard_args"`
}

type actionDoc struct {
	Action string `toml:"action"`
	Event  string `toml:"event"`  // EmitEvent
	Screen string `toml:"screen"` // ShowScreen
}

// LoadConfig replaces the graph with the one described by data
// Every state, event, guard and action name must resolve
func (m *Machine[T]) LoadConfig(data []byte) error {
	var doc document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return fmt.Errorf("fsm config: %w", err)
	}

	// Sorted so ids are stable across loads
	names := make([]string, 0, len(doc.States)+1)
	for name := range doc.States {
		if name != rootName {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	names = slices.Insert(names, 0, rootName)

	states := make([]*state[T], len(names))
	byName := make(map[string]int, len(names))
	for id, name := range names {
		byName[name] = id
		states[id] = &state[T]{name: name, parent: noState}
	}

	for id, name := range names[1:] {
		parent := doc.States[name].Parent
		if parent == "" {
			parent = rootName
		}
		pid, ok := byName[parent]
		if !ok {
			return fmt.Errorf("state %q: unknown parent %q", name, parent)
		}
		states[id+1].parent = pid
	}
	if err := linkPaths(states); err != nil {
		return err
	}

	for id, name := range names {
		sd := doc.States[name]
		s := states[id]
		var err error
		if s.enter, err = m.bindActions(sd.OnEnter); err != nil {
			return fmt.Errorf("state %q on_enter: %w", name, err)
		}
		if s.update, err = m.bindActions(sd.OnUpdate); err != nil {
			return fmt.Errorf("state %q on_update: %w", name, err)
		}
		if s.exit, err = m.bindActions(sd.OnExit); err != nil {
			return fmt.Errorf("state %q on_exit: %w", name, err)
		}
		for _, ed := range sd.Transitions {
			e, err := m.bindEdge(ed, byName)
			if err != nil {
				return fmt.Errorf("state %q: %w", name, err)
			}
			s.edges = append(s.edges, e)
		}
	}

	initial, ok := byName[doc.Initial]
	if !ok || initial == 0 {
		return fmt.Errorf("initial state %q not found", doc.Initial)
	}

	m.states = states
	m.byName = byName
	m.initial = initial
	m.leaf = noState
	m.path = m.path[:0]
	m.elapsed = 0
	return nil
}

// linkPaths fills each state's root-first ancestry, rejecting parent cycles
func linkPaths[T any](states []*state[T]) error {
	states[0].path = []int{0}
	var resolve func(id int, depth int) ([]int, error)
	resolve = func(id int, depth int) ([]int, error) {
		s := states[id]
		if s.path != nil {
			return s.path, nil
		}
		if depth > len(states) {
			return nil, fmt.Errorf("state %q: parent cycle", s.name)
		}
		up, err := resolve(s.parent, depth+1)
		if err != nil {
			return nil, err
		}
		s.path = append(slices.Clip(up), id)
		return s.path, nil
	}
	for id := range states {
		if _, err := resolve(id, 0); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine[T]) bindActions(docs []actionDoc) ([]Action[T], error) {
	out := make([]Action[T], 0, len(docs))
	for _, d := range docs {
		fn, ok := m.actions[d.Action]
		if !ok {
			return nil, fmt.Errorf("unknown action %q", d.Action)
		}

		var args any
		switch d.Action {
		case "EmitEvent":
			et, ok := event.GetEventType(d.Event)
			if !ok || et == event.EventTick {
				return nil, fmt.Errorf("EmitEvent: unknown event %q", d.Event)
			}
			args = &EmitEventArgs{Type: et}
		case "ShowScreen":
			if d.Screen == "" {
				return nil, fmt.Errorf("ShowScreen: missing screen")
			}
			args = &ShowScreenArgs{Screen: d.Screen}
		}
		out = append(out, Action[T]{Func: fn, Args: args})
	}
	return out, nil
}

func (m *Machine[T]) bindEdge(d edgeDoc, byName map[string]int) (edge[T], error) {
	target, ok := byName[d.Target]
	if !ok || target == 0 {
		return edge[T]{}, fmt.Errorf("unknown target %q", d.Target)
	}
	et, ok := event.GetEventType(d.Trigger)
	if !ok {
		return edge[T]{}, fmt.Errorf("unknown trigger %q", d.Trigger)
	}

	e := edge[T]{trigger: et, target: target}
	if d.Guard == "" {
		return e, nil
	}
	if factory, ok := m.factories[d.Guard]; ok {
		g, err := factory(m, d.GuardArgs)
		if err != nil {
			return edge[T]{}, fmt.Errorf("guard %q: %w", d.Guard, err)
		}
		e.guard = g
		return e, nil
	}
	g, ok := m.guards[d.Guard]
	if !ok {
		return edge[T]{}, fmt.Errorf("unknown guard %q", d.Guard)
	}
	e.guard = g
	return e, nil
}

// StateTimeExceeds passes once the active leaf has lasted longer than guard_args.ms
func StateTimeExceeds[T any](m *Machine[T], args map[string]any) (GuardFunc[T], error) {
	var limit time.Duration
	switch v := args["ms"].(type) {
	case int64:
		limit = time.Duration(v) * time.Millisecond
	case float64:
		limit = time.Duration(v * float64(time.Millisecond))
	case nil:
		return nil, fmt.Errorf("missing ms")
	default:
		return nil, fmt.Errorf("ms must be a number, got %T", v)
	}
	return func(T) bool { return m.elapsed > limit }, nil
}
