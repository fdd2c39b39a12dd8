package profile

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// States of the save-and-test workflow.
const (
	StateIdle       = "idle"
	StateSaving     = "saving"
	StateTesting    = "testing"
	StateSaveFailed = "save_failed"
)

// Events driving the save-and-test workflow.
const (
	EventSave       = "save"
	EventSaved      = "saved"
	EventSaveFailed = "save_failed"
	EventTested     = "tested"
	EventTestFailed = "test_failed"
	EventReported   = "reported"
)

// TestFireContext carries the workflow's identifying data.
type TestFireContext struct {
	Name string
}

// TestFireMachine sequences persisting the collection before a test-fire.
// A test-fire is only reachable from a successful save.
type TestFireMachine struct {
	interpreter *statekit.Interpreter[TestFireContext]
}

func NewTestFireMachine(name string) (*TestFireMachine, error) {
	builder := statekit.NewMachine[TestFireContext]("test-fire").
		WithInitial(statekit.StateID(StateIdle)).
		WithContext(TestFireContext{Name: name})

	builder.State(StateIdle).
		On(EventSave).Target(StateSaving).
		Done()

	builder.State(StateSaving).
		On(EventSaved).Target(StateTesting).
		On(EventSaveFailed).Target(StateSaveFailed).
		Done()

	builder.State(StateTesting).
		On(EventTested).Target(StateIdle).
		On(EventTestFailed).Target(StateIdle).
		Done()

	builder.State(StateSaveFailed).
		On(EventReported).Target(StateIdle).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build test-fire machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &TestFireMachine{interpreter: interpreter}, nil
}

// Transition sends event and reports an error when the current state does
// not accept it.
func (m *TestFireMachine) Transition(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.Current() != before {
		return nil
	}
	return &TransitionError{Event: event, State: before}
}

func (m *TestFireMachine) Current() string {
	return string(m.interpreter.State().Value)
}

// Idle reports whether a new workflow may start.
func (m *TestFireMachine) Idle() bool {
	return m.Current() == StateIdle
}

// TransitionError reports an event the current state does not accept.
type TransitionError struct {
	Event string
	State string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("event %q is not allowed in state %q", e.Event, e.State)
}
