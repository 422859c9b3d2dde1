package web

import "fmt"

// ReturnState is the state of one return-trip settlement attempt.
// Legal transitions: Verifying -> Settling -> Done, and Error from either
// of the first two. Done and Error are terminal.
type ReturnState string

const (
	StateVerifying ReturnState = "verifying"
	StateSettling  ReturnState = "settling"
	StateDone      ReturnState = "done"
	StateError     ReturnState = "error"
)

type returnFlow struct {
	state ReturnState
}

func newReturnFlow() *returnFlow { return &returnFlow{state: StateVerifying} }

func (f *returnFlow) State() ReturnState { return f.state }

func (f *returnFlow) advance(next ReturnState) error {
	ok := false
	switch f.state {
	case StateVerifying:
		ok = next == StateSettling || next == StateError
	case StateSettling:
		ok = next == StateDone || next == StateError
	}
	if !ok {
		return fmt.Errorf("illegal return-flow transition %s -> %s", f.state, next)
	}
	f.state = next
	return nil
}

func (f *returnFlow) fail() { f.state = StateError }
