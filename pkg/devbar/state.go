package devbar

import (
	"sync"

	"github.com/toyz/devbar/internal/deps"
	"github.com/toyz/devbar/internal/roots"
)

// State is a step of a single injection
type State int

const (
	StateIdle State = iota
	StateCheckingDependencies
	StateSynthesizing
	StateAborted
	StateRegistering
	StateConfiguringAliases
	StateDone
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCheckingDependencies:
		return "CheckingDependencies"
	case StateSynthesizing:
		return "Synthesizing"
	case StateAborted:
		return "Aborted"
	case StateRegistering:
		return "Registering"
	case StateConfiguringAliases:
		return "ConfiguringAliases"
	case StateDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Injection is the record of one processed request. It is returned even
// when the request was aborted so callers can inspect how far it got.
type Injection struct {
	Request    Request
	ModuleName string
	Roots      roots.Roots

	// Missing lists required packages found under no root
	Missing []string
	// Incompatible lists installed packages outside the supported range
	Incompatible []deps.Incompatibility
	// Source is the synthesized module
	Source string
	// Aliases is the map merged into the bundler config in dev mode
	Aliases deps.AliasMap

	states []State

	preambleOnce sync.Once
	preambleDone chan struct{}
	preambleErr  error
}

func newInjection(req Request) *Injection {
	return &Injection{
		Request:      req,
		ModuleName:   req.ModuleName(),
		states:       []State{StateIdle},
		preambleDone: make(chan struct{}),
	}
}

func (inj *Injection) enter(s State) {
	inj.states = append(inj.states, s)
}

// State returns the last state reached
func (inj *Injection) State() State {
	return inj.states[len(inj.states)-1]
}

// States returns every state visited, starting with StateIdle
func (inj *Injection) States() []State {
	out := make([]State, len(inj.states))
	copy(out, inj.states)
	return out
}

// Registered reports whether the module reached the host
func (inj *Injection) Registered() bool {
	return inj.State() == StateDone
}

// WaitPreamble blocks until the fast-refresh preamble has been injected, or
// returns at once when the request needed none.
func (inj *Injection) WaitPreamble() error {
	<-inj.preambleDone
	return inj.preambleErr
}

func (inj *Injection) finishPreamble(err error) {
	inj.preambleOnce.Do(func() {
		inj.preambleErr = err
		close(inj.preambleDone)
	})
}
