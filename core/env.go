package core

import (
	"context"

	"github.com/pkg/errors"
)

var (
	ErrEpisodeOver   = errors.New("episode is over, reset the environment")
	ErrInvalidAction = errors.New("invalid action")
)

// Observation is the fixed length state vector returned by an environment
type Observation []float64

func (o Observation) Copy() Observation {
	out := make(Observation, len(o))
	copy(out, o)
	return out
}

// Action indexes into the discrete action set of an environment
type Action int

// StepResult is what an environment returns for a single step
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminal    bool
	Info        map[string]interface{}
}

type Environment interface {
	Reset() (Observation, error)
	Step(Action, *StepContext) (*StepResult, error)
	ObservationSize() int
	NumActions() int
}

type EpisodeContext struct {
	Context context.Context
	Episode int
	Run     int

	Trace *Trace
}

func NewEpisodeContext(ctx context.Context, episode int) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Episode: episode,
		Trace:   NewTrace(),
	}
}

// Err returns the context error once the surrounding context is done
func (e *EpisodeContext) Err() error {
	select {
	case <-e.Context.Done():
		return e.Context.Err()
	default:
	}
	return nil
}

type StepContext struct {
	Step int
	*EpisodeContext
}

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment with the given instance number.
	NewEnvironment(int) Environment
}
