// Package cartpole implements the classic cart-pole balancing task with the
// constants and termination rules of CartPole-v0.
package cartpole

import (
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/zeu5/imitation-rl/core"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	Gravity    = 9.8
	MassCart   = 1.0
	MassPole   = 0.1
	HalfLength = 0.5
	ForceMag   = 10.0
	Tau        = 0.02

	// XThreshold and ThetaThreshold bound the non terminal states
	XThreshold     = 2.4
	ThetaThreshold = 12 * 2 * math.Pi / 360

	DefaultMaxSteps = 200

	// Left pushes the cart with -ForceMag, Right with +ForceMag
	Left  core.Action = 0
	Right core.Action = 1
)

// State is the physical state of the cart and pole, in observation order
type State struct {
	X        float64
	XDot     float64
	Theta    float64
	ThetaDot float64
}

func (s State) Observation() core.Observation {
	return core.Observation{s.X, s.XDot, s.Theta, s.ThetaDot}
}

func (s State) failed() bool {
	return s.X < -XThreshold || s.X > XThreshold || s.Theta < -ThetaThreshold || s.Theta > ThetaThreshold
}

type Config struct {
	// MaxSteps ends the episode after that many steps, 0 means DefaultMaxSteps
	MaxSteps int
	// Seed for the initial states, 0 picks one from the clock
	Seed uint64
}

type Env struct {
	config Config
	state  State
	steps  int
	done   bool
	reset  bool

	rand *rand.Rand
	init distuv.Uniform
}

var _ core.Environment = &Env{}

func NewEnv(config Config) *Env {
	if config.MaxSteps <= 0 {
		config.MaxSteps = DefaultMaxSteps
	}
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	r := rand.New(rand.NewSource(seed))
	return &Env{
		config: config,
		rand:   r,
		init:   distuv.Uniform{Min: -0.05, Max: 0.05, Src: r},
	}
}

func (e *Env) Reset() (core.Observation, error) {
	e.state = State{
		X:        e.init.Rand(),
		XDot:     e.init.Rand(),
		Theta:    e.init.Rand(),
		ThetaDot: e.init.Rand(),
	}
	e.steps = 0
	e.done = false
	e.reset = true
	return e.state.Observation(), nil
}

func (e *Env) Step(a core.Action, _ *core.StepContext) (*core.StepResult, error) {
	if !e.reset || e.done {
		return nil, core.ErrEpisodeOver
	}
	if a != Left && a != Right {
		return nil, errors.Wrapf(core.ErrInvalidAction, "cartpole action %d", a)
	}

	force := ForceMag
	if a == Left {
		force = -ForceMag
	}
	s := e.state
	cos, sin := math.Cos(s.Theta), math.Sin(s.Theta)
	totalMass := MassCart + MassPole
	poleMassLength := MassPole * HalfLength

	temp := (force + poleMassLength*s.ThetaDot*s.ThetaDot*sin) / totalMass
	thetaAcc := (Gravity*sin - cos*temp) / (HalfLength * (4.0/3.0 - MassPole*cos*cos/totalMass))
	xAcc := temp - poleMassLength*thetaAcc*cos/totalMass

	e.state = State{
		X:        s.X + Tau*s.XDot,
		XDot:     s.XDot + Tau*xAcc,
		Theta:    s.Theta + Tau*s.ThetaDot,
		ThetaDot: s.ThetaDot + Tau*thetaAcc,
	}
	e.steps++

	failed := e.state.failed()
	truncated := !failed && e.steps >= e.config.MaxSteps
	e.done = failed || truncated

	return &core.StepResult{
		Observation: e.state.Observation(),
		Reward:      1,
		Terminal:    e.done,
		Info: map[string]interface{}{
			"steps":     e.steps,
			"truncated": truncated,
		},
	}, nil
}

func (e *Env) State() State {
	return e.state
}

// SetState overrides the current physical state. The step counter is kept.
func (e *Env) SetState(s State) {
	e.state = s
}

func (e *Env) Steps() int {
	return e.steps
}

func (e *Env) ObservationSize() int {
	return 4
}

func (e *Env) NumActions() int {
	return 2
}

func (e *Env) rng() *rand.Rand {
	return e.rand
}
