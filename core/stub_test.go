package core

import (
	"github.com/pkg/errors"
)

// stubEnv walks through a fixed sequence of optimal actions, one per step.
// The observation encodes the step and the optimal action at that step.
type stubEnv struct {
	optimal []Action
	step    int
	resets  int
	done    bool
}

var _ Environment = &stubEnv{}

func newStubEnv(optimal ...Action) *stubEnv {
	return &stubEnv{optimal: optimal}
}

func (s *stubEnv) observation() Observation {
	if s.step >= len(s.optimal) {
		return Observation{float64(s.step), -1, 0, 0}
	}
	return Observation{float64(s.step), float64(s.optimal[s.step]), 0, 0}
}

func (s *stubEnv) Reset() (Observation, error) {
	s.step = 0
	s.resets++
	s.done = false
	return s.observation(), nil
}

func (s *stubEnv) Step(a Action, _ *StepContext) (*StepResult, error) {
	if s.done {
		return nil, ErrEpisodeOver
	}
	if a < 0 || int(a) >= s.NumActions() {
		return nil, ErrInvalidAction
	}
	reward := 0.0
	if a == s.optimal[s.step] {
		reward = 1
	}
	s.step++
	s.done = s.step >= len(s.optimal)
	return &StepResult{
		Observation: s.observation(),
		Reward:      reward,
		Terminal:    s.done,
	}, nil
}

func (s *stubEnv) ObservationSize() int { return 4 }

func (s *stubEnv) NumActions() int { return 2 }

type stubEnvConstructor struct {
	optimal []Action
}

func (c *stubEnvConstructor) NewEnvironment(_ int) Environment {
	return newStubEnv(c.optimal...)
}

// oracle reads the optimal action out of the observation
type oracle struct{}

func (oracle) Scores(obs Observation) ([]float64, error) {
	scores := make([]float64, 2)
	if obs[1] >= 0 {
		scores[int(obs[1])] = 1
	}
	return scores, nil
}

// constant always prefers the same action
type constant struct {
	action Action
}

func (c constant) Scores(_ Observation) ([]float64, error) {
	return OneHot(c.action, 2), nil
}

type failingPolicy struct{}

func (failingPolicy) Scores(_ Observation) ([]float64, error) {
	return nil, errors.New("boom")
}

// recordingStudent acts like constant and records the sizes of the datasets it was fit on
type recordingStudent struct {
	constant
	fitSizes []int
	configs  []FitConfig
}

var _ Student = &recordingStudent{}

func (r *recordingStudent) Fit(d *Dataset, c FitConfig) (*FitReport, error) {
	r.fitSizes = append(r.fitSizes, d.Len())
	r.configs = append(r.configs, c)
	return &FitReport{Samples: d.Len(), Losses: []float64{0.5}}, nil
}

type recordingStudentConstructor struct {
	student *recordingStudent
}

func (r *recordingStudentConstructor) NewStudent() (Student, error) {
	return r.student, nil
}
