package core

type Step struct {
	Observation     Observation
	Action          Action
	Reward          float64
	NextObservation Observation

	Misc map[string]interface{}
}

// Trace records the steps of a single episode
type Trace struct {
	steps []*Step
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
	}
}

func (t *Trace) AddStep(s *Step) {
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	return t.steps[i]
}

func (t *Trace) Len() int {
	return len(t.steps)
}

func (t *Trace) Last() *Step {
	if len(t.steps) == 0 {
		return nil
	}
	return t.steps[len(t.steps)-1]
}

func (t *Trace) TotalReward() float64 {
	sum := 0.0
	for _, s := range t.steps {
		sum += s.Reward
	}
	return sum
}
