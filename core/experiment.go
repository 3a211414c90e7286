package core

// Mode selects what an experiment trains
type Mode int

const (
	// ModeExpert only evaluates the expert, used as a baseline
	ModeExpert Mode = iota
	// ModeCloning fits the student once on expert demonstrations
	ModeCloning
	// ModeDAgger alternates fitting and expert labelling of student visited states
	ModeDAgger
)

func (m Mode) String() string {
	switch m {
	case ModeExpert:
		return "expert"
	case ModeCloning:
		return "cloning"
	case ModeDAgger:
		return "dagger"
	}
	return "unknown"
}

type Experiment struct {
	Name string
	Mode Mode

	// Environment is used to gather expert demonstrations
	Environment EnvironmentConstructor
	// DAggerEnvironment gathers student rollouts, defaults to Environment
	DAggerEnvironment EnvironmentConstructor
	// EvalEnvironment evaluates the trained policy, defaults to Environment
	EvalEnvironment EnvironmentConstructor

	Expert  Policy
	Student StudentConstructor
	// Exploration wraps the student while it gathers DAgger data
	Exploration func(Policy) Policy
}

type DataSet interface{}

// RoundResult is reported after every training round of an experiment
type RoundResult struct {
	Experiment  string
	Run         int
	Round       int
	DatasetSize int

	Fit        *FitReport
	Rollout    *Rollout
	Evaluation *Evaluation
}

type Analyzer interface {
	Analyze(*RoundResult)
	DataSet() DataSet
	Reset()
}

type AnalyzerConstructor interface {
	// new analyzer based on experiment name and run
	NewAnalyzer(string, int) Analyzer
}

type Comparator interface {
	Compare([]string, []DataSet) error
}

type ComparatorConstructor interface {
	NewComparator(int) Comparator
}

type Comparison struct {
	Experiments []*Experiment
	Analyzers   map[string]AnalyzerConstructor
	Comparators map[string]ComparatorConstructor
}

type RunConfig struct {
	ExpertEpisodes int
	DAggerEpisodes int
	EvalEpisodes   int
	Rounds         int

	CloneFit  FitConfig
	DAggerFit FitConfig
}

func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		ExpertEpisodes: 100,
		DAggerEpisodes: 20,
		EvalEpisodes:   50,
		Rounds:         10,
		CloneFit:       FitConfig{Epochs: 1, BatchSize: 1, Shuffle: true},
		DAggerFit:      FitConfig{Epochs: 5, BatchSize: 1, Shuffle: true},
	}
}

func NewComparison() *Comparison {
	return &Comparison{
		Analyzers:   make(map[string]AnalyzerConstructor),
		Comparators: make(map[string]ComparatorConstructor),
		Experiments: make([]*Experiment, 0),
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalysis(name string, a AnalyzerConstructor, cmp ComparatorConstructor) {
	c.Analyzers[name] = a
	c.Comparators[name] = cmp
}
