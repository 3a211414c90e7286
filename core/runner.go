package core

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/gosuri/uilive"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Setup holds the instantiated pieces a single training run works with
type Setup struct {
	Env       Environment
	DAggerEnv Environment
	EvalEnv   Environment

	Expert      Policy
	Student     Student
	Exploration func(Policy) Policy

	Writer io.Writer

	explorer Policy
}

func (s *Setup) daggerEnv() Environment {
	if s.DAggerEnv != nil {
		return s.DAggerEnv
	}
	return s.Env
}

func (s *Setup) evalEnv() Environment {
	if s.EvalEnv != nil {
		return s.EvalEnv
	}
	return s.Env
}

// actor is the policy that acts during DAgger rollouts. The exploration
// wrapper is built once so its random state carries over between rounds.
func (s *Setup) actor() Policy {
	if s.Exploration == nil {
		return s.Student
	}
	if s.explorer == nil {
		s.explorer = s.Exploration(s.Student)
	}
	return s.explorer
}

type RoundObserver func(*RoundResult)

func (o RoundObserver) observe(r *RoundResult) {
	if o != nil {
		o(r)
	}
}

// RunExpert evaluates the expert on the evaluation environment
func RunExpert(ctx context.Context, s *Setup, cfg *RunConfig, observe RoundObserver) ([]*RoundResult, error) {
	eval, err := Evaluate(ctx, s.evalEnv(), s.Expert, EvalConfig{Episodes: cfg.EvalEpisodes, Writer: s.Writer})
	if err != nil {
		return nil, errors.Wrap(err, "evaluating expert")
	}
	r := &RoundResult{Round: 0, Evaluation: eval}
	logRound(r)
	observe.observe(r)
	return []*RoundResult{r}, nil
}

// RunCloning generates expert data once and fits the student on it once.
// One DAgger rollout of the trained student is gathered to measure how often
// it disagrees with the expert, its data is not trained on.
func RunCloning(ctx context.Context, s *Setup, cfg *RunConfig, observe RoundObserver) ([]*RoundResult, error) {
	expertData, err := GenerateExpertData(ctx, s.Env, s.Expert, RolloutConfig{Episodes: cfg.ExpertEpisodes, Writer: s.Writer})
	if err != nil {
		return nil, errors.Wrap(err, "generating expert data")
	}
	data := expertData.Dataset
	zap.L().Info("expert data generated", zap.Int("samples", data.Len()), zap.Int("episodes", expertData.Episodes))

	fit, err := s.Student.Fit(data, cfg.CloneFit)
	if err != nil {
		return nil, errors.Wrap(err, "fitting student")
	}
	dagger, err := GenerateDAggerData(ctx, s.daggerEnv(), s.actor(), s.Expert, RolloutConfig{Episodes: cfg.DAggerEpisodes, Writer: s.Writer})
	if err != nil {
		return nil, errors.Wrap(err, "generating dagger data")
	}
	eval, err := Evaluate(ctx, s.evalEnv(), s.Student, EvalConfig{Episodes: cfg.EvalEpisodes, Writer: s.Writer})
	if err != nil {
		return nil, errors.Wrap(err, "evaluating student")
	}

	r := &RoundResult{
		Round:       0,
		DatasetSize: data.Len(),
		Fit:         fit,
		Rollout:     dagger,
		Evaluation:  eval,
	}
	logRound(r)
	observe.observe(r)
	return []*RoundResult{r}, nil
}

// RunDAgger fits the student on all data gathered so far, labels the states the
// student visits with the expert's actions and adds them to the data, for cfg.Rounds rounds.
func RunDAgger(ctx context.Context, s *Setup, cfg *RunConfig, observe RoundObserver) ([]*RoundResult, error) {
	expertData, err := GenerateExpertData(ctx, s.Env, s.Expert, RolloutConfig{Episodes: cfg.ExpertEpisodes, Writer: s.Writer})
	if err != nil {
		return nil, errors.Wrap(err, "generating expert data")
	}
	data := expertData.Dataset
	zap.L().Info("expert data generated", zap.Int("samples", data.Len()), zap.Int("episodes", expertData.Episodes))

	results := make([]*RoundResult, 0, cfg.Rounds)
	for round := 0; round < cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		fit, err := s.Student.Fit(data, cfg.DAggerFit)
		if err != nil {
			return results, errors.Wrapf(err, "fitting student in round %d", round)
		}
		dagger, err := GenerateDAggerData(ctx, s.daggerEnv(), s.actor(), s.Expert, RolloutConfig{Episodes: cfg.DAggerEpisodes, Writer: s.Writer})
		if err != nil {
			return results, errors.Wrapf(err, "generating dagger data in round %d", round)
		}
		data.Append(dagger.Dataset)

		eval, err := Evaluate(ctx, s.evalEnv(), s.Student, EvalConfig{Episodes: cfg.EvalEpisodes, Writer: s.Writer})
		if err != nil {
			return results, errors.Wrapf(err, "evaluating student in round %d", round)
		}

		r := &RoundResult{
			Round:       round,
			DatasetSize: data.Len(),
			Fit:         fit,
			Rollout:     dagger,
			Evaluation:  eval,
		}
		logRound(r)
		observe.observe(r)
		results = append(results, r)
	}
	return results, nil
}

func logRound(r *RoundResult) {
	fields := []zap.Field{
		zap.Int("round", r.Round),
		zap.Int("samples", r.DatasetSize),
	}
	if r.Fit != nil {
		fields = append(fields, zap.Float64("loss", r.Fit.FinalLoss()))
	}
	if r.Rollout != nil {
		fields = append(fields, zap.Int("disagreements", r.Rollout.Disagreements), zap.Int("steps", r.Rollout.Steps))
	}
	if r.Evaluation != nil {
		fields = append(fields, zap.Float64("mean_reward", r.Evaluation.Mean), zap.Float64("std_reward", r.Evaluation.Std))
	}
	zap.L().Info("round finished", fields...)
}

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	writer io.Writer

	*RunConfig
}

type ExperimentResult struct {
	Rounds []*RoundResult

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

// NewSetup instantiates the environments and the student of the experiment
func (e *Experiment) NewSetup(instance int) (*Setup, error) {
	if e.Environment == nil {
		return nil, errors.New("experiment has no environment")
	}
	if e.Expert == nil {
		return nil, errors.New("experiment has no expert")
	}
	s := &Setup{
		Env:         e.Environment.NewEnvironment(instance),
		Expert:      e.Expert,
		Exploration: e.Exploration,
	}
	if e.DAggerEnvironment != nil {
		s.DAggerEnv = e.DAggerEnvironment.NewEnvironment(instance)
	}
	if e.EvalEnvironment != nil {
		s.EvalEnv = e.EvalEnvironment.NewEnvironment(instance)
	}
	if e.Mode != ModeExpert {
		if e.Student == nil {
			return nil, errors.Errorf("%s experiment has no student", e.Mode)
		}
		student, err := e.Student.NewStudent()
		if err != nil {
			return nil, errors.Wrap(err, "creating student")
		}
		s.Student = student
	}
	return s, nil
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	setup, err := e.NewSetup(ctx.run)
	if err != nil {
		result.Error = err
		return result
	}
	setup.Writer = ctx.writer

	observe := func(r *RoundResult) {
		r.Experiment = e.Name
		r.Run = ctx.run
		if ctx.writer != nil {
			fmt.Fprintf(ctx.writer, "Experiment: %s, Run %d, Round %d, Samples: %d, Reward: %.2f (std %.2f)\n",
				e.Name, ctx.run, r.Round, r.DatasetSize, r.Evaluation.Mean, r.Evaluation.Std)
		}
		for _, a := range ctx.analyzers {
			a.Analyze(r)
		}
	}

	runCtx := ctx.ctx
	switch e.Mode {
	case ModeExpert:
		result.Rounds, result.Error = RunExpert(runCtx, setup, ctx.RunConfig, observe)
	case ModeCloning:
		result.Rounds, result.Error = RunCloning(runCtx, setup, ctx.RunConfig, observe)
	case ModeDAgger:
		result.Rounds, result.Error = RunDAgger(runCtx, setup, ctx.RunConfig, observe)
	default:
		result.Error = errors.Errorf("unknown experiment mode %d", e.Mode)
	}
	if result.Error != nil {
		zap.L().Error("experiment failed", zap.String("experiment", e.Name), zap.Int("run", ctx.run), zap.Error(result.Error))
	}

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}
	return result
}

// Run executes every experiment of the comparison once per run, one after the other,
// and hands the analyzer datasets of each run to the comparators. Failed experiments
// do not stop the comparison; their errors are combined into the returned error.
func (c *Comparison) Run(ctx context.Context, runs int, rConfig *RunConfig) error {
	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	var failures error
	for run := 0; run < runs; run++ {
		if err := ctx.Err(); err != nil {
			return multierr.Append(failures, err)
		}

		results := make(map[string]*ExperimentResult)
		for _, e := range c.Experiments {
			if err := ctx.Err(); err != nil {
				return multierr.Append(failures, err)
			}
			eCtx := &experimentRunContext{
				run:       run,
				ctx:       ctx,
				analyzers: make(map[string]Analyzer),
				writer:    writer,
				RunConfig: rConfig,
			}
			for name, aC := range c.Analyzers {
				eCtx.analyzers[name] = aC.NewAnalyzer(e.Name, run)
			}
			results[e.Name] = e.run(eCtx)
		}

		// Gather datasets to run comparisons
		experimentNames := make([]string, 0, len(results))
		for name := range results {
			experimentNames = append(experimentNames, name)
		}
		sort.Strings(experimentNames)

		datasets := make(map[string][]DataSet)
		for name := range c.Analyzers {
			datasets[name] = make([]DataSet, 0, len(experimentNames))
			for _, exp := range experimentNames {
				result := results[exp]
				if result.IsError() {
					datasets[name] = append(datasets[name], nil)
				} else {
					datasets[name] = append(datasets[name], result.Datasets[name])
				}
			}
		}
		for _, exp := range experimentNames {
			if result := results[exp]; result.IsError() {
				failures = multierr.Append(failures, errors.Wrapf(result.Error, "experiment %s run %d", exp, run))
			}
		}
		for name, cmp := range c.Comparators {
			if err := cmp.NewComparator(run).Compare(experimentNames, datasets[name]); err != nil {
				return multierr.Append(failures, errors.Wrapf(err, "comparing %s", name))
			}
		}
	}
	return failures
}
