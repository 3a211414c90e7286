package core

import (
	"context"
	"fmt"
	"io"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type EvalConfig struct {
	Episodes int
	Writer   io.Writer
}

// Evaluation holds the total reward of every evaluation episode
type Evaluation struct {
	Rewards []float64
	Mean    float64
	Std     float64
	Median  float64
}

// NewEvaluation summarises episode rewards. Std is the population standard deviation.
func NewEvaluation(rewards []float64) (*Evaluation, error) {
	e := &Evaluation{Rewards: rewards}
	if len(rewards) == 0 {
		return e, nil
	}
	var err error
	if e.Mean, err = stats.Mean(rewards); err != nil {
		return nil, errors.Wrap(err, "mean reward")
	}
	if e.Std, err = stats.StandardDeviationPopulation(rewards); err != nil {
		return nil, errors.Wrap(err, "reward std")
	}
	if e.Median, err = stats.Median(rewards); err != nil {
		return nil, errors.Wrap(err, "median reward")
	}
	return e, nil
}

// Evaluate runs the policy greedily for config.Episodes episodes and sums the reward of each
func Evaluate(ctx context.Context, env Environment, policy Policy, config EvalConfig) (*Evaluation, error) {
	rewards := make([]float64, 0, config.Episodes)
	for episode := 0; episode < config.Episodes; episode++ {
		eCtx := NewEpisodeContext(ctx, episode)
		obs, err := env.Reset()
		if err != nil {
			return nil, errors.Wrap(err, "resetting environment")
		}
		for step := 0; ; step++ {
			if err := eCtx.Err(); err != nil {
				return nil, err
			}
			action, err := Greedy(policy, obs)
			if err != nil {
				return nil, errors.Wrap(err, "picking action")
			}
			res, err := env.Step(action, &StepContext{Step: step, EpisodeContext: eCtx})
			if err != nil {
				return nil, errors.Wrapf(err, "step %d of evaluation episode %d", step, episode)
			}
			eCtx.Trace.AddStep(&Step{
				Observation:     obs,
				Action:          action,
				Reward:          res.Reward,
				NextObservation: res.Observation,
			})
			obs = res.Observation
			if res.Terminal {
				break
			}
		}
		total := eCtx.Trace.TotalReward()
		rewards = append(rewards, total)
		zap.L().Debug("evaluation episode finished", zap.Int("episode", episode), zap.Float64("reward", total))
		if config.Writer != nil {
			fmt.Fprintf(config.Writer, "Evaluation episode %d/%d, Total reward: %.1f\n", episode+1, config.Episodes, total)
		}
	}
	return NewEvaluation(rewards)
}
