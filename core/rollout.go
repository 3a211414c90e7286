package core

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type RolloutConfig struct {
	Episodes int
	// Writer receives one progress line per finished episode when set
	Writer io.Writer
}

// Rollout is the labelled data gathered by running a policy in an environment
type Rollout struct {
	Dataset        *Dataset
	Episodes       int
	Steps          int
	Disagreements  int
	EpisodeRewards []float64
}

// GenerateExpertData runs the expert greedily and labels every visited
// observation with the action the expert took.
func GenerateExpertData(ctx context.Context, env Environment, expert Policy, config RolloutConfig) (*Rollout, error) {
	return rollout(ctx, env, expert, nil, config)
}

// GenerateDAggerData executes the student's actions but labels every visited
// observation with the expert's choice for it.
func GenerateDAggerData(ctx context.Context, env Environment, student, expert Policy, config RolloutConfig) (*Rollout, error) {
	if expert == nil {
		return nil, errors.New("dagger rollout needs an expert")
	}
	return rollout(ctx, env, student, expert, config)
}

// rollout steps env with actor until config.Episodes episodes have ended.
// A nil labeler means the actor labels its own actions.
func rollout(ctx context.Context, env Environment, actor, labeler Policy, config RolloutConfig) (*Rollout, error) {
	result := &Rollout{
		Dataset:        NewDataset(),
		EpisodeRewards: make([]float64, 0, config.Episodes),
	}
	if config.Episodes <= 0 {
		return result, nil
	}
	numActions := env.NumActions()

	obs, err := env.Reset()
	if err != nil {
		return nil, errors.Wrap(err, "resetting environment")
	}
	eCtx := NewEpisodeContext(ctx, 0)
	step := 0
	for result.Episodes < config.Episodes {
		if err := eCtx.Err(); err != nil {
			return nil, err
		}

		action, err := Greedy(actor, obs)
		if err != nil {
			return nil, errors.Wrap(err, "picking action")
		}
		label := action
		if labeler != nil {
			label, err = Greedy(labeler, obs)
			if err != nil {
				return nil, errors.Wrap(err, "labelling observation")
			}
			if label != action {
				result.Disagreements++
			}
		}
		if label < 0 || int(label) >= numActions {
			return nil, errors.Wrapf(ErrInvalidAction, "label %d with %d actions", label, numActions)
		}
		result.Dataset.Add(obs, OneHot(label, numActions))

		sCtx := &StepContext{Step: step, EpisodeContext: eCtx}
		res, err := env.Step(action, sCtx)
		if err != nil {
			return nil, errors.Wrapf(err, "step %d of episode %d", step, eCtx.Episode)
		}
		eCtx.Trace.AddStep(&Step{
			Observation:     obs,
			Action:          action,
			Reward:          res.Reward,
			NextObservation: res.Observation,
			Misc:            map[string]interface{}{"label": label, "disagree": label != action},
		})
		result.Steps++
		step++
		obs = res.Observation

		if res.Terminal {
			reward := eCtx.Trace.TotalReward()
			result.EpisodeRewards = append(result.EpisodeRewards, reward)
			result.Episodes++
			zap.L().Debug("rollout episode finished",
				zap.Int("episode", result.Episodes),
				zap.Int("steps", eCtx.Trace.Len()),
				zap.Float64("reward", reward),
			)
			if config.Writer != nil {
				fmt.Fprintf(config.Writer, "Rollout episode %d/%d, Samples: %d, Disagreements: %d\n",
					result.Episodes, config.Episodes, result.Dataset.Len(), result.Disagreements)
			}
			if result.Episodes == config.Episodes {
				break
			}
			obs, err = env.Reset()
			if err != nil {
				return nil, errors.Wrap(err, "resetting environment")
			}
			eCtx = NewEpisodeContext(ctx, result.Episodes)
			step = 0
		}
	}
	return result, nil
}
