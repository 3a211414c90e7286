package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpertRolloutMatchesOptimalActions(t *testing.T) {
	optimal := []Action{1, 0, 1}
	env := newStubEnv(optimal...)

	r, err := GenerateExpertData(context.Background(), env, oracle{}, RolloutConfig{Episodes: 1})
	require.NoError(t, err)

	require.Equal(t, 3, r.Dataset.Len())
	require.Len(t, r.Dataset.Actions, 3)
	for i, a := range optimal {
		assert.Equal(t, OneHot(a, 2), r.Dataset.Actions[i], "label %d", i)
		assert.Equal(t, float64(i), r.Dataset.Observations[i][0])
	}
	assert.Equal(t, 1, r.Episodes)
	assert.Equal(t, 3, r.Steps)
	assert.Equal(t, []float64{3}, r.EpisodeRewards)
	assert.Equal(t, 0, r.Disagreements)
	// no reset after the last episode
	assert.Equal(t, 1, env.resets)
}

func TestExpertRolloutResetsBetweenEpisodes(t *testing.T) {
	env := newStubEnv(0, 1)

	r, err := GenerateExpertData(context.Background(), env, oracle{}, RolloutConfig{Episodes: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, env.resets)
	assert.Equal(t, 8, r.Dataset.Len())
	assert.Equal(t, len(r.Dataset.Observations), len(r.Dataset.Actions))
	require.NoError(t, r.Dataset.Validate())
}

func TestDAggerLabelsWithExpert(t *testing.T) {
	optimal := []Action{1, 1, 0, 1}
	env := newStubEnv(optimal...)
	student := constant{action: 0}

	r, err := GenerateDAggerData(context.Background(), env, student, oracle{}, RolloutConfig{Episodes: 2})
	require.NoError(t, err)
	require.Equal(t, 8, r.Dataset.Len())
	for i, label := range r.Dataset.Actions {
		assert.Equal(t, OneHot(optimal[i%len(optimal)], 2), label)
	}
	// the student executes action 0, disagreeing on three steps per episode
	assert.Equal(t, 6, r.Disagreements)
	// the executed actions only earn reward where they match
	assert.Equal(t, []float64{1, 1}, r.EpisodeRewards)
}

func TestRolloutPropagatesErrors(t *testing.T) {
	env := newStubEnv(0, 1)

	_, err := GenerateExpertData(context.Background(), env, failingPolicy{}, RolloutConfig{Episodes: 1})
	require.Error(t, err)

	_, err = GenerateDAggerData(context.Background(), env, constant{}, failingPolicy{}, RolloutConfig{Episodes: 1})
	require.Error(t, err)

	_, err = GenerateDAggerData(context.Background(), env, constant{}, nil, RolloutConfig{Episodes: 1})
	require.Error(t, err)
}

func TestRolloutStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GenerateExpertData(ctx, newStubEnv(0, 1), oracle{}, RolloutConfig{Episodes: 1})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRolloutZeroEpisodes(t *testing.T) {
	env := newStubEnv(0)
	r, err := GenerateExpertData(context.Background(), env, oracle{}, RolloutConfig{})
	require.NoError(t, err)
	assert.Equal(t, 0, r.Dataset.Len())
	assert.Equal(t, 0, env.resets)
}

func TestEvaluateReturnsOneTotalPerEpisode(t *testing.T) {
	env := newStubEnv(1, 0, 1)

	eval, err := Evaluate(context.Background(), env, constant{action: 1}, EvalConfig{Episodes: 7})
	require.NoError(t, err)
	require.Len(t, eval.Rewards, 7)
	for _, r := range eval.Rewards {
		assert.Equal(t, 2.0, r)
	}
	assert.Equal(t, 2.0, eval.Mean)
	assert.Equal(t, 0.0, eval.Std)
}

func TestNewEvaluationPopulationStd(t *testing.T) {
	eval, err := NewEvaluation([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, eval.Mean, 1e-9)
	assert.InDelta(t, 2.0, eval.Std, 1e-9)
	assert.InDelta(t, 4.5, eval.Median, 1e-9)

	empty, err := NewEvaluation(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Rewards)
}
