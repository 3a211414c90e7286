package cartpole

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/imitation-rl/core"
)

func TestResetRange(t *testing.T) {
	env := NewEnv(Config{Seed: 1})
	for i := 0; i < 100; i++ {
		obs, err := env.Reset()
		require.NoError(t, err)
		require.Len(t, obs, 4)
		for _, v := range obs {
			assert.LessOrEqual(t, math.Abs(v), 0.05)
		}
	}
}

func TestSeedReproducible(t *testing.T) {
	a, _ := NewEnv(Config{Seed: 42}).Reset()
	b, _ := NewEnv(Config{Seed: 42}).Reset()
	assert.Equal(t, a, b)
}

func TestStepPhysics(t *testing.T) {
	env := NewEnv(Config{Seed: 1})
	_, err := env.Reset()
	require.NoError(t, err)
	env.SetState(State{})

	res, err := env.Step(Right, nil)
	require.NoError(t, err)
	assert.False(t, res.Terminal)
	assert.Equal(t, 1.0, res.Reward)
	assert.InDeltaSlice(t, []float64{0, 0.195122, 0, -0.292683}, []float64(res.Observation), 1e-6)

	env.SetState(State{})
	res, err = env.Step(Left, nil)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, -0.195122, 0, 0.292683}, []float64(res.Observation), 1e-6)
}

func TestFailureEndsEpisode(t *testing.T) {
	env := NewEnv(Config{Seed: 1})
	_, err := env.Reset()
	require.NoError(t, err)
	env.SetState(State{Theta: 0.3})

	res, err := env.Step(Left, nil)
	require.NoError(t, err)
	assert.True(t, res.Terminal)
	assert.Equal(t, 1.0, res.Reward)
	assert.Equal(t, false, res.Info["truncated"])

	_, err = env.Step(Left, nil)
	assert.ErrorIs(t, err, core.ErrEpisodeOver)

	_, err = env.Reset()
	require.NoError(t, err)
	_, err = env.Step(Left, nil)
	assert.NoError(t, err)
}

func TestTimeLimit(t *testing.T) {
	env := NewEnv(Config{Seed: 1, MaxSteps: 5})
	_, err := env.Reset()
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		env.SetState(State{})
		res, err := env.Step(core.Action(i%2), nil)
		require.NoError(t, err)
		assert.Equal(t, i == 5, res.Terminal, "step %d", i)
		if i == 5 {
			assert.Equal(t, true, res.Info["truncated"])
		}
	}
	assert.Equal(t, 5, env.Steps())
}

func TestDefaultTimeLimit(t *testing.T) {
	env := NewEnv(Config{})
	_, err := env.Reset()
	require.NoError(t, err)

	steps := 0
	for {
		env.SetState(State{})
		res, err := env.Step(Right, nil)
		require.NoError(t, err)
		steps++
		if res.Terminal {
			break
		}
	}
	assert.Equal(t, DefaultMaxSteps, steps)
}

func TestStepErrors(t *testing.T) {
	env := NewEnv(Config{Seed: 1})
	_, err := env.Step(Right, nil)
	assert.ErrorIs(t, err, core.ErrEpisodeOver)

	_, err = env.Reset()
	require.NoError(t, err)
	_, err = env.Step(2, nil)
	assert.ErrorIs(t, err, core.ErrInvalidAction)
	_, err = env.Step(-1, nil)
	assert.ErrorIs(t, err, core.ErrInvalidAction)
}

func TestHarderReset(t *testing.T) {
	env := NewHarderReset(NewEnv(Config{Seed: 3}))
	signs := map[float64]bool{}
	for i := 0; i < 50; i++ {
		obs, err := env.Reset()
		require.NoError(t, err)
		assert.Equal(t, HarderX, math.Abs(obs[0]))
		assert.Equal(t, HarderXDot, math.Abs(obs[1]))
		assert.Equal(t, HarderTheta, math.Abs(obs[2]))
		assert.LessOrEqual(t, math.Abs(obs[3]), 0.05)
		assert.Equal(t, obs, env.State().Observation())
		signs[math.Copysign(1, obs[0])] = true
	}
	assert.Len(t, signs, 2)

	res, err := env.Step(Right, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Reward)
}

func TestEnvConstructor(t *testing.T) {
	c := NewEnvConstructor(Config{Seed: 5})
	a, _ := c.NewEnvironment(0).Reset()
	b, _ := c.NewEnvironment(1).Reset()
	assert.NotEqual(t, a, b)

	env := c.NewEnvironment(0)
	assert.Equal(t, 4, env.ObservationSize())
	assert.Equal(t, 2, env.NumActions())
	assert.IsType(t, &Env{}, env)

	assert.IsType(t, &HarderReset{}, NewHarderEnvConstructor(Config{Seed: 5}).NewEnvironment(0))
}
