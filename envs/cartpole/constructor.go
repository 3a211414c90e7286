package cartpole

import "github.com/zeu5/imitation-rl/core"

// EnvConstructor creates one environment per instance. Seeded
// configurations give every instance its own seed.
type EnvConstructor struct {
	Config Config
	Harder bool
}

var _ core.EnvironmentConstructor = &EnvConstructor{}

func NewEnvConstructor(config Config) *EnvConstructor {
	return &EnvConstructor{Config: config}
}

func NewHarderEnvConstructor(config Config) *EnvConstructor {
	return &EnvConstructor{Config: config, Harder: true}
}

func (c *EnvConstructor) NewEnvironment(instance int) core.Environment {
	config := c.Config
	if config.Seed != 0 {
		config.Seed += uint64(instance)
	}
	env := NewEnv(config)
	if c.Harder {
		return NewHarderReset(env)
	}
	return env
}
