package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/imitation-rl/core"
	"github.com/zeu5/imitation-rl/experiments/cartpole"
	"github.com/zeu5/imitation-rl/experiments/common"
	"go.uber.org/zap"
)

// interruptContext is cancelled on the first interrupt or once done is closed
func interruptContext() (context.Context, chan struct{}) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

	doneCh := make(chan struct{}) // channel for done signal from application

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
			zap.L().Warn("interrupted, stopping")
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, doneCh
}

func comparisonCommand(use, short string, prepare func(*common.Flags) (*core.Comparison, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, doneCh := interruptContext()
			defer close(doneCh)

			cmp, err := prepare(flags)
			if err != nil {
				return err
			}
			return cmp.Run(ctx, flags.NumRuns, cartpole.RunConfig(flags))
		},
	}
}

func CloneCommand() *cobra.Command {
	return comparisonCommand("clone", "Fit the student once on expert demonstrations", cartpole.PrepareCloningComparison)
}

func DAggerCommand() *cobra.Command {
	return comparisonCommand("dagger", "Train the student with DAgger", cartpole.PrepareDAggerComparison)
}

func CompareCommand() *cobra.Command {
	return comparisonCommand("compare", "Run the expert, behavioral cloning and DAgger side by side", cartpole.PrepareFullComparison)
}
