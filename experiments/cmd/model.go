package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosuri/uilive"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/zeu5/imitation-rl/core"
	"github.com/zeu5/imitation-rl/experiments/cartpole"
)

func printEvaluation(name string, eval *core.Evaluation) {
	fmt.Printf("%s: %s over %d episodes\n",
		aurora.Bold(name),
		aurora.Green(fmt.Sprintf("mean %.2f std %.2f median %.2f", eval.Mean, eval.Std, eval.Median)),
		len(eval.Rewards),
	)
}

func EvaluateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate [weights]",
		Short: "Evaluate a trained network, or the expert without arguments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, doneCh := interruptContext()
			defer close(doneCh)

			weights := ""
			name := "Expert"
			if len(args) == 1 {
				weights = args[0]
				name = filepath.Base(weights)
			}

			writer := uilive.New()
			writer.Start()
			eval, err := cartpole.EvaluateModel(ctx, flags, weights, writer)
			writer.Stop()
			if err != nil {
				return err
			}
			printEvaluation(name, eval)
			return nil
		},
	}
	return cmd
}

func ExpertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expert [out]",
		Short: "Fit an expert network to the analytic controller and save its weights",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, doneCh := interruptContext()
			defer close(doneCh)

			out := filepath.Join(flags.SavePath, "expert.weights")
			if len(args) == 1 {
				out = args[0]
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return errors.Wrap(err, "creating output directory")
			}

			writer := uilive.New()
			writer.Start()
			eval, err := cartpole.TrainExpert(ctx, flags, out, writer)
			writer.Stop()
			if err != nil {
				return err
			}
			printEvaluation("Expert network", eval)
			fmt.Printf("weights written to %s\n", out)
			return nil
		},
	}
	return cmd
}
