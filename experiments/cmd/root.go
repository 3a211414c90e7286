package cmd

import (
	"github.com/spf13/cobra"
	"github.com/zeu5/imitation-rl/util"
)

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "imitation",
		Short:         "Behavioral cloning and DAgger on cart-pole",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			UpdateFlags()
			if _, err := util.SetupLogger(flags.Debug); err != nil {
				return err
			}
			flags.Record()
			return nil
		},
	}
	AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		CloneCommand(),
		DAggerCommand(),
		CompareCommand(),
		EvaluateCommand(),
		ExpertCommand(),
	)

	return cmd
}
