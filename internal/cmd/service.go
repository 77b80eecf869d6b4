package cmd

import (
	"github.com/spf13/cobra"
)

var serviceActions = []string{"start", "stop", "restart"}

func NewCmdService() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service <action> <service-id>",
		Short: "Run an action on a service",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}

			return serviceActions, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := newPanelClient(cmd)
			if err != nil {
				cmd.PrintErrln(err)
				return ExitError{1}
			}
			defer pc.Close()

			err = pc.PerformAction(cmd.Context(), args[0], args[1])
			pc.Settle()
			if err != nil {
				return ExitError{1}
			}

			return nil
		},
	}

	return cmd
}
