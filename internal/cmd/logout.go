package cmd

import (
	"github.com/spf13/cobra"
)

func NewCmdLogout() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := newPanelClient(cmd)
			if err != nil {
				cmd.PrintErrln(err)
				return ExitError{1}
			}
			defer pc.Close()

			err = pc.Logout(cmd.Context())
			pc.Settle()
			if err != nil {
				return ExitError{1}
			}

			return nil
		},
	}

	return cmd
}
