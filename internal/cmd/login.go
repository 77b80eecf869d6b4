package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dokuhost/dokuhost/internal/client"
	"github.com/dokuhost/dokuhost/internal/term"
)

func NewCmdLogin() *cobra.Command {
	var flags struct {
		email      string
		password   string
		printToken bool
	}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the panel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := promptMissing(
				promptField{title: "Email", value: &flags.email},
				promptField{title: "Password", value: &flags.password, secret: true},
			); err != nil {
				cmd.PrintErrln("failed to read credentials:", err)
				return ExitError{1}
			}

			pc, err := newPanelClient(cmd)
			if err != nil {
				cmd.PrintErrln(err)
				return ExitError{1}
			}
			defer pc.Close()

			err = pc.Login(cmd.Context(), client.FormSubmission{
				client.FieldEmail:    flags.email,
				client.FieldPassword: flags.password,
			})
			pc.Settle()
			if err != nil {
				return ExitError{1}
			}

			if !flags.printToken {
				return nil
			}

			token, ok := pc.SessionToken(pc.conf.Session.Cookie)
			if !ok {
				cmd.PrintErrf("no %s cookie received\n", pc.conf.Session.Cookie)
				return ExitError{1}
			}

			if term.IsTerminal(cmd.OutOrStdout()) {
				fmt.Fprintln(cmd.OutOrStdout(), token)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), token)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&flags.email, "email", "", "Account email")
	cmd.Flags().StringVar(&flags.password, "password", "", "Account password")
	cmd.Flags().BoolVar(&flags.printToken, "print-token", false, "Print the session token")

	return cmd
}
