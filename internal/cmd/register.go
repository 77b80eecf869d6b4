package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dokuhost/dokuhost/internal/client"
	"github.com/dokuhost/dokuhost/internal/tabs"
	"github.com/dokuhost/dokuhost/internal/term"
)

const RegistrationTab = "registration"

var tabTitles = map[string]string{
	client.LoginTab: "Sign in",
	RegistrationTab: "Register",
}

func newTabs(w io.Writer, initial string) *tabs.Controller {
	// the tab list is static and never empty
	controller, _ := tabs.New(term.NewTabView(w, tabTitles), []string{client.LoginTab, RegistrationTab}, initial)
	return controller
}

type registrationForm struct {
	email         string
	phone         string
	firstName     string
	lastName      string
	nick          string
	password      string
	passwordCheck string
}

func (f *registrationForm) prompt() error {
	return promptMissing(
		promptField{title: "Email", value: &f.email},
		promptField{title: "Phone", value: &f.phone, optional: true},
		promptField{title: "First name", value: &f.firstName, optional: true},
		promptField{title: "Last name", value: &f.lastName, optional: true},
		promptField{title: "Nickname", value: &f.nick, optional: true},
		promptField{title: "Password", value: &f.password, secret: true},
		promptField{title: "Repeat password", value: &f.passwordCheck, secret: true},
	)
}

func (f *registrationForm) submission() client.FormSubmission {
	return client.FormSubmission{
		client.FieldEmail:         f.email,
		client.FieldPhone:         f.phone,
		client.FieldFirstName:     f.firstName,
		client.FieldLastName:      f.lastName,
		client.FieldNick:          f.nick,
		client.FieldPassword:      f.password,
		client.FieldPasswordCheck: f.passwordCheck,
	}
}

func NewCmdRegister() *cobra.Command {
	var form registrationForm

	cmd := &cobra.Command{
		Use:     "register",
		Short:   "Create an account",
		Aliases: []string{"signup"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := form.prompt(); err != nil {
				cmd.PrintErrln("failed to read registration form:", err)
				return ExitError{1}
			}

			pc, err := newPanelClient(cmd)
			if err != nil {
				cmd.PrintErrln(err)
				return ExitError{1}
			}
			defer pc.Close()

			pc.SetTabs(newTabs(cmd.ErrOrStderr(), RegistrationTab))

			err = pc.Register(cmd.Context(), form.submission())
			pc.Settle()
			if err != nil {
				return ExitError{1}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&form.email, "email", "", "Account email")
	cmd.Flags().StringVar(&form.phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&form.firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&form.lastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&form.nick, "nick", "", "Nickname")
	cmd.Flags().StringVar(&form.password, "password", "", "Password")
	cmd.Flags().StringVar(&form.passwordCheck, "password-check", "", "Password confirmation")

	return cmd
}
