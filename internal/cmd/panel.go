package cmd

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/charmbracelet/huh"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/dokuhost/dokuhost/internal/client"
	"github.com/dokuhost/dokuhost/internal/watcher"
)

const quitChoice = "quit"

func NewCmdPanel() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Interactive sign in and registration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pc, err := newPanelClient(cmd)
			if err != nil {
				cmd.PrintErrln(err)
				return ExitError{1}
			}
			defer func() { pc.Close() }()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var dirty atomic.Bool
			w, err := watcher.NewWatcher(pc.configPath, func() {
				if err := k.Reload(func(k *koanf.Koanf) error {
					return loadConfig(k, cmd.Root().PersistentFlags(), pc.configPath)
				}); err != nil {
					pc.logger.Error("failed to reload configuration", "error", err)
					return
				}
				dirty.Store(true)
			}, pc.logger)
			if err != nil {
				cmd.PrintErrln(err)
				return ExitError{1}
			}

			go func() {
				if err := w.Start(ctx); err != nil {
					pc.logger.Warn("config watcher stopped", "error", err)
				}
			}()

			controller := newTabs(cmd.ErrOrStderr(), client.LoginTab)
			pc.SetTabs(controller)

			for {
				if dirty.Swap(false) {
					fresh, err := newPanelClient(cmd)
					if err != nil {
						pc.logger.Error("keeping previous configuration", "error", err)
					} else {
						pc.Close()
						pc = fresh
						pc.SetTabs(controller)
						pc.logger.Info("configuration reloaded")
					}
				}

				choice := controller.Active()
				if err := huh.NewSelect[string]().
					Title("dokuhost").
					Options(
						huh.NewOption(tabTitles[client.LoginTab], client.LoginTab),
						huh.NewOption(tabTitles[RegistrationTab], RegistrationTab),
						huh.NewOption("Quit", quitChoice),
					).
					Value(&choice).
					Run(); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}

					cmd.PrintErrln("failed to read choice:", err)
					return ExitError{1}
				}

				if choice == quitChoice {
					return nil
				}

				if err := controller.Activate(choice); err != nil {
					cmd.PrintErrln(err)
					continue
				}

				switch choice {
				case client.LoginTab:
					var email, password string
					if err := promptMissing(
						promptField{title: "Email", value: &email},
						promptField{title: "Password", value: &password, secret: true},
					); err != nil {
						if errors.Is(err, huh.ErrUserAborted) {
							continue
						}
						return err
					}

					err := pc.Login(ctx, client.FormSubmission{
						client.FieldEmail:    email,
						client.FieldPassword: password,
					})
					pc.Settle()
					if err != nil {
						continue
					}

					// signed in: the page has navigated away
					if _, ok := pc.nav.Last(); ok {
						return nil
					}
				case RegistrationTab:
					var form registrationForm
					if err := form.prompt(); err != nil {
						if errors.Is(err, huh.ErrUserAborted) {
							continue
						}
						return err
					}

					_ = pc.Register(ctx, form.submission())
					pc.Settle()
				}
			}
		},
	}

	return cmd
}
