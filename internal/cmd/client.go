package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/dokuhost/dokuhost/internal/client"
	"github.com/dokuhost/dokuhost/internal/config"
	"github.com/dokuhost/dokuhost/internal/notify"
	"github.com/dokuhost/dokuhost/internal/schedule"
	"github.com/dokuhost/dokuhost/internal/term"
	"github.com/dokuhost/dokuhost/internal/utils"
)

// panelClient bundles a client with the terminal collaborators it drives.
type panelClient struct {
	*client.Client

	conf       *config.Config
	configPath string
	logger     *slog.Logger
	closer     io.Closer
	timers     *schedule.Timers
	nav        *term.Navigator
}

func newPanelClient(cmd *cobra.Command) (*panelClient, error) {
	conf, err := k.Decode()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, closer, err := utils.NewLogger(conf.Log)
	if err != nil {
		return nil, err
	}

	messages, err := client.Catalog(conf.Locale)
	if err != nil {
		closer.Close()
		return nil, err
	}

	jar, err := client.NewCookieJar(conf.URL, conf.Session.Cookie, conf.Session.Token)
	if err != nil {
		closer.Close()
		return nil, err
	}

	pc := &panelClient{
		conf:       conf,
		configPath: utils.FindConfigPath(),
		logger:     logger,
		closer:     closer,
		timers:     schedule.New(),
	}

	pc.nav = term.NewNavigator(cmd.ErrOrStderr(), func(target string) string {
		return pc.Resolve(target)
	}, logger)
	if open, err := cmd.Flags().GetBool("open"); err == nil {
		pc.nav.Open = open
	}

	// dismissal timers are not waited for: exiting drops pending notifications
	notifier := notify.New(term.NewSurface(cmd.ErrOrStderr()), schedule.New(), logger)

	c, err := client.New(client.Options{
		BaseURL: conf.URL,
		HTTPClient: &http.Client{
			Timeout:   conf.Timeout,
			Jar:       jar,
			Transport: utils.LoggingTransport(http.DefaultTransport, logger),
		},
		Notifier:  notifier,
		Navigator: pc.nav,
		Scheduler: pc.timers,
		Messages:  &messages,
		Logger:    logger,
	})
	if err != nil {
		closer.Close()
		return nil, err
	}
	pc.Client = c

	return pc, nil
}

// Settle waits for the delayed navigations and tab switches of the last
// operation.
func (pc *panelClient) Settle() {
	pc.timers.Wait()
}

func (pc *panelClient) Close() error {
	return pc.closer.Close()
}
