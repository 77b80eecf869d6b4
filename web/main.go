//go:build js && wasm

package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/dokuhost/dokuhost/internal/bootstrap"
	"github.com/dokuhost/dokuhost/internal/client"
	"github.com/dokuhost/dokuhost/internal/config"
	"github.com/dokuhost/dokuhost/internal/dom"
	"github.com/dokuhost/dokuhost/internal/dom/jsdom"
	"github.com/dokuhost/dokuhost/internal/notify"
	"github.com/dokuhost/dokuhost/internal/schedule"
)

// Set at link time, e.g. -ldflags "-X main.logLevel=3 -X main.locale=ru".
var (
	logLevel = "0"
	locale   = "ru"
)

func main() {
	level, err := config.ParseLevel(logLevel)
	if err != nil {
		level = config.LevelNone
	}

	logger := slog.New(slog.DiscardHandler)
	if level < config.LevelNone {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}

	messages, err := client.Catalog(locale)
	if err != nil {
		logger.Error("unknown locale, falling back to english", "locale", locale)
		messages = client.English
	}

	doc := jsdom.New()
	timers := schedule.New()

	c, err := client.New(client.Options{
		BaseURL: jsdom.Origin(),
		HTTPClient: &http.Client{
			Transport: client.IncludeCredentials(http.DefaultTransport),
		},
		Notifier:  notify.New(dom.NewSurface(doc), timers, logger),
		Navigator: jsdom.Location{},
		Scheduler: timers,
		Messages:  &messages,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("failed to create client", "error", err)
		return
	}

	bootstrap.Run(bootstrap.Options{
		Document: doc,
		Client:   c,
		Logger:   logger,
	})

	select {}
}
