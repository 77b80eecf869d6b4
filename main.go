package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/dokuhost/dokuhost/internal/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cmd.NewCmdRoot()
	if err := root.ExecuteContext(ctx); err != nil {
		var exitErr cmd.ExitError
		if errors.As(err, &exitErr) {
			stop()
			os.Exit(exitErr.Code)
		}

		root.PrintErrln(err)
		stop()
		os.Exit(1)
	}
}
