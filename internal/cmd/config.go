package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/cli/go-gh/v2/pkg/tableprinter"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dokuhost/dokuhost/internal/config"
	"github.com/dokuhost/dokuhost/internal/utils"
)

type ConfigEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func levelName(level slog.Level) string {
	if level >= config.LevelNone {
		return "none"
	}
	return level.String()
}

func configEntries(conf *config.Config, configPath string) []ConfigEntry {
	token := ""
	if conf.Session.Token != "" {
		token = "***"
	}

	return []ConfigEntry{
		{"url", conf.URL},
		{"locale", conf.Locale},
		{"timeout", conf.Timeout.String()},
		{"session.cookie", conf.Session.Cookie},
		{"session.token", token},
		{"log.level", levelName(conf.Log.Level)},
		{"log.format", conf.Log.Format},
		{"log.output", conf.Log.Output},
		{"file", configPath},
	}
}

func NewCmdConfig() *cobra.Command {
	var flags struct {
		json bool
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := k.Decode()
			if err != nil {
				cmd.PrintErrln("invalid configuration:", err)
				return ExitError{1}
			}

			entries := configEntries(conf, utils.FindConfigPath())

			if flags.json {
				values := make(map[string]string, len(entries))
				for _, e := range entries {
					values[e.Key] = e.Value
				}

				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetEscapeHTML(false)
				if isatty.IsTerminal(os.Stdout.Fd()) {
					encoder.SetIndent("", "  ")
				}

				if err := encoder.Encode(values); err != nil {
					cmd.PrintErrf("failed to encode config as json: %v\n", err)
					return ExitError{1}
				}

				return nil
			}

			var printer tableprinter.TablePrinter
			if isatty.IsTerminal(os.Stdout.Fd()) {
				width, _, err := term.GetSize(int(os.Stdout.Fd()))
				if err != nil {
					return fmt.Errorf("failed to get terminal size: %w", err)
				}

				printer = tableprinter.New(cmd.OutOrStdout(), true, width)
			} else {
				printer = tableprinter.New(cmd.OutOrStdout(), false, 0)
			}

			printer.AddHeader([]string{"Key", "Value"})
			for _, e := range entries {
				printer.AddField(e.Key)
				printer.AddField(e.Value)
				printer.EndRow()
			}

			return printer.Render()
		},
	}

	cmd.Flags().BoolVar(&flags.json, "json", false, "output as json")

	return cmd
}
