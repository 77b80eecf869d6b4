package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dokuhost/dokuhost/internal/build"
	"github.com/dokuhost/dokuhost/internal/config"
	"github.com/dokuhost/dokuhost/internal/utils"
)

type ExitError struct {
	Code int
}

func (e ExitError) Error() string {
	return fmt.Sprintf("exit with code %d", e.Code)
}

var (
	k = utils.NewConfig()
)

var envProvider = env.ProviderWithValue("DOKUHOST_", ".", func(s string, v string) (string, interface{}) {
	switch s {
	case "DOKUHOST_URL":
		return "url", v
	case "DOKUHOST_LOCALE":
		return "locale", v
	case "DOKUHOST_TIMEOUT":
		return "timeout", v
	case "DOKUHOST_SESSION_COOKIE":
		return "session.cookie", v
	case "DOKUHOST_SESSION_TOKEN":
		return "session.token", v
	case "DOKUHOST_LOG_LEVEL", "DOKUHOST_DEBUG_LEVEL":
		return "log.level", v
	case "DOKUHOST_LOG_FORMAT":
		return "log.format", v
	case "DOKUHOST_LOG_OUTPUT":
		return "log.output", v
	}

	return "", nil
})

// flagKeys maps persistent flags to configuration keys. Flags missing from
// the map do not take part in configuration.
var flagKeys = map[string]string{
	"url":        "url",
	"locale":     "locale",
	"timeout":    "timeout",
	"log-level":  "log.level",
	"log-format": "log.format",
	"log-output": "log.output",
}

// loadConfig merges, from lowest to highest precedence: defaults, the config
// file, .env and DOKUHOST_* variables, then explicitly set flags.
func loadConfig(k *koanf.Koanf, flags *pflag.FlagSet, configPath string) error {
	if err := k.Load(confmap.Provider(config.Defaults(), "."), nil); err != nil {
		return err
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), utils.ConfigParser()); err != nil {
			return fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := k.Load(envProvider, nil); err != nil {
		return err
	}

	if flags == nil {
		return nil
	}

	flagProvider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}

		return key, posflag.FlagVal(flags, f)
	})

	return k.Load(flagProvider, nil)
}

func NewCmdRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dokuhost",
		Short:         "Manage your dokuhost account and services",
		Version:       build.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath := utils.FindConfigPath()
			if err := k.Reload(func(k *koanf.Koanf) error {
				return loadConfig(k, cmd.Root().PersistentFlags(), configPath)
			}); err != nil {
				cmd.PrintErrln("failed to load configuration:", err)
				return ExitError{1}
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().String("url", "", "Base URL of the dokuhost panel")
	rootCmd.PersistentFlags().String("locale", "", "Language of the messages (en, ru)")
	rootCmd.PersistentFlags().String("timeout", "", "Request timeout, 0 for none")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (none, error, warn, info, debug or 0-3)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (pretty, text, json)")
	rootCmd.PersistentFlags().String("log-output", "", "Log output (stderr, stdout or a file path)")
	rootCmd.PersistentFlags().Bool("open", false, "Open navigation targets in the browser")

	rootCmd.AddCommand(NewCmdLogin())
	rootCmd.AddCommand(NewCmdRegister())
	rootCmd.AddCommand(NewCmdLogout())
	rootCmd.AddCommand(NewCmdService())
	rootCmd.AddCommand(NewCmdPanel())
	rootCmd.AddCommand(NewCmdConfig())

	return rootCmd
}
