package utils

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// FindConfigPath returns the first existing config file under
// $XDG_CONFIG_HOME/dokuhost, or the jsonc path a new file should be written to.
func FindConfigPath() string {
	if env, ok := os.LookupEnv("DOKUHOST_CONFIG"); ok {
		return env
	}

	for _, candidate := range []string{"config.json", "config.jsonc"} {
		configPath := filepath.Join(xdg.ConfigHome, "dokuhost", candidate)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	return filepath.Join(xdg.ConfigHome, "dokuhost", "config.jsonc")
}
