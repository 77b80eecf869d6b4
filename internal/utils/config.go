package utils

import (
	"sync"

	"github.com/dokuhost/dokuhost/internal/config"
	"github.com/knadh/koanf/v2"
)

// Config holds the merged configuration sources. A reload may happen while
// commands read it, hence the lock.
type Config struct {
	mu sync.RWMutex
	k  *koanf.Koanf
}

func NewConfig() *Config {
	return &Config{
		k: koanf.New("."),
	}
}

// Reload replaces the loaded keys with the ones produced by load. On error the
// previous keys are kept.
func (c *Config) Reload(load func(k *koanf.Koanf) error) error {
	fresh := koanf.New(".")
	if err := load(fresh); err != nil {
		return err
	}

	c.mu.Lock()
	c.k = fresh
	c.mu.Unlock()

	return nil
}

func (c *Config) String(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.k.String(key)
}

func (c *Config) Decode() (*config.Config, error) {
	c.mu.RLock()
	raw := c.k.Raw()
	c.mu.RUnlock()

	return config.Decode(raw)
}
