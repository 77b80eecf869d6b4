package config

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

const (
	DefaultURL           = "http://localhost:8000"
	DefaultSessionCookie = "users_access_token"

	// LevelNone disables logging.
	LevelNone = slog.Level(100)
)

// Defaults are loaded below every other configuration source.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"url":            DefaultURL,
		"locale":         "en",
		"timeout":        "0",
		"session.cookie": DefaultSessionCookie,
		"log.level":      "info",
		"log.format":     "",
		"log.output":     "stderr",
	}
}

type Session struct {
	Cookie string `mapstructure:"cookie" json:"cookie"`
	Token  string `mapstructure:"token" json:"token,omitempty"`
}

type Log struct {
	Level  slog.Level `mapstructure:"level" json:"level"`
	Format string     `mapstructure:"format" json:"format"`
	Output string     `mapstructure:"output" json:"output"`
}

// Config represents the top-level configuration
type Config struct {
	URL    string `mapstructure:"url" json:"url"`
	Locale string `mapstructure:"locale" json:"locale"`
	// Timeout bounds each request. Zero leaves requests unbounded.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
	Session Session       `mapstructure:"session" json:"session"`
	Log     Log           `mapstructure:"log" json:"log"`
}

// ParseLevel accepts slog level names, "none", and the numeric debug levels:
// 0 silent, 1 errors, 2 warnings, 3 everything.
func ParseLevel(s string) (slog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch s {
	case "none", "off", "0":
		return LevelNone, nil
	case "1":
		return slog.LevelError, nil
	case "2":
		return slog.LevelWarn, nil
	case "3":
		return slog.LevelDebug, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return LevelNone, nil
		}
		return slog.LevelDebug, nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level: %q", s)
	}

	return level, nil
}

// LevelDecodeHook decodes log levels written as names or debug numbers.
func LevelDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(slog.Level(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			return ParseLevel(v)
		case int:
			return ParseLevel(strconv.Itoa(v))
		case int64:
			return ParseLevel(strconv.FormatInt(v, 10))
		case float64:
			return ParseLevel(strconv.Itoa(int(v)))
		}

		return data, nil
	}
}

// DurationDecodeHook accepts Go durations ("30s") and plain numbers of seconds.
func DurationDecodeHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			if n, err := strconv.ParseFloat(v, 64); err == nil {
				return time.Duration(n * float64(time.Second)), nil
			}
			return time.ParseDuration(v)
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		}

		return data, nil
	}
}

// Decode decodes a nested configuration map into a Config.
func Decode(input map[string]interface{}) (*Config, error) {
	var result Config

	config := &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			LevelDecodeHook(),
			DurationDecodeHook(),
		),
		WeaklyTypedInput: true,
		Result:           &result,
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(input); err != nil {
		return nil, err
	}

	if result.Timeout < 0 {
		return nil, fmt.Errorf("timeout must not be negative, got %s", result.Timeout)
	}

	if result.Session.Cookie == "" {
		result.Session.Cookie = DefaultSessionCookie
	}

	return &result, nil
}
