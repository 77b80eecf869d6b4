package client

import (
	"fmt"
	"strings"

	"github.com/dokuhost/dokuhost/internal/errfmt"
)

// Messages is the catalog of user-facing strings.
type Messages struct {
	Errors errfmt.Messages

	PasswordMismatch string
	RegisterFailed   string
	UnknownError     string
	InvalidResponse  string
	LoginSucceeded   string
	LoginFailed      string
	LogoutSucceeded  string
	LogoutFailed     string
	NetworkError     string
	ActionFailed     string
	// ServiceDone receives the past-tense verb of the action.
	ServiceDone string
	Verbs       map[string]string
	DefaultVerb string
}

var English = Messages{
	Errors:           errfmt.English,
	PasswordMismatch: "Passwords do not match!",
	RegisterFailed:   "An error occurred during registration. Please try again.",
	UnknownError:     "Unknown error",
	InvalidResponse:  "Invalid response format from server",
	LoginSucceeded:   "Login successful!",
	LoginFailed:      "An error occurred while signing in. Please try again.",
	LogoutSucceeded:  "Logged out successfully",
	LogoutFailed:     "Logout failed",
	NetworkError:     "Network error",
	ActionFailed:     "Failed to perform action",
	ServiceDone:      "Service successfully %s",
	Verbs: map[string]string{
		"start":   "started",
		"stop":    "stopped",
		"restart": "restarted",
	},
	DefaultVerb: "updated",
}

var Russian = Messages{
	Errors:           errfmt.Russian,
	PasswordMismatch: "Пароли не совпадают!",
	RegisterFailed:   "Произошла ошибка при регистрации. Пожалуйста, попробуйте снова.",
	UnknownError:     "Неизвестная ошибка",
	InvalidResponse:  "Неверный формат ответа от сервера",
	LoginSucceeded:   "Авторизация успешна!",
	LoginFailed:      "Произошла ошибка при входе. Пожалуйста, попробуйте снова.",
	LogoutSucceeded:  "Выход выполнен успешно",
	LogoutFailed:     "Ошибка при выходе",
	NetworkError:     "Ошибка сети",
	ActionFailed:     "Ошибка при выполнении действия",
	ServiceDone:      "Сервис успешно %s",
	Verbs: map[string]string{
		"start":   "запущен",
		"stop":    "остановлен",
		"restart": "перезапущен",
	},
	DefaultVerb: "обновлен",
}

// Catalog returns the messages for locale. An empty locale selects English.
func Catalog(locale string) (Messages, error) {
	switch strings.ToLower(locale) {
	case "", "en":
		return English, nil
	case "ru":
		return Russian, nil
	default:
		return Messages{}, fmt.Errorf("unsupported locale: %s", locale)
	}
}

// ActionText is the success message for action.
func (m Messages) ActionText(action string) string {
	verb, ok := m.Verbs[action]
	if !ok {
		verb = m.DefaultVerb
	}

	return fmt.Sprintf(m.ServiceDone, verb)
}
