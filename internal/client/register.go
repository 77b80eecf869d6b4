package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dokuhost/dokuhost/internal/notify"
)

// Register submits the registration form. Mismatching passwords abort before
// any request is made. On success the login tab is activated after
// RegisterTabDelay.
func (c *Client) Register(ctx context.Context, form FormSubmission) error {
	c.logger.Info("submitting registration", "form", form.Redacted())

	if err := checkPasswords(form); err != nil {
		return c.fail(c.messages.PasswordMismatch, err)
	}

	res, err := c.post(ctx, RegisterPath, form)
	if err != nil {
		c.logger.Error("registration request failed", "error", err)
		return c.fail(c.messages.RegisterFailed, err)
	}

	if !res.ok() {
		if !json.Valid(res.body) {
			c.logger.Error("registration failed with unreadable body", "status", res.status)
			return c.fail(c.messages.RegisterFailed, fmt.Errorf("%w: status %d", ErrInvalidResponse, res.status))
		}

		message := c.messages.Errors.FormatBody(res.body)
		c.logger.Error("registration rejected", "status", res.status, "body", string(res.body))
		return c.fail(message, &APIError{Status: res.status, Message: message})
	}

	result, err := decode(res.body)
	if err != nil {
		c.logger.Error("registration response is not json", "error", err)
		return c.fail(c.messages.RegisterFailed, err)
	}

	// A success status without a message still surfaces as an error.
	if !truthy(result["message"]) {
		c.logger.Warn("registration response without message", "body", string(res.body))
		return c.fail(c.messages.UnknownError, ErrUnexpectedResponse)
	}

	c.logger.Info("registration succeeded")
	c.notifier.Notify(text(result["message"]), notify.Success)
	c.sched.AfterFunc(RegisterTabDelay, func() {
		if c.tabs == nil {
			return
		}

		if err := c.tabs.Activate(LoginTab); err != nil {
			c.logger.Error("failed to switch to login tab", "error", err)
		}
	})

	return nil
}
