package client

import (
	"context"

	"github.com/dokuhost/dokuhost/internal/notify"
)

// Login submits the credentials form. The raw body is read first: a body that
// is not JSON is reported as an invalid response whatever the status.
func (c *Client) Login(ctx context.Context, form FormSubmission) error {
	c.logger.Info("submitting login", FieldEmail, form[FieldEmail])

	res, err := c.post(ctx, LoginPath, form)
	if err != nil {
		c.logger.Error("login request failed", "error", err)
		return c.fail(c.messages.LoginFailed, err)
	}

	result, err := decode(res.body)
	if err != nil {
		c.logger.Error("failed to parse login response", "status", res.status, "error", err)
		return c.fail(c.messages.InvalidResponse, err)
	}

	if !res.ok() {
		message := c.messages.Errors.FormatBody(res.body)
		c.logger.Error("login rejected", "status", res.status, "body", string(res.body))
		return c.fail(message, &APIError{Status: res.status, Message: message})
	}

	if result["ok"] != true && !truthy(result["message"]) && !truthy(result["user_id"]) {
		c.logger.Warn("unexpected login response", "body", string(res.body))
		return c.fail(c.messages.UnknownError, ErrUnexpectedResponse)
	}

	message := c.messages.LoginSucceeded
	if truthy(result["message"]) {
		message = text(result["message"])
	}

	target := DefaultRedirect
	if truthy(result["redirect_url"]) {
		target = text(result["redirect_url"])
	}

	c.notifier.Notify(message, notify.Success)
	c.logger.Info("login succeeded, redirecting", "target", target)
	c.sched.AfterFunc(LoginRedirectDelay, func() {
		c.nav.Navigate(target)
	})

	return nil
}
