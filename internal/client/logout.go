package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dokuhost/dokuhost/internal/notify"
)

// Logout ends the session and navigates to the site root after
// LogoutRedirectDelay.
func (c *Client) Logout(ctx context.Context) error {
	res, err := c.post(ctx, LogoutPath, nil)
	if err != nil {
		c.logger.Error("logout request failed", "error", err)
		return c.fail(c.messages.NetworkError, err)
	}

	if !res.ok() {
		if !json.Valid(res.body) {
			return c.fail(c.messages.NetworkError, fmt.Errorf("%w: status %d", ErrInvalidResponse, res.status))
		}

		c.logger.Error("logout rejected", "status", res.status, "body", string(res.body))
		return c.fail(c.messages.LogoutFailed, &APIError{Status: res.status, Message: c.messages.LogoutFailed})
	}

	c.notifier.Notify(c.messages.LogoutSucceeded, notify.Success)
	c.sched.AfterFunc(LogoutRedirectDelay, func() {
		c.nav.Navigate("/")
	})

	return nil
}
