package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dokuhost/dokuhost/internal/errfmt"
	"github.com/dokuhost/dokuhost/internal/notify"
)

// ActionPath is the endpoint performing action on a service.
func ActionPath(serviceID, action string) string {
	return fmt.Sprintf("/services/%s/%s", url.PathEscape(serviceID), url.PathEscape(action))
}

// PerformAction runs action (start, stop, restart...) on a service and
// reloads the page after ReloadDelay.
func (c *Client) PerformAction(ctx context.Context, action string, serviceID string) error {
	c.logger.Info("performing service action", "action", action, "service", serviceID)

	res, err := c.post(ctx, ActionPath(serviceID, action), nil)
	if err != nil {
		c.logger.Error("service action request failed", "error", err)
		return c.fail(c.messages.NetworkError, err)
	}

	if !res.ok() {
		if !json.Valid(res.body) {
			return c.fail(c.messages.NetworkError, fmt.Errorf("%w: status %d", ErrInvalidResponse, res.status))
		}

		c.logger.Error("service action rejected", "status", res.status, "body", string(res.body))
		message := c.actionError(res.body)
		return c.fail(message, &APIError{Status: res.status, Message: message})
	}

	c.notifier.Notify(c.messages.ActionText(action), notify.Success)
	c.sched.AfterFunc(ReloadDelay, c.nav.Reload)

	return nil
}

func (c *Client) actionError(body []byte) string {
	payload, _ := errfmt.Parse(body)

	switch {
	case payload.Detail.IsList:
		return c.messages.Errors.Format(payload)
	case payload.Detail.Text != "":
		return payload.Detail.Text
	default:
		return c.messages.ActionFailed
	}
}
