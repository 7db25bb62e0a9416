package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Actions, relative to the base URL.
const (
	ActionStats    = "stats"
	ActionScopes   = "scopes"
	ActionMailSend = "mail/send"
)

// DateLayout is the date format the stats endpoint expects.
const DateLayout = "2006-01-02"

// GetStats retrieves global account statistics starting at startDate.
func (c *Client) GetStats(ctx context.Context, startDate time.Time) (json.RawMessage, error) {
	resp, err := c.Do(ctx, Request{
		Action:  ActionStats,
		Options: map[string]any{"start_date": startDate.Format(DateLayout)},
		Method:  http.MethodGet,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// GetScopes lists the permission scopes granted to the API key. The
// result is the "scopes" member when present, else the whole body.
func (c *Client) GetScopes(ctx context.Context) (json.RawMessage, error) {
	resp, err := c.Do(ctx, Request{
		Action:    ActionScopes,
		Options:   map[string]any{},
		Method:    http.MethodGet,
		ReturnKey: "scopes",
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// SendMail posts a mail/send payload.
func (c *Client) SendMail(ctx context.Context, message any) (*Response, error) {
	return c.Do(ctx, Request{
		Action:  ActionMailSend,
		Options: message,
		Method:  http.MethodPost,
	})
}
