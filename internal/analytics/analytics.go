// Package analytics fetches the read-only admin usage report. It shares
// nothing with the chat core beyond the gateway.
package analytics

import (
	"context"

	"ragify/internal/gateway"
)

// UserTotals breaks the user count down by role.
type UserTotals struct {
	Total        int `json:"total"`
	Admins       int `json:"admins"`
	RegularUsers int `json:"regular_users"`
}

// PerUserStats is one row of the per-user activity table.
type PerUserStats struct {
	Username     string `json:"username"`
	Documents    int    `json:"documents"`
	ChatSessions int    `json:"chat_sessions"`
	ChatMessages int    `json:"chat_messages"`
}

// Report mirrors the admin analytics payload.
type Report struct {
	Users        UserTotals     `json:"users"`
	PerUserStats []PerUserStats `json:"per_user_stats"`
	Documents    struct {
		Total int `json:"total"`
	} `json:"documents"`
	Chat struct {
		TotalSessions int `json:"total_sessions"`
		TotalMessages int `json:"total_messages"`
	} `json:"chat"`
	Chunks struct {
		Total int `json:"total"`
	} `json:"chunks"`
}

// Client fetches analytics.
type Client struct {
	gw *gateway.Client
}

// NewClient wraps the gateway for analytics calls.
func NewClient(gw *gateway.Client) *Client {
	return &Client{gw: gw}
}

// Fetch returns the aggregate report. Non-admins get a server-side 403,
// surfaced as a plain APIError.
func (c *Client) Fetch(ctx context.Context) (*Report, error) {
	var report Report
	if _, err := c.gw.Get(ctx, "/admin/analytics/", &report); err != nil {
		return nil, err
	}
	return &report, nil
}
