package api

import (
	"context"
	"net/http"

	"github.com/tgienger/pmt/internal/models"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResult struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a token and user.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/login", creds, &res)
	return res, err
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, reg Registration) (RegisterResult, error) {
	var res RegisterResult
	err := c.do(ctx, http.MethodPost, "/register", reg, &res)
	return res, err
}

// DashboardStats fetches the server-derived counts.
func (c *Client) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var stats models.DashboardStats
	err := c.do(ctx, http.MethodGet, "/dashboard-stats", nil, &stats)
	return stats, err
}
