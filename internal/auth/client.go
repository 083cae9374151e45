package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
)

// Client calls the backend authentication endpoints.
type Client struct {
	api *apiclient.Client
}

// NewClient constructs the auth client.
func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, in LoginInput) (authResponse, error) {
	return c.post(ctx, "/login", in)
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (authResponse, error) {
	return c.post(ctx, "/register", in)
}

// Logout revokes the token carried by ctx.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.api.Post(ctx, "/logout", nil)
	return err
}

func (c *Client) post(ctx context.Context, path string, body any) (authResponse, error) {
	raw, err := c.api.Post(ctx, path, body)
	if err != nil {
		return authResponse{}, err
	}
	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return authResponse{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return resp, nil
}
