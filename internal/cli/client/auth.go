package client

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agrimarket/agrimarket/internal/session"
)

var _ session.Authenticator = (*Client)(nil)
var _ session.ProfileSource = (*Client)(nil)

// LoginRequest represents the sign-in request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn authenticates the user and returns the token and profile
func (c *Client) SignIn(ctx context.Context, email, password string) (*session.SignInResponse, error) {
	var resp session.SignInResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "auth/signin",
		body:   LoginRequest{Email: email, Password: password},
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// SignUp registers a new account and returns the response body verbatim
func (c *Client) SignUp(ctx context.Context, req session.RegisterRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "auth/signup",
		body:   req,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// Me returns the profile of the user behind the current token
func (c *Client) Me(ctx context.Context) (*session.SignInResponse, error) {
	var resp session.SignInResponse
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "auth/me",
		auth:   true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
