package session

import (
	"context"
	"encoding/json"
)

// SignInResponse is the payload of a successful remote sign-in
type SignInResponse struct {
	Token    string   `json:"token"`
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	UserType UserType `json:"userType"`
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Name     string   `json:"name" validate:"required"`
	Email    string   `json:"email" validate:"required"`
	Password string   `json:"password" validate:"required"`
	UserType UserType `json:"userType"`
}

// Authenticator is the remote authentication service
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*SignInResponse, error)
	SignUp(ctx context.Context, req RegisterRequest) (json.RawMessage, error)
}

// ProfileSource returns the profile of the user behind the current token
type ProfileSource interface {
	Me(ctx context.Context) (*SignInResponse, error)
}

// tryRemote signs in against the remote service and normalizes the answer
func (s *Store) tryRemote(ctx context.Context, email, password string) (*User, string, error) {
	if s.remote == nil {
		return nil, "", ErrRemoteUnavailable
	}

	resp, err := s.remote.SignIn(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	if resp.Token == "" {
		return nil, "", ErrMissingToken
	}

	return &User{
		ID:       resp.ID,
		Name:     resp.Name,
		Email:    resp.Email,
		UserType: resp.UserType,
	}, resp.Token, nil
}
