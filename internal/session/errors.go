package session

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrAuthentication is matched by validation failures from Login
	ErrAuthentication = errors.New("login failed - please provide email and password")
	// ErrRegistration is matched by validation failures from Register
	ErrRegistration = errors.New("registration failed - please provide all required information")
	// ErrRemoteUnavailable is reported when no remote authenticator is configured
	ErrRemoteUnavailable = errors.New("remote authentication service unavailable")
	// ErrMissingToken is reported when the remote sign-in answered without a token
	ErrMissingToken = errors.New("remote sign-in response carried no token")
)

// ValidationError reports missing required input to Login or Register.
// It unwraps to ErrAuthentication or ErrRegistration.
type ValidationError struct {
	Fields []string
	err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.err.Error()
	}
	return fmt.Sprintf("%s (missing: %s)", e.err.Error(), strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error {
	return e.err
}
