package session

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/agrimarket/agrimarket/internal/storage"
)

const (
	demoFarmerID int64 = 1
	demoBuyerID  int64 = 2

	defaultDemoName = "Demo User"
)

// InferUserType picks the demo role for an email. Role words in the address
// win over the caller's hint; with neither, the user is a farmer.
func InferUserType(email string, hint UserType) UserType {
	switch {
	case strings.Contains(email, "buyer"), strings.Contains(email, "customer"):
		return UserTypeBuyer
	case strings.Contains(email, "farmer"), strings.Contains(email, "farm"):
		return UserTypeFarmer
	case hint != "":
		return hint
	default:
		return UserTypeFarmer
	}
}

// demoID is the fixed identifier given to synthesized accounts
func demoID(t UserType) int64 {
	if t == UserTypeBuyer {
		return demoBuyerID
	}
	return demoFarmerID
}

// SynthesizeUser builds the identity used when the remote service cannot
// vouch for the email
func SynthesizeUser(email string, hint UserType) *User {
	userType := InferUserType(email, hint)

	name, _, _ := strings.Cut(email, "@")
	if name == "" {
		name = defaultDemoName
	}

	return &User{
		ID:       demoID(userType),
		Name:     name,
		Email:    email,
		UserType: userType,
	}
}

// fallbackLocal resolves the demo identity for email, preferring one saved by
// an offline registration of the same address
func (s *Store) fallbackLocal(ctx context.Context, email string, hint UserType) *User {
	if registered := s.registeredIdentity(ctx); registered != nil && registered.Email == email {
		return registered
	}
	return SynthesizeUser(email, hint)
}

// registeredIdentity returns the identity saved by an offline registration.
// A record that cannot be read is treated as absent.
func (s *Store) registeredIdentity(ctx context.Context) *User {
	raw, err := s.repo.Get(ctx, storage.KeyRegisteredUser)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Warn().Err(err).Msg("Ignoring registered user that could not be loaded")
		}
		return nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.log.Warn().Err(err).Msg("Ignoring unreadable registered user record")
		return nil
	}
	return &user
}
