// Package session owns the identity of whoever is using the client: the
// current user, the optional bearer token, and the rules for creating them
// when the remote marketplace API cannot be reached.
package session

import (
	"fmt"
	"strings"
)

// UserType is the marketplace role of a user
type UserType string

const (
	UserTypeFarmer  UserType = "FARMER"
	UserTypeBuyer   UserType = "BUYER"
	UserTypeAdvisor UserType = "ADVISOR"
)

// UserTypes lists every known role in display order
var UserTypes = []UserType{UserTypeFarmer, UserTypeBuyer, UserTypeAdvisor}

// Valid reports whether t is a known role
func (t UserType) Valid() bool {
	switch t {
	case UserTypeFarmer, UserTypeBuyer, UserTypeAdvisor:
		return true
	}
	return false
}

// ParseUserType accepts a role name in any case. An empty string parses to
// the empty UserType so callers can tell "not given" apart from FARMER.
func ParseUserType(s string) (UserType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	t := UserType(strings.ToUpper(s))
	if !t.Valid() {
		return "", fmt.Errorf("invalid user type %q, must be one of: FARMER, BUYER, ADVISOR", s)
	}
	return t, nil
}

// User is the normalized identity persisted under the "user" key
type User struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	UserType UserType `json:"userType"`
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
