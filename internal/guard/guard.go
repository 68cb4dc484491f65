// Package guard decides, for every navigation, whether a view may be shown
// to the current session or where the visitor should be sent instead.
package guard

import "github.com/agrimarket/agrimarket/internal/session"

// State is the session state as seen by the guard
type State int

const (
	StateInitializing State = iota
	StateUnauthenticated
	StateWrongRole
	StateOK
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "INITIALIZING"
	case StateUnauthenticated:
		return "UNAUTHENTICATED"
	case StateWrongRole:
		return "AUTHENTICATED_WRONG_ROLE"
	case StateOK:
		return "AUTHENTICATED_OK"
	default:
		return "UNKNOWN"
	}
}

// Action is what the caller should do with a navigation
type Action string

const (
	ActionRender   Action = "render"
	ActionLoading  Action = "loading"
	ActionRedirect Action = "redirect"
)

// Decision is the outcome of evaluating one navigation
type Decision struct {
	State  State
	Action Action
	View   View
	// Target is the redirect destination for ActionRedirect
	Target string
	// Replace asks for the blocked view to be dropped from history
	Replace bool
	// From is the originally requested path when redirecting to login
	From string
}

// SessionReader is the part of the session store the guard depends on
type SessionReader interface {
	Initialized() bool
	CurrentUser() *session.User
}

// Evaluate decides a navigation to view. It never fails and has no side
// effects; the same session and view always give the same decision.
func Evaluate(sess SessionReader, view View, requestedPath string) Decision {
	if !view.Protected {
		return Decision{State: stateOf(sess, view), Action: ActionRender, View: view}
	}

	state := stateOf(sess, view)
	switch state {
	case StateInitializing:
		return Decision{State: state, Action: ActionLoading, View: view}
	case StateUnauthenticated:
		return Decision{
			State:   state,
			Action:  ActionRedirect,
			View:    view,
			Target:  PathLogin,
			Replace: true,
			From:    requestedPath,
		}
	case StateWrongRole:
		return Decision{
			State:   state,
			Action:  ActionRedirect,
			View:    view,
			Target:  PathLanding,
			Replace: true,
		}
	default:
		return Decision{State: state, Action: ActionRender, View: view}
	}
}

func stateOf(sess SessionReader, view View) State {
	if !sess.Initialized() {
		return StateInitializing
	}

	user := sess.CurrentUser()
	if user == nil {
		return StateUnauthenticated
	}
	if view.RequiredRole != "" && user.UserType != view.RequiredRole {
		return StateWrongRole
	}
	return StateOK
}
