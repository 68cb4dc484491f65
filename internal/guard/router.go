package guard

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/agrimarket/agrimarket/internal/session"
)

// Router applies guard decisions to a navigation history and remembers
// the pending target across a login redirect. The pending target lives only
// as long as the router.
type Router struct {
	sess   SessionReader
	routes *Routes
	log    zerolog.Logger

	mu      sync.Mutex
	pending string
	history []string
}

// NewRouter creates a router over the given session and routes
func NewRouter(sess SessionReader, routes *Routes, log zerolog.Logger) *Router {
	return &Router{
		sess:   sess,
		routes: routes,
		log:    log.With().Str("component", "router").Logger(),
	}
}

// Routes returns the route table
func (r *Router) Routes() *Routes {
	return r.routes
}

// Navigate evaluates a navigation to path and records the result. A blocked
// view never enters the history; the redirect target takes its place.
func (r *Router) Navigate(path string) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.navigate(normalizePath(path))
}

func (r *Router) navigate(path string) Decision {
	d := Evaluate(r.sess, r.routes.Lookup(path), path)

	r.log.Debug().
		Str("path", path).
		Str("state", d.State.String()).
		Str("action", string(d.Action)).
		Str("target", d.Target).
		Msg("Navigation evaluated")

	switch d.Action {
	case ActionRender:
		r.history = append(r.history, d.View.Path)
	case ActionRedirect:
		if d.Target == PathLogin {
			r.pending = d.From
		}
		r.history = append(r.history, d.Target)
	case ActionLoading:
		// Nothing is decided until the session has loaded
	}
	return d
}

// CompleteLogin moves a freshly logged-in user to the pending target, or
// to the default view for their role when nothing is pending. The login
// view is replaced in history.
func (r *Router) CompleteLogin(user *session.User) Decision {
	r.mu.Lock()
	defer r.mu.Unlock()

	dest := r.pending
	r.pending = ""
	if dest == "" && user != nil {
		dest = DefaultDestination(user.UserType)
	}
	if dest == "" {
		dest = PathLanding
	}

	if n := len(r.history); n > 0 && r.history[n-1] == PathLogin {
		r.history = r.history[:n-1]
	}
	return r.navigate(dest)
}

// Expire sends the visitor to the login view after the remote service
// rejected the session credential
func (r *Router) Expire() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = ""
	r.history = append(r.history, PathLogin)
}

// Pending returns the path captured by the last login redirect
func (r *Router) Pending() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

// Current returns the most recent history entry
func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// History returns a copy of the navigation history
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}
