package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agrimarket/agrimarket/internal/cli/client"
	"github.com/agrimarket/agrimarket/internal/cli/config"
	"github.com/agrimarket/agrimarket/internal/cli/userconfig"
	"github.com/agrimarket/agrimarket/internal/guard"
	"github.com/agrimarket/agrimarket/internal/session"
	"github.com/agrimarket/agrimarket/internal/storage"
)

// ErrNotLoggedIn is returned by commands that need a session
var ErrNotLoggedIn = errors.New("not logged in (run 'agrimarket login' first)")

// App holds everything a command needs for one invocation
type App struct {
	cfg    *config.Config
	repo   storage.Repository
	store  *session.Store
	router *guard.Router
	api    *client.Client
	out    io.Writer
	prompt Prompter
	log    zerolog.Logger
}

// AppFactory builds the App for a command invocation
type AppFactory func(ctx context.Context) (*App, error)

type appOptions struct {
	repo       storage.Repository
	httpClient *http.Client
	out        io.Writer
	prompter   Prompter
	log        zerolog.Logger
}

// Option configures NewApp
type Option func(*appOptions)

// WithRepository uses repo instead of opening the configured backend
func WithRepository(repo storage.Repository) Option {
	return func(o *appOptions) { o.repo = repo }
}

// WithHTTPClient replaces the API client's HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *appOptions) { o.httpClient = httpClient }
}

// WithOutput redirects command output
func WithOutput(w io.Writer) Option {
	return func(o *appOptions) { o.out = w }
}

// WithPrompter replaces the terminal prompter
func WithPrompter(p Prompter) Option {
	return func(o *appOptions) { o.prompter = p }
}

// WithLogger sets the logger handed to every component
func WithLogger(log zerolog.Logger) Option {
	return func(o *appOptions) { o.log = log }
}

// NewApp wires storage, session store, router and API client together and
// loads the persisted session
func NewApp(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := appOptions{
		out: os.Stdout,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.prompter == nil {
		o.prompter = newTerminalPrompter(o.out)
	}

	repo := o.repo
	if repo == nil {
		dir, err := userconfig.GetConfigDir()
		if err != nil {
			return nil, err
		}
		repo, err = storage.Open(ctx, cfg.StorageOptions(dir), o.log)
		if err != nil {
			return nil, fmt.Errorf("failed to open session storage: %w", err)
		}
	}

	a := &App{
		cfg:    cfg,
		repo:   repo,
		out:    o.out,
		prompt: o.prompter,
		log:    o.log,
	}

	clientOpts := []client.Option{
		client.WithTokenSource(client.TokenFunc(func() string { return a.store.Token() })),
		client.WithUnauthorizedHandler(a.onUnauthorized),
		client.WithLogger(o.log),
		client.WithTimeout(cfg.Timeout),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	a.api = client.New(cfg.APIURL, clientOpts...)

	// A nil authenticator sends every login down the demo path
	var remote session.Authenticator
	if !cfg.Offline {
		remote = a.api
	}
	a.store = session.NewStore(repo, remote, o.log)
	a.router = guard.NewRouter(a.store, guard.DefaultRoutes(), o.log)

	a.store.Initialize(ctx)
	return a, nil
}

// onUnauthorized is the single place a rejected token is handled: the
// session is cleared and the visitor is sent to the login view
func (a *App) onUnauthorized(ctx context.Context) {
	a.store.Expire(ctx)
	a.router.Expire()
	fmt.Fprintln(a.out, "Your session has expired. Please log in again with: agrimarket login")
}

// Close releases the session storage
func (a *App) Close() error {
	return a.repo.Close()
}

// Store returns the session store
func (a *App) Store() *session.Store {
	return a.store
}

// Router returns the navigator
func (a *App) Router() *guard.Router {
	return a.router
}

func (a *App) requireUser() (*session.User, error) {
	user := a.store.CurrentUser()
	if user == nil {
		return nil, ErrNotLoggedIn
	}
	return user, nil
}

// run builds the App for cmd, runs fn and closes the App
func run(cmd *cobra.Command, factory AppFactory, fn func(ctx context.Context, a *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := factory(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close session storage")
		}
	}()

	return fn(ctx, a)
}
