package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/agrimarket/agrimarket/internal/apitest"
	"github.com/agrimarket/agrimarket/internal/cli/config"
	"github.com/agrimarket/agrimarket/internal/session"
	"github.com/agrimarket/agrimarket/internal/storage"
)

// fakePrompter answers prompts from canned values
type fakePrompter struct {
	interactive bool
	inputs      map[string]string
	password    string
	userType    session.UserType
	asked       []string
}

func (f *fakePrompter) Interactive() bool { return f.interactive }

func (f *fakePrompter) Input(label, defaultValue string) (string, error) {
	f.asked = append(f.asked, label)
	if v, ok := f.inputs[label]; ok {
		return v, nil
	}
	return defaultValue, nil
}

func (f *fakePrompter) Password(label string) (string, error) {
	f.asked = append(f.asked, label)
	return f.password, nil
}

func (f *fakePrompter) SelectUserType(label string, defaultType session.UserType) (session.UserType, error) {
	f.asked = append(f.asked, label)
	if f.userType != "" {
		return f.userType, nil
	}
	return defaultType, nil
}

type testEnv struct {
	app    *App
	api    *apitest.Server
	repo   *storage.MemoryRepository
	out    *bytes.Buffer
	prompt *fakePrompter
}

type envOption func(*config.Config)

func offline() envOption {
	return func(c *config.Config) { c.Offline = true }
}

// newTestEnv builds an App against a fresh fake API with in-memory storage
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	t.Setenv("AGRIMARKET_CONFIG_DIR", t.TempDir())
	t.Setenv("AGRIMARKET_EMAIL", "")
	t.Setenv("AGRIMARKET_PASSWORD", "")

	api := apitest.New(t)
	cfg := config.DefaultConfig()
	cfg.APIURL = api.APIURL()
	for _, opt := range opts {
		opt(cfg)
	}

	env := &testEnv{
		api:    api,
		repo:   storage.NewMemoryRepository(),
		out:    &bytes.Buffer{},
		prompt: &fakePrompter{},
	}

	app, err := NewApp(context.Background(), cfg,
		WithRepository(env.repo),
		WithOutput(env.out),
		WithPrompter(env.prompt),
	)
	require.NoError(t, err)
	env.app = app
	return env
}

func (e *testEnv) factory() AppFactory {
	return func(context.Context) (*App, error) { return e.app, nil }
}

// exec runs one command and returns what it printed
func (e *testEnv) exec(t *testing.T, newCmd func(AppFactory) *cobra.Command, args ...string) (string, error) {
	t.Helper()

	e.out.Reset()
	cmd := newCmd(e.factory())
	cmd.SetArgs(args)
	cmd.SetOut(e.out)
	cmd.SetErr(e.out)
	cmd.SetContext(context.Background())
	err := cmd.Execute()
	return e.out.String(), err
}

// loginAsSeedFarmer signs in with the account every fake API has
func (e *testEnv) loginAsSeedFarmer(t *testing.T) {
	t.Helper()
	_, err := e.exec(t, NewLoginCmd, "--email", apitest.SeedFarmerEmail, "--password", apitest.SeedFarmerPassword, "--no-open")
	require.NoError(t, err)
	require.True(t, e.app.Store().IsAuthenticated())
}
