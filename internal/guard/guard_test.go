package guard

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimarket/agrimarket/internal/session"
	"github.com/agrimarket/agrimarket/internal/storage"
)

type fakeSession struct {
	initialized bool
	user        *session.User
}

func (f *fakeSession) Initialized() bool          { return f.initialized }
func (f *fakeSession) CurrentUser() *session.User { return f.user }

func farmer() *session.User {
	return &session.User{ID: 1, Name: "john", Email: "john@farm.com", UserType: session.UserTypeFarmer}
}

func TestEvaluate(t *testing.T) {
	routes := DefaultRoutes()
	dashboard := routes.Lookup(PathFarmerDash)
	admin := routes.Lookup(PathAdminDash)
	market := routes.Lookup(PathMarket)

	tests := []struct {
		name     string
		sess     *fakeSession
		view     View
		path     string
		expected Decision
	}{
		{
			name:     "initializing shows loading",
			sess:     &fakeSession{},
			view:     dashboard,
			path:     PathFarmerDash,
			expected: Decision{State: StateInitializing, Action: ActionLoading, View: dashboard},
		},
		{
			name: "unauthenticated redirects to login",
			sess: &fakeSession{initialized: true},
			view: dashboard,
			path: PathFarmerDash,
			expected: Decision{
				State:   StateUnauthenticated,
				Action:  ActionRedirect,
				View:    dashboard,
				Target:  PathLogin,
				Replace: true,
				From:    PathFarmerDash,
			},
		},
		{
			name: "wrong role redirects to landing",
			sess: &fakeSession{initialized: true, user: farmer()},
			view: admin,
			path: PathAdminDash,
			expected: Decision{
				State:   StateWrongRole,
				Action:  ActionRedirect,
				View:    admin,
				Target:  PathLanding,
				Replace: true,
			},
		},
		{
			name:     "authenticated renders",
			sess:     &fakeSession{initialized: true, user: farmer()},
			view:     dashboard,
			path:     PathFarmerDash,
			expected: Decision{State: StateOK, Action: ActionRender, View: dashboard},
		},
		{
			name:     "advisor renders admin dashboard",
			sess:     &fakeSession{initialized: true, user: &session.User{ID: 3, UserType: session.UserTypeAdvisor}},
			view:     admin,
			path:     PathAdminDash,
			expected: Decision{State: StateOK, Action: ActionRender, View: admin},
		},
		{
			name:     "public view renders without a session",
			sess:     &fakeSession{initialized: true},
			view:     market,
			path:     PathMarket,
			expected: Decision{State: StateUnauthenticated, Action: ActionRender, View: market},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.sess, tt.view, tt.path))
		})
	}
}

func TestEvaluate_DemoSessionPassesGuard(t *testing.T) {
	// A user without a token is still logged in as far as views are concerned
	store := session.NewStore(storage.NewMemoryRepository(), nil, zerolog.Nop())
	store.Initialize(context.Background())

	_, err := store.Login(context.Background(), "john@farm.com", "secret", "")
	require.NoError(t, err)
	require.False(t, store.IsAuthenticated())

	d := Evaluate(store, DefaultRoutes().Lookup(PathCropPrediction), PathCropPrediction)
	assert.Equal(t, ActionRender, d.Action)
}

func TestRoutes_Lookup(t *testing.T) {
	routes := DefaultRoutes()

	assert.Equal(t, PathMarket, routes.Lookup("/market/").Path)
	assert.Equal(t, PathMarket, routes.Lookup("market").Path)
	assert.Equal(t, PathMarket, routes.Lookup("/market?category=GRAINS").Path)
	assert.Equal(t, PathLanding, routes.Lookup("/no-such-page").Path)
	assert.Equal(t, PathLanding, routes.Lookup("").Path)
	assert.Len(t, routes.All(), 8)
}

func TestDefaultDestination(t *testing.T) {
	assert.Equal(t, PathFarmerDash, DefaultDestination(session.UserTypeFarmer))
	assert.Equal(t, PathBuyerDash, DefaultDestination(session.UserTypeBuyer))
	assert.Equal(t, PathAdminDash, DefaultDestination(session.UserTypeAdvisor))
	assert.Equal(t, PathFarmerDash, DefaultDestination(""))
}

func TestRouter_RedirectAndReturn(t *testing.T) {
	store := session.NewStore(storage.NewMemoryRepository(), unreachableAuth{}, zerolog.Nop())
	store.Initialize(context.Background())
	router := NewRouter(store, DefaultRoutes(), zerolog.Nop())

	router.Navigate(PathLanding)
	d := router.Navigate(PathCropPrediction)

	require.Equal(t, ActionRedirect, d.Action)
	assert.Equal(t, PathLogin, d.Target)
	assert.Equal(t, PathCropPrediction, router.Pending())
	assert.Equal(t, []string{PathLanding, PathLogin}, router.History())

	// A buyer would normally land on the buyer dashboard
	user, err := store.Login(context.Background(), "jane@customer.com", "secret", "")
	require.NoError(t, err)

	d = router.CompleteLogin(user)
	assert.Equal(t, ActionRender, d.Action)
	assert.Equal(t, PathCropPrediction, d.View.Path)
	assert.Equal(t, PathCropPrediction, router.Current())
	assert.Empty(t, router.Pending())
	assert.Equal(t, []string{PathLanding, PathCropPrediction}, router.History())
}

func TestRouter_CompleteLoginWithoutPending(t *testing.T) {
	tests := []struct {
		email    string
		expected string
	}{
		{email: "john@farm.com", expected: PathFarmerDash},
		{email: "jane@customer.com", expected: PathBuyerDash},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			store := session.NewStore(storage.NewMemoryRepository(), unreachableAuth{}, zerolog.Nop())
			store.Initialize(context.Background())
			router := NewRouter(store, DefaultRoutes(), zerolog.Nop())

			user, err := store.Login(context.Background(), tt.email, "secret", "")
			require.NoError(t, err)

			d := router.CompleteLogin(user)
			assert.Equal(t, ActionRender, d.Action)
			assert.Equal(t, tt.expected, router.Current())
		})
	}
}

func TestRouter_WrongRole(t *testing.T) {
	router := NewRouter(&fakeSession{initialized: true, user: farmer()}, DefaultRoutes(), zerolog.Nop())

	d := router.Navigate(PathAdminDash)
	assert.Equal(t, StateWrongRole, d.State)
	assert.Equal(t, PathLanding, d.Target)
	assert.NotEqual(t, PathLogin, d.Target)
	assert.Empty(t, router.Pending())
	assert.Equal(t, []string{PathLanding}, router.History())
}

func TestRouter_LoadingLeavesHistoryAlone(t *testing.T) {
	router := NewRouter(&fakeSession{}, DefaultRoutes(), zerolog.Nop())

	d := router.Navigate(PathFarmerDash)
	assert.Equal(t, ActionLoading, d.Action)
	assert.Empty(t, router.History())
	assert.Empty(t, router.Pending())
}

func TestRouter_Expire(t *testing.T) {
	sess := &fakeSession{initialized: true}
	router := NewRouter(sess, DefaultRoutes(), zerolog.Nop())

	router.Navigate(PathBuyerDash)
	require.Equal(t, PathBuyerDash, router.Pending())

	router.Expire()
	assert.Equal(t, PathLogin, router.Current())
	assert.Empty(t, router.Pending())
}

type unreachableAuth struct{}

func (unreachableAuth) SignIn(context.Context, string, string) (*session.SignInResponse, error) {
	return nil, errors.New("connection refused")
}

func (unreachableAuth) SignUp(context.Context, session.RegisterRequest) (json.RawMessage, error) {
	return nil, errors.New("connection refused")
}
