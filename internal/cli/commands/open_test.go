package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrimarket/agrimarket/internal/apitest"
	"github.com/agrimarket/agrimarket/internal/guard"
)

func TestOpen_PublicViews(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"landing", "/", "Get started with: agrimarket login"},
		{"unknown path shows landing", "/no-such-page", "== AgriTech Marketplace =="},
		{"contact", "/contact", "support@agritech.com"},
		{"market", "/market", "== Market prices =="},
		{"login", "/login", "Sign in with: agrimarket login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			out, err := env.exec(t, NewOpenCmd, tt.path)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestOpen_ProtectedWithoutSession(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.exec(t, NewOpenCmd, "/crop-prediction")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Contains(t, out, "Sign in to view Crop prediction.")

	router := env.app.Router()
	assert.Equal(t, guard.PathCropPrediction, router.Pending())
	assert.Equal(t, guard.PathLogin, router.Current())
}

func TestOpen_LoginThenReturnToRequestedView(t *testing.T) {
	env := newTestEnv(t)
	env.prompt.interactive = true
	env.prompt.inputs = map[string]string{"Email": apitest.SeedFarmerEmail}
	env.prompt.password = apitest.SeedFarmerPassword

	out, err := env.exec(t, NewOpenCmd, "/crop-prediction")
	require.NoError(t, err)

	assert.Contains(t, out, "Sign in to view Crop prediction.")
	assert.Contains(t, out, "✓ Login successful!")
	assert.Contains(t, out, "== Crop prediction ==")
	assert.NotContains(t, out, "== Farmer dashboard ==")

	router := env.app.Router()
	assert.Empty(t, router.Pending())
	// the login view was replaced by the requested view
	assert.Equal(t, []string{guard.PathCropPrediction}, router.History())
}

func TestOpen_DemoSessionPassesGuard(t *testing.T) {
	env := newTestEnv(t, offline())

	_, err := env.exec(t, NewLoginCmd, "--email", "farmer@test.com", "--password", "x", "--no-open")
	require.NoError(t, err)
	require.False(t, env.app.Store().IsAuthenticated())

	out, err := env.exec(t, NewOpenCmd, "/dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "== Farmer dashboard ==")
	assert.Contains(t, out, "Welcome back, farmer!")
	assert.Contains(t, out, "Demo session")
}

func TestOpen_WrongRole(t *testing.T) {
	env := newTestEnv(t)
	env.loginAsSeedFarmer(t)

	out, err := env.exec(t, NewOpenCmd, "/admin-dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "Your account cannot view Admin dashboard.")
	assert.Contains(t, out, "== AgriTech Marketplace ==")
	assert.Contains(t, out, "Signed in as Seed Farmer")
	assert.Equal(t, guard.PathLanding, env.app.Router().Current())
}

func TestOpen_AdvisorDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.api.AddUser("Ada Advisor", "ada@advisors.test", "pw", "ADVISOR")

	out, err := env.exec(t, NewLoginCmd, "--email", "ada@advisors.test", "--password", "pw")
	require.NoError(t, err)

	assert.Contains(t, out, "== Admin dashboard ==")
	assert.Contains(t, out, "Products listed: 3")
	assert.Contains(t, out, "Market trends:")
	assert.Contains(t, out, "VEGETABLES")
}

func TestOpen_BuyerDashboard(t *testing.T) {
	env := newTestEnv(t)
	env.api.AddUser("Bob Buyer", "bob@shop.test", "pw", "BUYER")

	out, err := env.exec(t, NewLoginCmd, "--email", "bob@shop.test", "--password", "pw")
	require.NoError(t, err)
	assert.Contains(t, out, "== Buyer dashboard ==")
	assert.Contains(t, out, "Available products (3 total):")
	assert.Contains(t, out, "No orders found.")
}

func TestOpen_SessionExpiredWhileRendering(t *testing.T) {
	env := newTestEnv(t)
	env.loginAsSeedFarmer(t)
	env.api.RejectTokens(true)

	out, err := env.exec(t, NewOpenCmd, "/dashboard")
	require.Error(t, err)
	assert.Contains(t, out, "Your session has expired")
	assert.Nil(t, env.app.Store().CurrentUser())
	assert.Equal(t, guard.PathLogin, env.app.Router().Current())
}
