package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/agrimarket/agrimarket/internal/cli/client"
	"github.com/agrimarket/agrimarket/internal/guard"
	"github.com/agrimarket/agrimarket/internal/session"
)

type feature struct {
	title       string
	description string
}

var (
	buyerFeatures = []feature{
		{"Product Marketplace", "Browse and purchase fresh produce directly from local farmers."},
		{"Order Management", "Track your orders and manage deliveries with ease."},
		{"Price Comparison", "Compare prices across different farmers to get the best deals."},
		{"Connect with Farmers", "Build direct relationships with local agricultural producers."},
	}
	advisorFeatures = []feature{
		{"Platform Analytics", "Monitor platform usage, user engagement, and market trends."},
		{"User Management", "Manage farmer and buyer accounts, verify users, and handle disputes."},
		{"Market Insights", "Access comprehensive market data and generate reports."},
		{"Quality Control", "Ensure product quality and maintain platform standards."},
	}
	farmerFeatures = []feature{
		{"Weather Analytics", "Real-time weather data and forecasting to help you plan your farming activities."},
		{"Crop Prediction", "AI-powered crop yield predictions based on soil conditions and historical data."},
		{"Market Intelligence", "Stay updated with current market prices and trends for better selling decisions."},
		{"Farm Management", "Comprehensive tools to manage your crops, livestock, and farm operations."},
	}
)

func featuresFor(user *session.User) []feature {
	if user == nil {
		return farmerFeatures
	}
	switch user.UserType {
	case session.UserTypeBuyer:
		return buyerFeatures
	case session.UserTypeAdvisor:
		return advisorFeatures
	default:
		return farmerFeatures
	}
}

// render draws a view the guard allowed
func (a *App) render(ctx context.Context, view guard.View) error {
	user := a.store.CurrentUser()

	fmt.Fprintf(a.out, "== %s ==\n\n", view.Title)

	switch view.Path {
	case guard.PathLogin:
		return a.renderLogin(user)
	case guard.PathFarmerDash:
		return a.renderFarmerDashboard(ctx, user)
	case guard.PathBuyerDash:
		return a.renderBuyerDashboard(ctx, user)
	case guard.PathAdminDash:
		return a.renderAdminDashboard(ctx)
	case guard.PathCropPrediction:
		return a.renderCropPrediction()
	case guard.PathMarket:
		return a.renderMarket(ctx)
	case guard.PathContact:
		return a.renderContact()
	default:
		return a.renderLanding(user)
	}
}

// unavailable prints a notice for a section whose data could not be
// loaded. An expired session stops the whole view.
func (a *App) unavailable(section string, err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		return err
	}

	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message() != "":
		fmt.Fprintf(a.out, "%s: unavailable (%s)\n\n", section, apiErr.Message())
	case client.IsUnavailable(err):
		fmt.Fprintf(a.out, "%s: unavailable (marketplace API unreachable)\n\n", section)
	default:
		fmt.Fprintf(a.out, "%s: unavailable (%v)\n\n", section, err)
	}
	return nil
}

// demo reports, and explains, that account data cannot be loaded without
// a token
func (a *App) demo() bool {
	if a.store.Mode() != session.ModeDemo {
		return false
	}
	fmt.Fprintln(a.out, "Demo session: account data needs an online login (agrimarket login).")
	fmt.Fprintln(a.out)
	return true
}

func (a *App) renderLanding(user *session.User) error {
	fmt.Fprintln(a.out, "Smart farming and a direct marketplace for farmers, buyers and advisors.")
	fmt.Fprintln(a.out)

	for _, f := range featuresFor(user) {
		fmt.Fprintf(a.out, "  • %s: %s\n", f.title, f.description)
	}
	fmt.Fprintln(a.out)

	if user == nil {
		fmt.Fprintln(a.out, "Get started with: agrimarket login")
		return nil
	}
	fmt.Fprintf(a.out, "Signed in as %s. Go to your dashboard with: agrimarket open %s\n",
		user.Name, guard.DefaultDestination(user.UserType))
	return nil
}

func (a *App) renderLogin(user *session.User) error {
	if user != nil {
		fmt.Fprintf(a.out, "Already signed in as %s (%s).\n", user.Name, user.Email)
		return nil
	}
	fmt.Fprintln(a.out, "Sign in with: agrimarket login --email <email>")
	fmt.Fprintln(a.out, "New here? Create an account with: agrimarket register")
	return nil
}

func (a *App) renderFarmerDashboard(ctx context.Context, user *session.User) error {
	fmt.Fprintf(a.out, "Welcome back, %s!\n\n", user.Name)
	if a.demo() {
		return nil
	}

	stats, err := a.api.OrderStatistics(ctx)
	if err != nil {
		if err := a.unavailable("Sales", err); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.out, "Total orders: %d\nTotal earnings: %.2f\n\n", stats.TotalOrders, stats.TotalEarnings)
	}

	products, err := a.api.MyProducts(ctx)
	if err != nil {
		if err := a.unavailable("My products", err); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(a.out, "My products:")
		printProducts(a.out, products)
		fmt.Fprintln(a.out)
	}

	orders, err := a.api.FarmerOrders(ctx, 0, 5)
	if err != nil {
		return a.unavailable("Recent orders", err)
	}
	fmt.Fprintln(a.out, "Recent orders:")
	printOrders(a.out, orders.Content)
	return nil
}

func (a *App) renderBuyerDashboard(ctx context.Context, user *session.User) error {
	fmt.Fprintf(a.out, "Welcome back, %s!\n\n", user.Name)
	if a.demo() {
		return nil
	}

	page, err := a.api.ListProducts(ctx, client.ProductQuery{Size: 10})
	if err != nil {
		if err := a.unavailable("Available products", err); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.out, "Available products (%d total):\n", page.TotalElements)
		printProducts(a.out, page.Content)
		fmt.Fprintln(a.out)
	}

	orders, err := a.api.MyOrders(ctx, 0, 5)
	if err != nil {
		return a.unavailable("My orders", err)
	}
	fmt.Fprintln(a.out, "My orders:")
	printOrders(a.out, orders.Content)
	return nil
}

func (a *App) renderAdminDashboard(ctx context.Context) error {
	if a.demo() {
		return nil
	}

	stats, err := a.api.DashboardStats(ctx)
	if err != nil {
		if err := a.unavailable("Platform statistics", err); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(a.out, "Products listed: %d\nRecent market activity: %d price records\n\n",
			stats.TotalProducts, stats.RecentMarketActivity)
		fmt.Fprintln(a.out, "Products by category:")
		printCounts(a.out, stats.ProductsByCategory)
		fmt.Fprintln(a.out)
	}

	trends, err := a.api.MarketTrends(ctx)
	if err != nil {
		return a.unavailable("Market trends", err)
	}
	printTrends(a.out, trends)
	return nil
}

var (
	cropTypes = []string{"Wheat", "Rice", "Corn", "Soybeans", "Barley", "Cotton", "Tomatoes", "Potatoes"}

	cropRecommendations = []string{
		"Maintain soil pH between 6.0-7.0 for optimal growth",
		"Consider applying additional nitrogen fertilizer",
		"Monitor weather conditions for potential drought stress",
		"Implement integrated pest management practices",
	}
)

func (a *App) renderCropPrediction() error {
	fmt.Fprintln(a.out, "Predict crop yields from soil and weather conditions.")
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, "Supported crops:")
	for _, crop := range cropTypes {
		fmt.Fprintf(a.out, "  • %s\n", crop)
	}
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, "General recommendations:")
	for _, rec := range cropRecommendations {
		fmt.Fprintf(a.out, "  • %s\n", rec)
	}
	return nil
}

func (a *App) renderMarket(ctx context.Context) error {
	prices, err := a.api.ListMarketPrices(ctx, client.PriceQuery{Limit: 20})
	if err != nil {
		return a.unavailable("Market prices", err)
	}
	printPrices(a.out, prices)
	return nil
}

func (a *App) renderContact() error {
	fmt.Fprintln(a.out, "General:  info@agritech.com     +1 (555) 123-4567")
	fmt.Fprintln(a.out, "Support:  support@agritech.com  +1 (555) 765-4321")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Offices:")
	fmt.Fprintln(a.out, "  New York     newyork@agritech.com      +1 (555) 123-4567")
	fmt.Fprintln(a.out, "  Los Angeles  losangeles@agritech.com   +1 (555) 987-6543")
	fmt.Fprintln(a.out, "  Chicago      chicago@agritech.com      +1 (555) 456-7890")
	return nil
}
