package guard

import (
	"strings"

	"github.com/agrimarket/agrimarket/internal/session"
)

// Well-known paths
const (
	PathLanding        = "/"
	PathLogin          = "/login"
	PathFarmerDash     = "/dashboard"
	PathBuyerDash      = "/buyer-dashboard"
	PathAdminDash      = "/admin-dashboard"
	PathCropPrediction = "/crop-prediction"
	PathMarket         = "/market"
	PathContact        = "/contact"
)

// View is an addressable screen of the client
type View struct {
	Path      string
	Title     string
	Protected bool
	// RequiredRole, when set, restricts a protected view to one user type
	RequiredRole session.UserType
}

// Routes maps paths to views. Unknown paths fall back to the landing view.
type Routes struct {
	views   map[string]View
	ordered []View
}

// NewRoutes builds a route table. The first view with PathLanding is used
// as the fallback for unknown paths.
func NewRoutes(views ...View) *Routes {
	r := &Routes{views: make(map[string]View, len(views))}
	for _, v := range views {
		r.views[v.Path] = v
		r.ordered = append(r.ordered, v)
	}
	return r
}

// DefaultRoutes is the marketplace route table
func DefaultRoutes() *Routes {
	return NewRoutes(
		View{Path: PathLanding, Title: "AgriTech Marketplace"},
		View{Path: PathLogin, Title: "Sign in"},
		View{Path: PathFarmerDash, Title: "Farmer dashboard", Protected: true},
		View{Path: PathBuyerDash, Title: "Buyer dashboard", Protected: true},
		View{Path: PathAdminDash, Title: "Admin dashboard", Protected: true, RequiredRole: session.UserTypeAdvisor},
		View{Path: PathCropPrediction, Title: "Crop prediction", Protected: true},
		View{Path: PathMarket, Title: "Market prices"},
		View{Path: PathContact, Title: "Contact"},
	)
}

// Lookup resolves a path to its view
func (r *Routes) Lookup(path string) View {
	if v, ok := r.views[normalizePath(path)]; ok {
		return v
	}
	return r.views[PathLanding]
}

// All returns the views in declaration order
func (r *Routes) All() []View {
	out := make([]View, len(r.ordered))
	copy(out, r.ordered)
	return out
}

// normalizePath drops query strings and trailing slashes so "/market/" and
// "/market?x=1" resolve like "/market"
func normalizePath(path string) string {
	path, _, _ = strings.Cut(strings.TrimSpace(path), "?")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	path = strings.TrimRight(path, "/")
	if path == "" {
		return PathLanding
	}
	return path
}

// DefaultDestination is where a user lands after login when no pending
// target was captured
func DefaultDestination(t session.UserType) string {
	switch t {
	case session.UserTypeBuyer:
		return PathBuyerDash
	case session.UserTypeAdvisor:
		return PathAdminDash
	default:
		return PathFarmerDash
	}
}
