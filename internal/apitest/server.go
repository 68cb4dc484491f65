// Package apitest runs an in-process fake of the AgriMarket API for tests.
// It implements enough of the auth, products, market and orders endpoints
// for the client and the commands to be exercised end to end.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const bearerPrefix = "Bearer "

// Request is what the fake API recorded about one incoming call
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
}

type account struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	UserType string `json:"userType"`
	password string
}

// Server is a running fake API
type Server struct {
	*httptest.Server

	router   *gin.Engine
	secret   []byte
	tokenTTL time.Duration

	mu          sync.Mutex
	accounts    map[string]*account
	nextID      int64
	products    []gin.H
	orders      []gin.H
	requests    []Request
	unavailable bool
	rejectAll   bool
}

// Option configures a Server
type Option func(*Server)

// WithTokenTTL sets the lifetime of issued tokens
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// New starts a fake API and stops it when the test ends
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		secret:   []byte("apitest-secret"),
		tokenTTL: time.Hour,
		accounts: map[string]*account{},
		nextID:   100,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()
	s.setupRouter()

	s.Server = httptest.NewServer(s.router)
	t.Cleanup(s.Close)
	return s
}

// APIURL is the API root to hand to the client
func (s *Server) APIURL() string {
	return s.URL + "/api"
}

// AddUser registers an account the fake API will accept
func (s *Server) AddUser(name, email, password, userType string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, userType)
}

func (s *Server) addUserLocked(name, email, password, userType string) int64 {
	s.nextID++
	s.accounts[email] = &account{
		ID:       s.nextID,
		Name:     name,
		Email:    email,
		UserType: userType,
		password: password,
	}
	return s.nextID
}

// SetUnavailable makes every endpoint answer 503
func (s *Server) SetUnavailable(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = down
}

// RejectTokens makes every authenticated endpoint answer 401, as if all
// issued tokens had expired
func (s *Server) RejectTokens(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectAll = reject
}

// Token issues a valid token for a registered email
func (s *Server) Token(email string) (string, error) {
	s.mu.Lock()
	a, ok := s.accounts[email]
	s.mu.Unlock()
	if !ok {
		return "", fmt.Errorf("unknown account %q", email)
	}
	return s.generateToken(a)
}

// Requests returns the calls received so far
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent call
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) setupRouter() {
	gin.SetMode(gin.TestMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(s.recordingMiddleware())
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.router.Use(s.availabilityMiddleware())

	public := s.router.Group("/api/auth")
	{
		public.POST("/signin", s.signIn)
		public.POST("/signup", s.signUp)
	}

	api := s.router.Group("/api")
	api.Use(s.jwtAuthMiddleware())
	{
		api.GET("/auth/me", s.me)

		api.GET("/products/all", s.listProducts)
		api.GET("/products/my-products", s.myProducts)
		api.POST("/products/add", s.addProduct)

		api.GET("/market/prices", s.marketPrices)
		api.GET("/market/trends", s.marketTrends)
		api.GET("/market/dashboard-stats", s.dashboardStats)

		api.GET("/orders/my-orders", s.myOrders)
		api.GET("/orders/farmer-orders", s.farmerOrders)
		api.GET("/orders/statistics", s.orderStatistics)
		api.POST("/orders/create", s.createOrder)
		api.PATCH("/orders/:id/status", s.updateOrderStatus)
	}
}

func (s *Server) recordingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        c.Request.Method,
			Path:          c.Request.URL.Path,
			Query:         c.Request.URL.RawQuery,
			Authorization: c.GetHeader("Authorization"),
			RequestID:     c.GetHeader("X-Request-ID"),
		})
		s.mu.Unlock()
		c.Next()
	}
}

func (s *Server) availabilityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mu.Lock()
		down := s.unavailable
		s.mu.Unlock()
		if down {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Service unavailable"})
			return
		}
		c.Next()
	}
}

// jwtAuthMiddleware validates bearer tokens and stores the caller's account
func (s *Server) jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		claims, err := s.validateToken(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		s.mu.Lock()
		reject := s.rejectAll
		a, ok := s.accounts[claims.Email]
		s.mu.Unlock()
		if reject || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set("account", a)
		c.Next()
	}
}

func caller(c *gin.Context) *account {
	a, _ := c.Get("account")
	acc, _ := a.(*account)
	return acc
}
