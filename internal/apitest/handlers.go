package apitest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	UserType string `json:"userType"`
}

func (s *Server) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	s.mu.Lock()
	a, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || a.password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Bad credentials"})
		return
	}

	token, err := s.generateToken(a)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"type":     "Bearer",
		"id":       a.ID,
		"name":     a.Name,
		"email":    a.Email,
		"userType": a.UserType,
	})
}

func (s *Server) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: Name, email and password are required!"})
		return
	}
	if req.UserType == "" {
		req.UserType = "FARMER"
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error: Email is already in use!"})
		return
	}
	s.addUserLocked(req.Name, req.Email, req.Password, req.UserType)

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully!"})
}

func (s *Server) me(c *gin.Context) {
	a := caller(c)
	c.JSON(http.StatusOK, gin.H{
		"id":       a.ID,
		"name":     a.Name,
		"email":    a.Email,
		"userType": a.UserType,
	})
}

func pageOf(items []gin.H, c *gin.Context) gin.H {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if size <= 0 {
		size = 10
	}

	start := page * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	return gin.H{
		"content":       items[start:end],
		"totalElements": len(items),
		"totalPages":    (len(items) + size - 1) / size,
		"number":        page,
		"size":          size,
	}
}

func (s *Server) listProducts(c *gin.Context) {
	category := c.Query("category")
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	var matched []gin.H
	for _, p := range s.products {
		if category != "" && p["category"] != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p["name"].(string)), search) {
			continue
		}
		matched = append(matched, p)
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, pageOf(matched, c))
}

func (s *Server) myProducts(c *gin.Context) {
	a := caller(c)
	if a.UserType != "FARMER" {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only farmers can list their products"})
		return
	}

	s.mu.Lock()
	mine := []gin.H{}
	for _, p := range s.products {
		if farmer, ok := p["farmer"].(gin.H); ok && farmer["id"] == a.ID {
			mine = append(mine, p)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, mine)
}

type productRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	Category          string  `json:"category" binding:"required"`
	PricePerUnit      float64 `json:"pricePerUnit" binding:"required,gt=0"`
	Unit              string  `json:"unit" binding:"required"`
	QuantityAvailable int     `json:"quantityAvailable" binding:"required,gt=0"`
	Location          string  `json:"location"`
	Quality           string  `json:"quality"`
}

func (s *Server) addProduct(c *gin.Context) {
	a := caller(c)
	if a.UserType != "FARMER" {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only farmers can add products"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid product"})
		return
	}

	s.mu.Lock()
	product := gin.H{
		"id":                int64(len(s.products) + 1),
		"name":              req.Name,
		"description":       req.Description,
		"category":          req.Category,
		"pricePerUnit":      req.PricePerUnit,
		"unit":              req.Unit,
		"quantityAvailable": req.QuantityAvailable,
		"location":          req.Location,
		"quality":           req.Quality,
		"status":            "AVAILABLE",
		"farmer":            gin.H{"id": a.ID, "name": a.Name},
	}
	s.products = append(s.products, product)
	s.mu.Unlock()

	c.JSON(http.StatusOK, product)
}

func (s *Server) marketPrices(c *gin.Context) {
	category := c.Query("category")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	prices := []gin.H{}
	for _, p := range seedPrices {
		if category != "" && p["category"] != category {
			continue
		}
		prices = append(prices, p)
		if limit > 0 && len(prices) == limit {
			break
		}
	}
	c.JSON(http.StatusOK, prices)
}

func (s *Server) marketTrends(c *gin.Context) {
	categoryPrices := map[string][]gin.H{}
	for _, p := range seedPrices {
		cat := p["category"].(string)
		categoryPrices[cat] = append(categoryPrices[cat], p)
	}

	c.JSON(http.StatusOK, gin.H{
		"categoryPrices": categoryPrices,
		"productCounts":  s.productCounts(),
	})
}

func (s *Server) dashboardStats(c *gin.Context) {
	counts := s.productCounts()
	var total int64
	for _, n := range counts {
		total += n
	}

	c.JSON(http.StatusOK, gin.H{
		"totalProducts":        total,
		"productsByCategory":   counts,
		"recentMarketActivity": len(seedPrices),
	})
}

func (s *Server) productCounts() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int64{}
	for _, p := range s.products {
		counts[p["category"].(string)]++
	}
	return counts
}

func (s *Server) myOrders(c *gin.Context) {
	a := caller(c)

	s.mu.Lock()
	mine := []gin.H{}
	for _, o := range s.orders {
		if buyer, ok := o["buyer"].(gin.H); ok && buyer["id"] == a.ID {
			mine = append(mine, o)
		}
	}
	s.mu.Unlock()

	c.JSON(http.StatusOK, pageOf(mine, c))
}

func (s *Server) farmerOrders(c *gin.Context) {
	c.JSON(http.StatusOK, pageOf(s.ordersForFarmer(caller(c).ID), c))
}

func (s *Server) orderStatistics(c *gin.Context) {
	orders := s.ordersForFarmer(caller(c).ID)

	var earnings float64
	for _, o := range orders {
		if o["status"] == "DELIVERED" {
			earnings += o["totalAmount"].(float64)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"totalOrders":   len(orders),
		"totalEarnings": earnings,
	})
}

func (s *Server) ordersForFarmer(farmerID int64) []gin.H {
	s.mu.Lock()
	defer s.mu.Unlock()

	var orders []gin.H
	for _, o := range s.orders {
		if o["farmerId"] == farmerID {
			orders = append(orders, o)
		}
	}
	return orders
}

type orderRequest struct {
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
	Notes           string `json:"notes"`
	Items           []struct {
		ProductID int64 `json:"productId" binding:"required"`
		Quantity  int   `json:"quantity" binding:"required,gt=0"`
	} `json:"items" binding:"required,min=1,dive"`
}

func (s *Server) createOrder(c *gin.Context) {
	a := caller(c)
	if a.UserType != "BUYER" {
		c.JSON(http.StatusForbidden, gin.H{"message": "Only buyers can place orders"})
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		total    float64
		farmerID int64
		items    []gin.H
	)
	for _, item := range req.Items {
		product := s.findProductLocked(item.ProductID)
		if product == nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Product not found: " + strconv.FormatInt(item.ProductID, 10)})
			return
		}
		price := product["pricePerUnit"].(float64)
		total += price * float64(item.Quantity)
		farmerID = product["farmer"].(gin.H)["id"].(int64)
		items = append(items, gin.H{
			"id":           int64(len(items) + 1),
			"quantity":     item.Quantity,
			"pricePerUnit": price,
			"product":      product,
		})
	}

	order := gin.H{
		"id":              int64(len(s.orders) + 1),
		"status":          "PENDING",
		"totalAmount":     total,
		"deliveryAddress": req.DeliveryAddress,
		"notes":           req.Notes,
		"buyer":           gin.H{"id": a.ID, "name": a.Name, "email": a.Email},
		"orderItems":      items,
		"farmerId":        farmerID,
	}
	s.orders = append(s.orders, order)

	c.JSON(http.StatusOK, order)
}

func (s *Server) findProductLocked(id int64) gin.H {
	for _, p := range s.products {
		if p["id"] == id {
			return p
		}
	}
	return nil
}

func (s *Server) updateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid order id"})
		return
	}
	status := c.Query("status")
	if status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "status is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o["id"] == id {
			o["status"] = status
			c.JSON(http.StatusOK, o)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Order not found"})
}
