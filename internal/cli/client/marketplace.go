package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ProductQuery filters the public product listing
type ProductQuery struct {
	Page     int
	Size     int
	SortBy   string
	SortDir  string
	Category string
	Search   string
}

func (q ProductQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		v.Set("size", strconv.Itoa(q.Size))
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.SortDir != "" {
		v.Set("sortDir", q.SortDir)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v
}

// ListProducts returns a page of available products
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) (*Page[Product], error) {
	var page Page[Product]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "products/all",
		query:  q.values(),
		auth:   true,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// MyProducts returns the listings of the current farmer
func (c *Client) MyProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "products/my-products",
		auth:   true,
	}, &products)
	if err != nil {
		return nil, err
	}
	return products, nil
}

// AddProduct creates a new listing
func (c *Client) AddProduct(ctx context.Context, req ProductRequest) (*Product, error) {
	var product Product
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "products/add",
		body:   req,
		auth:   true,
	}, &product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// PriceQuery filters market prices
type PriceQuery struct {
	Category    string
	ProductName string
	Region      string
	Limit       int
}

func (q PriceQuery) values() url.Values {
	v := url.Values{}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.ProductName != "" {
		v.Set("productName", q.ProductName)
	}
	if q.Region != "" {
		v.Set("region", q.Region)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// ListMarketPrices returns the latest recorded prices
func (c *Client) ListMarketPrices(ctx context.Context, q PriceQuery) ([]MarketPrice, error) {
	var prices []MarketPrice
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "market/prices",
		query:  q.values(),
		auth:   true,
	}, &prices)
	if err != nil {
		return nil, err
	}
	return prices, nil
}

// MarketTrends returns prices and listing counts per category
func (c *Client) MarketTrends(ctx context.Context) (*MarketTrends, error) {
	var trends MarketTrends
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "market/trends",
		auth:   true,
	}, &trends)
	if err != nil {
		return nil, err
	}
	return &trends, nil
}

// DashboardStats returns marketplace-wide counters
func (c *Client) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "market/dashboard-stats",
		auth:   true,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func pageQuery(page, size int) url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if size > 0 {
		v.Set("size", strconv.Itoa(size))
	}
	return v
}

// MyOrders returns the orders placed by the current buyer
func (c *Client) MyOrders(ctx context.Context, page, size int) (*Page[Order], error) {
	var orders Page[Order]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "orders/my-orders",
		query:  pageQuery(page, size),
		auth:   true,
	}, &orders)
	if err != nil {
		return nil, err
	}
	return &orders, nil
}

// FarmerOrders returns orders containing the current farmer's products
func (c *Client) FarmerOrders(ctx context.Context, page, size int) (*Page[Order], error) {
	var orders Page[Order]
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "orders/farmer-orders",
		query:  pageQuery(page, size),
		auth:   true,
	}, &orders)
	if err != nil {
		return nil, err
	}
	return &orders, nil
}

// OrderStatistics returns the current farmer's sales summary
func (c *Client) OrderStatistics(ctx context.Context) (*OrderStatistics, error) {
	var stats OrderStatistics
	err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "orders/statistics",
		auth:   true,
	}, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// CreateOrder places a new order
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	var order Order
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "orders/create",
		body:   req,
		auth:   true,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateOrderStatus moves an order to a new status
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) (*Order, error) {
	var order Order
	err := c.do(ctx, request{
		method: http.MethodPatch,
		path:   fmt.Sprintf("orders/%d/status", orderID),
		query:  url.Values{"status": []string{status}},
		auth:   true,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
