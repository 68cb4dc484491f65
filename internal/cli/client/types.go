package client

// Page is a paginated list as returned by the API
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// Party is the short form of a user embedded in products and orders
type Party struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Product is a listing offered by a farmer
type Product struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Category          string  `json:"category"`
	PricePerUnit      float64 `json:"pricePerUnit"`
	Unit              string  `json:"unit"`
	QuantityAvailable int     `json:"quantityAvailable"`
	Location          string  `json:"location,omitempty"`
	Quality           string  `json:"quality,omitempty"`
	Status            string  `json:"status,omitempty"`
	HarvestDate       string  `json:"harvestDate,omitempty"`
	Farmer            *Party  `json:"farmer,omitempty"`
}

// ProductRequest is the body of a new listing
type ProductRequest struct {
	Name              string  `json:"name"`
	Description       string  `json:"description,omitempty"`
	Category          string  `json:"category"`
	PricePerUnit      float64 `json:"pricePerUnit"`
	Unit              string  `json:"unit"`
	QuantityAvailable int     `json:"quantityAvailable"`
	Location          string  `json:"location,omitempty"`
	Quality           string  `json:"quality,omitempty"`
}

// MarketPrice is one recorded price point
type MarketPrice struct {
	ID                  int64   `json:"id"`
	Category            string  `json:"category"`
	ProductName         string  `json:"productName"`
	AveragePrice        float64 `json:"averagePrice"`
	MinPrice            float64 `json:"minPrice"`
	MaxPrice            float64 `json:"maxPrice"`
	Region              string  `json:"region,omitempty"`
	TotalQuantityTraded int     `json:"totalQuantityTraded"`
	RecordDate          string  `json:"recordDate,omitempty"`
}

// MarketTrends groups latest prices and listing counts by category
type MarketTrends struct {
	CategoryPrices map[string][]MarketPrice `json:"categoryPrices"`
	ProductCounts  map[string]int64         `json:"productCounts"`
}

// DashboardStats summarizes marketplace activity
type DashboardStats struct {
	TotalProducts        int64            `json:"totalProducts"`
	ProductsByCategory   map[string]int64 `json:"productsByCategory"`
	RecentMarketActivity int              `json:"recentMarketActivity"`
}

// Order statuses
const (
	OrderPending    = "PENDING"
	OrderConfirmed  = "CONFIRMED"
	OrderProcessing = "PROCESSING"
	OrderShipped    = "SHIPPED"
	OrderDelivered  = "DELIVERED"
	OrderCancelled  = "CANCELLED"
	OrderRefunded   = "REFUNDED"
)

// OrderStatuses lists every order status
var OrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
	OrderDelivered, OrderCancelled, OrderRefunded,
}

// OrderItem is one line of an order
type OrderItem struct {
	ID           int64    `json:"id"`
	Quantity     int      `json:"quantity"`
	PricePerUnit float64  `json:"pricePerUnit"`
	Product      *Product `json:"product,omitempty"`
}

// Order is a buyer's purchase
type Order struct {
	ID              int64       `json:"id"`
	Status          string      `json:"status"`
	TotalAmount     float64     `json:"totalAmount"`
	DeliveryAddress string      `json:"deliveryAddress"`
	OrderDate       string      `json:"orderDate,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	Buyer           *Party      `json:"buyer,omitempty"`
	OrderItems      []OrderItem `json:"orderItems,omitempty"`
}

// OrderItemRequest is one line of a new order
type OrderItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// OrderRequest is the body of a new order
type OrderRequest struct {
	DeliveryAddress string             `json:"deliveryAddress"`
	Notes           string             `json:"notes,omitempty"`
	Items           []OrderItemRequest `json:"items"`
}

// OrderStatistics summarizes a farmer's sales
type OrderStatistics struct {
	TotalOrders   int64   `json:"totalOrders"`
	TotalEarnings float64 `json:"totalEarnings"`
}
