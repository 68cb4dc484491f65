package apitest

import "github.com/gin-gonic/gin"

// Credentials of the farmer account every fake API starts with
const (
	SeedFarmerEmail    = "farmer@agrimarket.test"
	SeedFarmerPassword = "harvest"
)

var seedPrices = []gin.H{
	{"id": int64(1), "category": "VEGETABLES", "productName": "Tomatoes", "averagePrice": 2.4, "minPrice": 1.9, "maxPrice": 3.1, "region": "North", "totalQuantityTraded": 1200, "recordDate": "2024-05-01"},
	{"id": int64(2), "category": "VEGETABLES", "productName": "Potatoes", "averagePrice": 1.1, "minPrice": 0.8, "maxPrice": 1.4, "region": "North", "totalQuantityTraded": 3400, "recordDate": "2024-05-01"},
	{"id": int64(3), "category": "GRAINS", "productName": "Wheat", "averagePrice": 0.45, "minPrice": 0.4, "maxPrice": 0.52, "region": "Central", "totalQuantityTraded": 18000, "recordDate": "2024-05-01"},
	{"id": int64(4), "category": "FRUITS", "productName": "Apples", "averagePrice": 1.8, "minPrice": 1.5, "maxPrice": 2.2, "region": "South", "totalQuantityTraded": 900, "recordDate": "2024-05-01"},
}

func (s *Server) seed() {
	farmerID := s.addUserLocked("Seed Farmer", SeedFarmerEmail, SeedFarmerPassword, "FARMER")
	farmer := gin.H{"id": farmerID, "name": "Seed Farmer"}

	s.products = []gin.H{
		{"id": int64(1), "name": "Tomatoes", "category": "VEGETABLES", "pricePerUnit": 2.5, "unit": "kg", "quantityAvailable": 200, "location": "North", "quality": "PREMIUM", "status": "AVAILABLE", "farmer": farmer},
		{"id": int64(2), "name": "Wheat", "category": "GRAINS", "pricePerUnit": 0.5, "unit": "kg", "quantityAvailable": 5000, "location": "Central", "quality": "STANDARD", "status": "AVAILABLE", "farmer": farmer},
		{"id": int64(3), "name": "Apples", "category": "FRUITS", "pricePerUnit": 1.9, "unit": "kg", "quantityAvailable": 300, "location": "South", "quality": "PREMIUM", "status": "AVAILABLE", "farmer": farmer},
	}
}
