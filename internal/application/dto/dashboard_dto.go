package dto

import (
	"github.com/shopspring/decimal"
)

// SiteSummary cifras de un sitio para el tablero.
type SiteSummary struct {
	Site          string          `json:"site"`
	ProductCount  int             `json:"product_count"`
	LowStockCount int             `json:"low_stock_count"`
	OutOfStock    int             `json:"out_of_stock"`
	TotalStock    decimal.Decimal `json:"total_stock"`
}

// DashboardResponse resumen del tablero. Sites solo incluye los sitios que
// el usuario tiene derecho a ver.
type DashboardResponse struct {
	Sites          []SiteSummary      `json:"sites"`
	RecentOut      []MovementResponse `json:"recent_out"`
	TodayNeeds     int                `json:"today_needs"`
	TodayPurchases int                `json:"today_purchases"`
	LowStockAlerts []ProductResponse  `json:"low_stock_alerts"`
}
