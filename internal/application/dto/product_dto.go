package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// TargetBoth crea el producto en los dos sitios a la vez.
const TargetBoth = "both"

// CreateProductRequest alta de producto. Target decide en qué sitio(s) se
// crea la fila; un stock inicial > 0 genera un movimiento IN "Stock initial".
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category" validate:"required"`
	Target       string          `json:"target" validate:"required,oneof=abidjan bassam both"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	ImageURL     string          `json:"image_url"`
}

// UpdateProductRequest edición de producto. Un cambio de Stock genera un
// movimiento UPDATE con el delta firmado; los metadatos compartidos se
// propagan a la fila homónima del otro sitio.
type UpdateProductRequest struct {
	Name         string          `json:"name" validate:"required"`
	Category     string          `json:"category" validate:"required"`
	Stock        decimal.Decimal `json:"stock"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	ImageURL     string          `json:"image_url"`
}

// ArchiveProductRequest motivo obligatorio del archivado.
type ArchiveProductRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// ProductListQuery filtros del listado de productos de un sitio.
type ProductListQuery struct {
	Site     string `query:"site"`
	Category string `query:"category"`
	Search   string `query:"search"`
	Status   string `query:"status" validate:"omitempty,oneof=all low out"` // all | low | out
}

// ProductResponse producto expuesto por la API.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Site         string          `json:"site"`
	Stock        decimal.Decimal `json:"stock"`
	MinThreshold decimal.Decimal `json:"min_threshold"`
	ImageURL     string          `json:"image_url,omitempty"`
	LowStock     bool            `json:"low_stock"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToProductResponse mapea la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Site:         p.Site,
		Stock:        p.Stock,
		MinThreshold: p.MinThreshold,
		ImageURL:     p.ImageURL,
		LowStock:     p.LowStock(),
		CreatedAt:    p.CreatedAt,
	}
}
