package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// NeedsLine una línea de un bon de sortie.
type NeedsLine struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// SubmitNeedsRequest envío de un bon de sortie: todas las líneas se validan
// contra el stock antes de aplicar nada, y se aplican en una sola transacción.
type SubmitNeedsRequest struct {
	Site  string      `json:"site" validate:"required,oneof=abidjan bassam"`
	Items []NeedsLine `json:"items" validate:"required,min=1,dive"`
}

// DeleteNeedsRequest anulación de un bon con motivo obligatorio. El stock de
// cada línea se restituye en la misma transacción.
type DeleteNeedsRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// EditQuantityRequest corrección de la cantidad de una línea ya registrada.
// Reason es obligatorio en cuanto la cantidad cambia.
type EditQuantityRequest struct {
	NewQuantity decimal.Decimal `json:"new_quantity" validate:"required"`
	Reason      string          `json:"reason"`
}

// NeedsListQuery filtros del historial de bons.
type NeedsListQuery struct {
	DateRangeQuery
	Site      string `query:"site"`
	ProductID string `query:"product_id"`
	Search    string `query:"search"` // texto libre sobre productos y solicitante
	Limit     int    `query:"limit"`
}

// NeedsLineResponse línea de un bon tal como la expone la API.
type NeedsLineResponse struct {
	MovementID      string          `json:"movement_id"`
	ProductID       string          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	ProductCategory string          `json:"product_category"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// NeedsResponse bon de sortie completo.
type NeedsResponse struct {
	ID          string              `json:"id"`
	Site        string              `json:"site"`
	CreatedBy   string              `json:"created_by"`
	CreatorName string              `json:"creator_name"`
	ItemsCount  int                 `json:"items_count"`
	Items       []NeedsLineResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToNeedsResponse mapea la entidad y sus movimientos al DTO de salida.
func ToNeedsResponse(r *entity.NeedsRequest) NeedsResponse {
	out := NeedsResponse{
		ID:          r.ID,
		Site:        r.Site,
		CreatedBy:   r.CreatedBy,
		CreatorName: r.CreatorName,
		ItemsCount:  r.ItemsCount,
		Items:       make([]NeedsLineResponse, 0, len(r.Movements)),
		CreatedAt:   r.CreatedAt,
	}
	for _, m := range r.Movements {
		out.Items = append(out.Items, NeedsLineResponse{
			MovementID:      m.ID,
			ProductID:       m.ProductID,
			ProductName:     m.ProductName,
			ProductCategory: m.ProductCategory,
			Quantity:        m.Quantity,
		})
	}
	return out
}
