package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// MovementListQuery filtros del historial de movimientos de stock.
type MovementListQuery struct {
	DateRangeQuery
	Site      string `query:"site"`
	Type      string `query:"type" validate:"omitempty,oneof=IN OUT UPDATE"`
	ProductID string `query:"product_id"`
	UserID    string `query:"user_id"`
	Search    string `query:"search"` // texto libre: referencia, producto, categoría
	Limit     int    `query:"limit"`
}

// MovementResponse movimiento del libro de stock.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Site          string          `json:"site"`
	PerformedBy   string          `json:"performed_by"`
	PerformerName string          `json:"performer_name"`
	RequestID     string          `json:"request_id,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToMovementResponse mapea la entidad al DTO de salida.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Site:          m.Site,
		PerformedBy:   m.PerformedBy,
		PerformerName: m.PerformerName,
		RequestID:     m.RequestID,
		Reference:     m.Reference,
		Note:          m.Note,
		CreatedAt:     m.CreatedAt,
	}
}

// RevisionResponse revisión de cantidad de un movimiento.
type RevisionResponse struct {
	ID          string          `json:"id"`
	MovementID  string          `json:"movement_id"`
	ActorID     string          `json:"actor_id"`
	ActorName   string          `json:"actor_name"`
	OldQuantity decimal.Decimal `json:"old_quantity"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	StockBefore decimal.Decimal `json:"stock_before"`
	StockAfter  decimal.Decimal `json:"stock_after"`
	Reason      string          `json:"reason"`
	Method      string          `json:"method"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToRevisionResponse mapea la entidad al DTO de salida.
func ToRevisionResponse(r *entity.MovementRevision) RevisionResponse {
	return RevisionResponse{
		ID:          r.ID,
		MovementID:  r.MovementID,
		ActorID:     r.ActorID,
		ActorName:   r.ActorName,
		OldQuantity: r.OldQuantity,
		NewQuantity: r.NewQuantity,
		StockBefore: r.StockBefore,
		StockAfter:  r.StockAfter,
		Reason:      r.Reason,
		Method:      r.Method,
		CreatedAt:   r.CreatedAt,
	}
}
