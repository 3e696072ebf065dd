package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// LedgerTotals totales históricos del ledger para un (producto, sitio).
type LedgerTotals struct {
	TotalIn     decimal.Decimal
	TotalOut    decimal.Decimal
	TotalAdjust decimal.Decimal // suma con signo de los UPDATE
}

// MovementFilter filtros de listados de movimientos.
type MovementFilter struct {
	Site        string
	Type        string
	ProductID   string
	PerformedBy string // restringe a un autor (no-admin ve solo lo suyo)
	From        *time.Time
	To          *time.Time
	Limit       int
}

// MovementRepository puerto de persistencia del ledger de stock.
type MovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// SumByProductSite reconstruye los totales del ledger del (producto, sitio).
	SumByProductSite(productID, site string) (*LedgerTotals, error)
	// UpdateQuantity escribe cantidad y nota pidiendo el conteo de filas
	// afectadas. Cero filas sin error explícito se interpreta como un veto
	// silencioso de la política de la base y devuelve domain.ErrAuthorizationDenied.
	UpdateQuantity(id string, quantity decimal.Decimal, note string) error
	Delete(id string) error
	ListByRequest(requestID string) ([]*entity.StockMovement, error)
	DeleteByRequest(requestID string) error
	// List lista movimientos con producto y autor resueltos (joins), más reciente primero.
	List(f MovementFilter) ([]*entity.StockMovement, error)
}
