package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
const (
	MovementTypeIN     = "IN"     // entrada (compra / recepción)
	MovementTypeOUT    = "OUT"    // salida (bon de sortie)
	MovementTypeUPDATE = "UPDATE" // ajuste manual de administración
)

// StockMovement es una entrada del ledger de stock.
// Quantity es positiva para IN y OUT; para UPDATE guarda el delta CON SIGNO
// del ajuste, de modo que el contador vivo siempre sea reconstruible como
// sum(IN) - sum(OUT) + sum(UPDATE).
type StockMovement struct {
	ID          string
	ProductID   string
	Type        string
	Quantity    decimal.Decimal
	Site        string
	PerformedBy string
	RequestID   string // bon de sortie al que pertenece (solo OUT)
	Reference   string // referencia de compra compartida (solo IN)
	Note        string
	CreatedAt   time.Time

	// Campos de solo lectura poblados por joins en listados.
	ProductName     string
	ProductCategory string
	PerformerName   string
}

// SignedQuantity devuelve el efecto del movimiento sobre el contador.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	switch m.Type {
	case MovementTypeIN:
		return m.Quantity
	case MovementTypeOUT:
		return m.Quantity.Neg()
	default:
		return m.Quantity // UPDATE ya viene con signo
	}
}
