package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos con los que se aplicó una modificación de cantidad.
const (
	RevisionMethodUpdate   = "UPDATE"
	RevisionMethodReinsert = "DELETE_INSERT" // repli cuando el UPDATE reporta cero filas
)

// MovementRevision es el registro estructurado de un cambio de cantidad sobre
// un movimiento del ledger. Reemplaza el rastro concatenado en texto libre del
// campo notes: cada edición es una fila, iterables en orden cronológico.
type MovementRevision struct {
	ID          string
	MovementID  string
	ActorID     string
	ActorName   string
	OldQuantity decimal.Decimal
	NewQuantity decimal.Decimal
	StockBefore decimal.Decimal
	StockAfter  decimal.Decimal
	Reason      string
	Method      string
	CreatedAt   time.Time
}
