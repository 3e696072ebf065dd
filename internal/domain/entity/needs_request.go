package entity

import "time"

// NeedsRequest agrupa los movimientos OUT creados juntos como un único
// "bon de sortie" interno.
type NeedsRequest struct {
	ID         string
	CreatedBy  string
	Site       string
	ItemsCount int
	CreatedAt  time.Time

	// Poblados por joins en listados.
	CreatorName string
	Movements   []*StockMovement
}
