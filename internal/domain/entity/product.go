package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Centinelas de archivado. Un producto nunca se borra físicamente: se renombra
// y se pasa a la categoría ARCHIVED para conservar las referencias históricas
// de movimientos y auditoría.
const (
	ArchivedCategory   = "ARCHIVED"
	ArchivedNamePrefix = "ARCHIVED - "
)

// Product representa un producto de inventario en UN sitio.
// El mismo producto lógico existe como una fila por sitio (name+site);
// Stock es el contador vivo de ese sitio y debe coincidir con el mayor
// reconstruido del ledger: sum(IN) - sum(OUT) + sum(deltas UPDATE).
type Product struct {
	ID           string
	Name         string
	Category     string
	Site         string
	Stock        decimal.Decimal
	MinThreshold decimal.Decimal // umbral de alerta de stock bajo
	ImageURL     string
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Archived indica si la fila corresponde a un producto archivado.
// Doble protección: por categoría y por prefijo del nombre, porque hubo
// archivados parciales históricos donde solo uno de los dos quedó escrito.
func (p *Product) Archived() bool {
	return p.Category == ArchivedCategory || strings.HasPrefix(p.Name, ArchivedNamePrefix)
}

// LowStock indica si el contador está en o por debajo del umbral de alerta.
func (p *Product) LowStock() bool {
	return p.Stock.LessThanOrEqual(p.MinThreshold)
}
