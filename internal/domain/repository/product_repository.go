package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos activos de un sitio.
// Search se aplica en la capa de aplicación (fold de acentos); aquí solo
// viajan los filtros expresables en SQL.
type ProductFilter struct {
	Site     string
	Category string
}

// ProductRepository puerto de persistencia de productos.
// Los listados excluyen siempre los archivados (categoría ARCHIVED y
// prefijo de nombre "ARCHIVED - ").
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de una tx.
	GetForUpdate(id string) (*entity.Product, error)
	// GetByNameSiteForUpdate bloquea la fila homónima de un sitio; nil si no
	// existe. Usar solo dentro de una tx.
	GetByNameSiteForUpdate(name, site string) (*entity.Product, error)
	ListActive(f ProductFilter) ([]*entity.Product, error)
	// UpdateMeta actualiza los metadatos y el contador de stock de la fila.
	UpdateMeta(product *entity.Product) error
	// SyncMetaByName propaga metadatos compartidos a las filas del mismo
	// nombre en los demás sitios (el producto lógico está duplicado por sitio).
	SyncMetaByName(oldName, name, category string, minThreshold decimal.Decimal, imageURL string) error
	// UpdateStock escribe el contador vivo de la fila.
	UpdateStock(id string, stock decimal.Decimal, at time.Time) error
	// Archive renombra la fila, la pasa a la categoría ARCHIVED y pone el contador a cero.
	Archive(id, archivedName string, at time.Time) error
}
