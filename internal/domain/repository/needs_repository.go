package repository

import (
	"time"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// NeedsFilter filtros del historial de bons de sortie.
type NeedsFilter struct {
	Site      string
	CreatedBy string // restringe al autor (sin permiso de historial completo)
	ProductID string // bons que contengan este producto
	From      *time.Time
	To        *time.Time
	Limit     int
}

// NeedsRepository puerto de persistencia de los bons de sortie.
type NeedsRepository interface {
	Create(request *entity.NeedsRequest) error
	GetByID(id string) (*entity.NeedsRequest, error)
	Delete(id string) error
	// List devuelve los bons con sus movimientos y nombres resueltos, más reciente primero.
	List(f NeedsFilter) ([]*entity.NeedsRequest, error)
}
