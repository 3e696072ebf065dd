package repository

import "github.com/nhr-resorts/gestion-api/internal/domain/entity"

// CategoryRepository puerto de persistencia de categorías.
// El borrado no cascadea a productos: conservan el nombre como texto.
type CategoryRepository interface {
	Create(category *entity.Category) error
	GetByID(id string) (*entity.Category, error)
	GetByName(name string) (*entity.Category, error)
	List() ([]*entity.Category, error)
	Delete(id string) error
}
