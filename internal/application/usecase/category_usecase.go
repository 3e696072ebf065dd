package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

// CategoryUseCase CRUD de categorías. Los productos referencian la categoría
// por nombre (texto), así que borrar una categoría no toca productos: las
// filas huérfanas conservan el nombre viejo.
type CategoryUseCase struct {
	categories repository.CategoryRepository
	auditor    *audit.Recorder
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categories repository.CategoryRepository, auditor *audit.Recorder) *CategoryUseCase {
	return &CategoryUseCase{categories: categories, auditor: auditor}
}

// Create crea una categoría. El nombre se recorta; ARCHIVED está reservado.
func (uc *CategoryUseCase) Create(actor *entity.User, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if strings.EqualFold(name, entity.ArchivedCategory) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.categories.GetByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	category := &entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	if err := uc.categories.Create(category); err != nil {
		return nil, err
	}
	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionCreate,
		EntityType: entity.AuditEntityCategory,
		EntityID:   category.ID,
		Details:    map[string]interface{}{"name": name},
	})
	return category, nil
}

// List lista las categorías por nombre.
func (uc *CategoryUseCase) List() ([]*entity.Category, error) {
	return uc.categories.List()
}

// Delete borra una categoría sin cascada sobre productos.
func (uc *CategoryUseCase) Delete(actor *entity.User, id string) error {
	category, err := uc.categories.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return domain.ErrNotFound
	}
	if err := uc.categories.Delete(id); err != nil {
		return err
	}
	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionDelete,
		EntityType: entity.AuditEntityCategory,
		EntityID:   id,
		Details:    map[string]interface{}{"name": category.Name},
	})
	return nil
}
