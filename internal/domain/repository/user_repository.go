package repository

import "github.com/nhr-resorts/gestion-api/internal/domain/entity"

// UserRepository puerto de persistencia de perfiles.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	List() ([]*entity.User, error)
	Update(user *entity.User) error
	UpdatePassword(id, passwordHash string) error
	Delete(id string) error
}
