package dto

import (
	"time"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

// CreateUserRequest alta de usuario por un administrador.
// El email se construye como <username>@<dominio>; Permissions vacío aplica
// el preset del rol.
type CreateUserRequest struct {
	Username    string               `json:"username" validate:"required,min=2,max=40"`
	Password    string               `json:"password" validate:"required,min=6"`
	FullName    string               `json:"full_name" validate:"required"`
	Role        string               `json:"role" validate:"required,oneof=admin gouvernante service"`
	Site        string               `json:"site" validate:"required,oneof=abidjan bassam"`
	Permissions *entity.Permissions  `json:"permissions"`
}

// UpdateUserRequest edición de un usuario existente. Los permisos enviados
// reemplazan el juego completo (son independientes del rol tras la creación).
type UpdateUserRequest struct {
	FullName    string              `json:"full_name" validate:"required"`
	Role        string              `json:"role" validate:"required,oneof=admin gouvernante service"`
	Site        string              `json:"site" validate:"required,oneof=abidjan bassam"`
	Permissions entity.Permissions  `json:"permissions"`
}

// UserResponse perfil expuesto por la API (nunca incluye el hash).
type UserResponse struct {
	ID          string              `json:"id"`
	Username    string              `json:"username"`
	Email       string              `json:"email"`
	FullName    string              `json:"full_name"`
	Role        string              `json:"role"`
	Site        string              `json:"site"`
	Permissions entity.Permissions  `json:"permissions"`
	CreatedAt   time.Time           `json:"created_at"`
}

// ToUserResponse mapea la entidad al DTO de salida.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		Site:        u.Site,
		Permissions: u.Permissions,
		CreatedAt:   u.CreatedAt,
	}
}
