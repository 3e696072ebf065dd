package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

// UserUseCase administración de usuarios (solo accesible con manage_users).
type UserUseCase struct {
	users       repository.UserRepository
	auditor     *audit.Recorder
	emailDomain string
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(users repository.UserRepository, auditor *audit.Recorder, emailDomain string) *UserUseCase {
	return &UserUseCase{users: users, auditor: auditor, emailDomain: emailDomain}
}

// Create da de alta un usuario. El email de credenciales se sintetiza como
// <username>@<dominio>; sin permisos explícitos se aplica el preset del rol.
func (uc *UserUseCase) Create(actor *entity.User, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	if username == "" || strings.Contains(username, "@") {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	perms := entity.RolePermissions(in.Role)
	if in.Permissions != nil {
		perms = *in.Permissions
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@" + uc.emailDomain,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Role:         in.Role,
		Site:         in.Site,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return nil, err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionCreate,
		EntityType: entity.AuditEntityUser,
		EntityID:   user.ID,
		Site:       user.Site,
		Details:    map[string]interface{}{"username": username, "role": in.Role},
	})
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// EnsureAdmin siembra el primer administrador cuando la base no tiene ningún
// usuario. Devuelve true si lo creó. Con usuarios existentes, o sin contraseña
// de bootstrap configurada, no hace nada: la creación normal pasa por Create.
func (uc *UserUseCase) EnsureAdmin(username, password string) (bool, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" || password == "" {
		return false, nil
	}
	existing, err := uc.users.List()
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        username + "@" + uc.emailDomain,
		PasswordHash: string(hash),
		FullName:     "Administrateur",
		Role:         entity.RoleAdmin,
		Site:         entity.SiteAbidjan,
		Permissions:  entity.RolePermissions(entity.RoleAdmin),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(user); err != nil {
		return false, err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     user.ID,
		UserName:   user.FullName,
		ActionType: entity.AuditActionCreate,
		EntityType: entity.AuditEntityUser,
		EntityID:   user.ID,
		Site:       user.Site,
		Details:    map[string]interface{}{"username": username, "role": entity.RoleAdmin, "bootstrap": true},
	})
	return true, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(id string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// List lista todos los usuarios.
func (uc *UserUseCase) List() ([]dto.UserResponse, error) {
	list, err := uc.users.List()
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, dto.ToUserResponse(u))
	}
	return out, nil
}

// Update edita nombre, rol, sitio y permisos. Si el rol cambia, los permisos
// enviados mandan igualmente: el preset solo aplica en la creación.
func (uc *UserUseCase) Update(actor *entity.User, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.FullName = in.FullName
	user.Role = in.Role
	user.Site = in.Site
	user.Permissions = in.Permissions
	user.UpdatedAt = time.Now()
	if err := uc.users.Update(user); err != nil {
		return nil, err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionUpdate,
		EntityType: entity.AuditEntityUser,
		EntityID:   user.ID,
		Site:       user.Site,
		Details:    map[string]interface{}{"username": user.Username, "role": in.Role},
	})
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// ResetPassword fija una nueva contraseña a otro usuario (administración).
func (uc *UserUseCase) ResetPassword(actor *entity.User, id, newPassword string) error {
	user, err := uc.users.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(id, string(hash)); err != nil {
		return err
	}
	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionUpdate,
		EntityType: entity.AuditEntityUser,
		EntityID:   id,
		Site:       user.Site,
		Details:    map[string]interface{}{"username": user.Username, "field": "password"},
	})
	return nil
}

// Delete borra un usuario. Un usuario no puede borrarse a sí mismo.
func (uc *UserUseCase) Delete(actor *entity.User, id string) error {
	if actor.ID == id {
		return domain.ErrConflict
	}
	user, err := uc.users.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.users.Delete(id); err != nil {
		return err
	}
	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionDelete,
		EntityType: entity.AuditEntityUser,
		EntityID:   id,
		Site:       user.Site,
		Details:    map[string]interface{}{"username": user.Username},
	})
	return nil
}
