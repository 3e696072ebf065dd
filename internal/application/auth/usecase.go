// Package auth implementa el login por nombre de usuario y la gestión de
// la propia contraseña.
package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
	"github.com/nhr-resorts/gestion-api/pkg/jwt"
)

// UseCase casos de uso de autenticación.
type UseCase struct {
	users       repository.UserRepository
	auditor     *audit.Recorder
	jwtSecret   string
	jwtIssuer   string
	jwtExpMin   int
	emailDomain string
}

// NewUseCase construye el caso de uso.
func NewUseCase(users repository.UserRepository, auditor *audit.Recorder, jwtSecret, jwtIssuer string, jwtExpMin int, emailDomain string) *UseCase {
	return &UseCase{
		users:       users,
		auditor:     auditor,
		jwtSecret:   jwtSecret,
		jwtIssuer:   jwtIssuer,
		jwtExpMin:   jwtExpMin,
		emailDomain: emailDomain,
	}
}

// LoginEmail normaliza la identidad tecleada al email de credenciales:
// minúsculas, espacios fuera, y si no trae '@' se le añade el dominio interno.
func (uc *UseCase) LoginEmail(username string) string {
	id := strings.ToLower(strings.TrimSpace(username))
	if strings.Contains(id, "@") {
		return id
	}
	return id + "@" + uc.emailDomain
}

// Login verifica credenciales y emite el token. Un usuario inexistente y una
// contraseña incorrecta devuelven el mismo error (sin filtrar cuál falló).
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := uc.LoginEmail(in.Username)
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}

	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.Site, user.Role, uc.jwtIssuer, uc.jwtExpMin)
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     user.ID,
		UserName:   user.FullName,
		ActionType: entity.AuditActionLogin,
		EntityType: entity.AuditEntityUser,
		EntityID:   user.ID,
		Site:       user.Site,
	})

	return &dto.LoginResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

// ChangePassword cambia la contraseña del usuario conectado.
func (uc *UseCase) ChangePassword(userID string, in dto.ChangePasswordRequest) error {
	user, err := uc.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := uc.users.UpdatePassword(userID, string(hash)); err != nil {
		return err
	}
	uc.auditor.Record(audit.Entry{
		UserID:     user.ID,
		UserName:   user.FullName,
		ActionType: entity.AuditActionUpdate,
		EntityType: entity.AuditEntityUser,
		EntityID:   user.ID,
		Site:       user.Site,
		Details:    map[string]interface{}{"field": "password"},
	})
	return nil
}
