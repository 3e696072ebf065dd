package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/auth"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/testutil"
	"github.com/nhr-resorts/gestion-api/pkg/jwt"
	"github.com/nhr-resorts/gestion-api/pkg/logger"
)

const (
	testSecret = "test-secret-key"
	testIssuer = "nhr-gestion-test"
)

func authFixture(t *testing.T) (*testutil.Store, *auth.UseCase) {
	t.Helper()
	store := testutil.NewStore()
	hash, err := bcrypt.GenerateFromPassword([]byte("motdepasse"), bcrypt.MinCost)
	require.NoError(t, err)
	store.Users["u-1"] = &entity.User{
		ID:           "u-1",
		Username:     "awa",
		Email:        "awa@nhr.com",
		PasswordHash: string(hash),
		FullName:     "Awa Kouassi",
		Role:         entity.RoleGouvernante,
		Site:         entity.SiteAbidjan,
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	auditor := audit.NewRecorder(&testutil.AuditRepo{Store: store}, log)
	uc := auth.NewUseCase(&testutil.UserRepo{Store: store}, auditor, testSecret, testIssuer, 60, "nhr.com")
	return store, uc
}

func TestLoginEmail_Normalizacion(t *testing.T) {
	_, uc := authFixture(t)
	assert.Equal(t, "awa@nhr.com", uc.LoginEmail("  Awa "))
	assert.Equal(t, "awa@nhr.com", uc.LoginEmail("AWA"))
	assert.Equal(t, "externo@gmail.com", uc.LoginEmail("Externo@Gmail.com"),
		"un email completo no se reescribe")
}

func TestLogin_ConNombreDeUsuario(t *testing.T) {
	store, uc := authFixture(t)
	res, err := uc.Login(dto.LoginRequest{Username: "Awa", Password: "motdepasse"})
	require.NoError(t, err)

	assert.Equal(t, "u-1", res.User.ID)
	userID, site, role, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, entity.SiteAbidjan, site)
	assert.Equal(t, entity.RoleGouvernante, role)

	require.Len(t, store.AuditLogs, 1)
	assert.Equal(t, entity.AuditActionLogin, store.AuditLogs[0].ActionType)
}

// Usuario inexistente y contraseña incorrecta devuelven el mismo error.
func TestLogin_CredencialesInvalidas(t *testing.T) {
	_, uc := authFixture(t)

	_, err := uc.Login(dto.LoginRequest{Username: "awa", Password: "mauvais"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(dto.LoginRequest{Username: "inexistant", Password: "motdepasse"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	store, uc := authFixture(t)
	require.NoError(t, uc.ChangePassword("u-1", dto.ChangePasswordRequest{NewPassword: "nouveau-mdp"}))

	err := bcrypt.CompareHashAndPassword([]byte(store.Users["u-1"].PasswordHash), []byte("nouveau-mdp"))
	assert.NoError(t, err, "el hash almacenado debe corresponder a la nueva contraseña")

	err = uc.ChangePassword("nope", dto.ChangePasswordRequest{NewPassword: "x"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
