package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/testutil"
	"github.com/nhr-resorts/gestion-api/pkg/logger"
)

func userFixture(t *testing.T) (*testutil.Store, *usecase.UserUseCase) {
	t.Helper()
	store := testutil.NewStore()
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	auditor := audit.NewRecorder(&testutil.AuditRepo{Store: store}, log)
	uc := usecase.NewUserUseCase(&testutil.UserRepo{Store: store}, auditor, "nhr.com")
	return store, uc
}

func TestUserCreate_EmailSinteticoYPreset(t *testing.T) {
	store, uc := userFixture(t)
	res, err := uc.Create(adminActor, dto.CreateUserRequest{
		Username: "  Mariam ", Password: "secret123", FullName: "Mariam Touré",
		Role: entity.RoleService, Site: entity.SiteBassam,
	})
	require.NoError(t, err)

	assert.Equal(t, "mariam", res.Username, "el username se normaliza")
	assert.Equal(t, "mariam@nhr.com", res.Email)
	assert.True(t, res.Permissions.CreateNeeds, "preset del rol service")
	assert.False(t, res.Permissions.ManageUsers)

	stored := store.Users[res.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret123")))
}

func TestUserCreate_PermisosExplicitosGananAlPreset(t *testing.T) {
	_, uc := userFixture(t)
	perms := entity.RolePermissions(entity.RoleService)
	perms.ViewPurchases = true
	res, err := uc.Create(adminActor, dto.CreateUserRequest{
		Username: "koffi", Password: "secret123", FullName: "Koffi N'Guessan",
		Role: entity.RoleService, Site: entity.SiteAbidjan, Permissions: &perms,
	})
	require.NoError(t, err)
	assert.True(t, res.Permissions.ViewPurchases)
}

func TestUserCreate_UsernameOcupado(t *testing.T) {
	_, uc := userFixture(t)
	_, err := uc.Create(adminActor, dto.CreateUserRequest{
		Username: "awa", Password: "secret123", FullName: "Awa",
		Role: entity.RoleService, Site: entity.SiteAbidjan,
	})
	require.NoError(t, err)
	_, err = uc.Create(adminActor, dto.CreateUserRequest{
		Username: "AWA", Password: "secret123", FullName: "Otra Awa",
		Role: entity.RoleService, Site: entity.SiteAbidjan,
	})
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestUserCreate_UsernameConArrobaRechazado(t *testing.T) {
	_, uc := userFixture(t)
	_, err := uc.Create(adminActor, dto.CreateUserRequest{
		Username: "awa@gmail.com", Password: "secret123", FullName: "Awa",
		Role: entity.RoleService, Site: entity.SiteAbidjan,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUserUpdate_PermisosIndependientesDelRol(t *testing.T) {
	_, uc := userFixture(t)
	res, err := uc.Create(adminActor, dto.CreateUserRequest{
		Username: "awa", Password: "secret123", FullName: "Awa",
		Role: entity.RoleService, Site: entity.SiteAbidjan,
	})
	require.NoError(t, err)

	// Cambiar el rol no re-aplica el preset: los permisos enviados mandan.
	perms := res.Permissions
	perms.ViewNeeds = false
	updated, err := uc.Update(adminActor, res.ID, dto.UpdateUserRequest{
		FullName: "Awa K.", Role: entity.RoleGouvernante, Site: entity.SiteAbidjan,
		Permissions: perms,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGouvernante, updated.Role)
	assert.False(t, updated.Permissions.ViewNeeds)
	assert.False(t, updated.Permissions.ManageCategories, "no se aplica el preset de gouvernante")
}

// ─── Sembrado del primer administrador ───────────────────────────────────────

func TestEnsureAdmin_BaseVaciaSiembra(t *testing.T) {
	store, uc := userFixture(t)
	seeded, err := uc.EnsureAdmin("Admin", "premier-pass")
	require.NoError(t, err)
	assert.True(t, seeded)

	require.Len(t, store.Users, 1)
	for _, u := range store.Users {
		assert.Equal(t, "admin", u.Username, "el username se normaliza")
		assert.Equal(t, "admin@nhr.com", u.Email)
		assert.Equal(t, entity.RoleAdmin, u.Role)
		assert.True(t, u.Permissions.ManageUsers)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("premier-pass")))
	}
}

func TestEnsureAdmin_ConUsuariosNoHaceNada(t *testing.T) {
	store, uc := userFixture(t)
	store.Users["u-1"] = &entity.User{ID: "u-1", Username: "awa", Role: entity.RoleService}

	seeded, err := uc.EnsureAdmin("admin", "premier-pass")
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Len(t, store.Users, 1, "no se crea ningún usuario extra")
}

func TestEnsureAdmin_SinContrasenaNoSiembra(t *testing.T) {
	store, uc := userFixture(t)
	seeded, err := uc.EnsureAdmin("admin", "")
	require.NoError(t, err)
	assert.False(t, seeded)
	assert.Empty(t, store.Users)
}

func TestUserDelete_NoASiMismo(t *testing.T) {
	store, uc := userFixture(t)
	store.Users[adminActor.ID] = adminActor
	err := uc.Delete(adminActor, adminActor.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
