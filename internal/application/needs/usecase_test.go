package needs_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/needs"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/testutil"
	"github.com/nhr-resorts/gestion-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var serviceActor = &entity.User{
	ID:          "svc-1",
	FullName:    "Mariam Touré",
	Role:        entity.RoleService,
	Site:        entity.SiteAbidjan,
	Permissions: entity.RolePermissions(entity.RoleService),
}

var adminActor = &entity.User{
	ID:       "adm-1",
	FullName: "Chef Gouvernante",
	Role:     entity.RoleAdmin,
	Site:     entity.SiteAbidjan,
}

func needsFixture(t *testing.T) (*testutil.Store, *needs.UseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Products["p-1"] = &entity.Product{
		ID: "p-1", Name: "Savon", Category: "Hygiène",
		Site: entity.SiteAbidjan, Stock: d("10"),
	}
	store.Products["p-2"] = &entity.Product{
		ID: "p-2", Name: "Serviette", Category: "Linge",
		Site: entity.SiteAbidjan, Stock: d("2"),
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	auditor := audit.NewRecorder(&testutil.AuditRepo{Store: store}, log)
	uc := needs.NewUseCase(&testutil.TxRunner{Store: store}, &testutil.NeedsRepo{Store: store}, auditor)
	return store, uc
}

func TestNeedsSubmit_BonCompleto(t *testing.T) {
	store, uc := needsFixture(t)
	res, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site: entity.SiteAbidjan,
		Items: []dto.NeedsLine{
			{ProductID: "p-1", Quantity: d("3")},
			{ProductID: "p-2", Quantity: d("2")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, res.ItemsCount)
	require.Len(t, res.Items, 2)
	assert.True(t, store.Products["p-1"].Stock.Equal(d("7")))
	assert.True(t, store.Products["p-2"].Stock.Equal(d("0")))

	require.Len(t, store.Needs, 1)
	for _, m := range store.Movements {
		assert.Equal(t, entity.MovementTypeOUT, m.Type)
		assert.Equal(t, res.ID, m.RequestID)
		assert.Equal(t, serviceActor.ID, m.PerformedBy)
	}
}

// Validación previa de TODAS las líneas: si una no pasa, ninguna se aplica.
func TestNeedsSubmit_LineaSinStockAnulaElBon(t *testing.T) {
	store, uc := needsFixture(t)
	_, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site: entity.SiteAbidjan,
		Items: []dto.NeedsLine{
			{ProductID: "p-1", Quantity: d("3")},
			{ProductID: "p-2", Quantity: d("5")}, // solo hay 2
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.Products["p-1"].Stock.Equal(d("10")), "la primera línea tampoco debe aplicarse")
	assert.Empty(t, store.Movements)
	assert.Empty(t, store.Needs)
}

func TestNeedsSubmit_ProductoArchivadoRechazado(t *testing.T) {
	store, uc := needsFixture(t)
	store.Products["p-1"].Category = entity.ArchivedCategory
	_, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site:  entity.SiteAbidjan,
		Items: []dto.NeedsLine{{ProductID: "p-1", Quantity: d("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrArchived)
}

func TestNeedsDelete_RestituyeElStock(t *testing.T) {
	store, uc := needsFixture(t)
	res, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site: entity.SiteAbidjan,
		Items: []dto.NeedsLine{
			{ProductID: "p-1", Quantity: d("4")},
			{ProductID: "p-2", Quantity: d("1")},
		},
	})
	require.NoError(t, err)
	require.True(t, store.Products["p-1"].Stock.Equal(d("6")))

	err = uc.Delete(context.Background(), adminActor, res.ID, dto.DeleteNeedsRequest{Reason: "doublon"})
	require.NoError(t, err)

	assert.True(t, store.Products["p-1"].Stock.Equal(d("10")), "el stock vuelve a su nivel")
	assert.True(t, store.Products["p-2"].Stock.Equal(d("2")))
	assert.Empty(t, store.Movements, "los movimientos del bon desaparecen")
	assert.Empty(t, store.Needs)
}

// La auditoría fotografía el contenido del bon antes del borrado.
func TestNeedsDelete_AuditoriaConservaElContenido(t *testing.T) {
	store, uc := needsFixture(t)
	res, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site:  entity.SiteAbidjan,
		Items: []dto.NeedsLine{{ProductID: "p-1", Quantity: d("4")}},
	})
	require.NoError(t, err)
	require.NoError(t, uc.Delete(context.Background(), adminActor, res.ID, dto.DeleteNeedsRequest{Reason: "erreur"}))

	var deletion *entity.AuditLog
	for _, l := range store.AuditLogs {
		if l.ActionType == entity.AuditActionDelete {
			deletion = l
		}
	}
	require.NotNil(t, deletion)
	assert.Equal(t, "erreur", deletion.Reason)

	var details map[string]interface{}
	require.NoError(t, json.Unmarshal(deletion.Details, &details))
	items, ok := details["items"].([]interface{})
	require.True(t, ok, "details debe incluir las líneas borradas")
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "Savon", line["product_name"])
}

func TestNeedsDelete_MotivoObligatorio(t *testing.T) {
	_, uc := needsFixture(t)
	err := uc.Delete(context.Background(), adminActor, "whatever", dto.DeleteNeedsRequest{})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
}

// Un motivo de puros espacios equivale a no dar motivo.
func TestNeedsDelete_MotivoEnBlancoRechazado(t *testing.T) {
	store, uc := needsFixture(t)
	res, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site:  entity.SiteAbidjan,
		Items: []dto.NeedsLine{{ProductID: "p-1", Quantity: d("1")}},
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), adminActor, res.ID, dto.DeleteNeedsRequest{Reason: "   "})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.Len(t, store.Needs, 1, "el bon sigue intacto")
}

// Ser el autor del bon no sustituye el permiso delete_needs.
func TestNeedsDelete_AutorSinPermisoRechazado(t *testing.T) {
	store, uc := needsFixture(t)
	res, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site:  entity.SiteAbidjan,
		Items: []dto.NeedsLine{{ProductID: "p-1", Quantity: d("2")}},
	})
	require.NoError(t, err)

	err = uc.Delete(context.Background(), serviceActor, res.ID, dto.DeleteNeedsRequest{Reason: "je me suis trompé"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, store.Needs, 1, "el bon sigue intacto")
	assert.True(t, store.Products["p-1"].Stock.Equal(d("8")), "el stock no se restituye")
}

func TestNeedsDelete_SinPermisoNiAutoria(t *testing.T) {
	store, uc := needsFixture(t)
	res, err := uc.Submit(context.Background(), serviceActor, dto.SubmitNeedsRequest{
		Site:  entity.SiteAbidjan,
		Items: []dto.NeedsLine{{ProductID: "p-1", Quantity: d("1")}},
	})
	require.NoError(t, err)

	other := &entity.User{
		ID: "otro", Role: entity.RoleService,
		Permissions: entity.RolePermissions(entity.RoleService),
	}
	err = uc.Delete(context.Background(), other, res.ID, dto.DeleteNeedsRequest{Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, store.Needs, 1, "el bon sigue intacto")
}

// La lectura por ID respeta la misma visibilidad que el historial: sin
// view_full_needs_history solo se leen los bons propios.
func TestNeedsGetByID_SoloLosPropios(t *testing.T) {
	store, uc := needsFixture(t)
	store.Needs["mine-1"] = &entity.NeedsRequest{
		ID: "mine-1", CreatedBy: serviceActor.ID, Site: entity.SiteAbidjan, CreatedAt: time.Now(),
	}
	store.Needs["other-1"] = &entity.NeedsRequest{
		ID: "other-1", CreatedBy: "otro", Site: entity.SiteAbidjan, CreatedAt: time.Now(),
	}

	own, err := uc.GetByID(serviceActor, "mine-1")
	require.NoError(t, err)
	assert.Equal(t, "mine-1", own.ID)

	_, err = uc.GetByID(serviceActor, "other-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	foreign, err := uc.GetByID(adminActor, "other-1")
	require.NoError(t, err)
	assert.Equal(t, "other-1", foreign.ID)
}

// El ticket PDF pasa por GetEntity: mismo control de autoría.
func TestNeedsGetEntity_AjenoRechazado(t *testing.T) {
	store, uc := needsFixture(t)
	store.Needs["other-1"] = &entity.NeedsRequest{
		ID: "other-1", CreatedBy: "otro", Site: entity.SiteAbidjan, CreatedAt: time.Now(),
	}

	_, err := uc.GetEntity(serviceActor, "other-1")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// Sin view_full_needs_history el usuario solo ve sus bons del día en curso.
func TestNeedsList_HistorialRestringido(t *testing.T) {
	store, uc := needsFixture(t)
	yesterday := time.Now().Add(-36 * time.Hour)
	store.Needs["old-1"] = &entity.NeedsRequest{
		ID: "old-1", CreatedBy: serviceActor.ID, Site: entity.SiteAbidjan, CreatedAt: yesterday,
	}
	store.Needs["other-1"] = &entity.NeedsRequest{
		ID: "other-1", CreatedBy: "otro", Site: entity.SiteAbidjan, CreatedAt: time.Now(),
	}
	store.Needs["mine-1"] = &entity.NeedsRequest{
		ID: "mine-1", CreatedBy: serviceActor.ID, Site: entity.SiteAbidjan, CreatedAt: time.Now(),
	}

	list, err := uc.List(serviceActor, dto.NeedsListQuery{}, nil, nil)
	require.NoError(t, err)
	require.Len(t, list, 1, "solo el bon propio de hoy")
	assert.Equal(t, "mine-1", list[0].ID)

	full, err := uc.List(adminActor, dto.NeedsListQuery{}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, full, 3, "admin ve el historial completo")
}

// Sin límite explícito el historial corta en 50 bons.
func TestNeedsList_LimitePorDefecto(t *testing.T) {
	store, uc := needsFixture(t)
	for i := 0; i < 60; i++ {
		id := fmt.Sprintf("bon-%d", i)
		store.Needs[id] = &entity.NeedsRequest{
			ID: id, CreatedBy: "otro", Site: entity.SiteAbidjan,
			CreatedAt: time.Now().Add(-time.Duration(i) * time.Minute),
		}
	}

	list, err := uc.List(adminActor, dto.NeedsListQuery{}, nil, nil)
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
