package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/testutil"
	"github.com/nhr-resorts/gestion-api/pkg/logger"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testActor = &entity.User{
	ID:       "actor-1",
	FullName: "Awa Kouassi",
	Role:     entity.RoleGouvernante,
	Site:     entity.SiteAbidjan,
}

// fixture: producto con IN 10 y un OUT 4 en el ledger, contador vivo 6.
func editFixture(t *testing.T) (*testutil.Store, *inventory.EditQuantityUseCase, string) {
	t.Helper()
	store := testutil.NewStore()
	now := time.Now()

	store.Products["prod-1"] = &entity.Product{
		ID:       "prod-1",
		Name:     "Savon",
		Category: "Hygiène",
		Site:     entity.SiteAbidjan,
		Stock:    d("6"),
	}
	store.Movements["in-1"] = &entity.StockMovement{
		ID: "in-1", ProductID: "prod-1", Type: entity.MovementTypeIN,
		Quantity: d("10"), Site: entity.SiteAbidjan, CreatedAt: now.Add(-2 * time.Hour),
	}
	store.Movements["out-1"] = &entity.StockMovement{
		ID: "out-1", ProductID: "prod-1", Type: entity.MovementTypeOUT,
		Quantity: d("4"), Site: entity.SiteAbidjan,
		PerformedBy: "actor-1", RequestID: "bon-1", CreatedAt: now.Add(-time.Hour),
	}

	log := logger.New(logger.Config{Env: "production", Level: "error"})
	auditor := audit.NewRecorder(&testutil.AuditRepo{Store: store}, log)
	uc := inventory.NewEditQuantityUseCase(
		&testutil.TxRunner{Store: store},
		&testutil.MovementRepo{Store: store},
		auditor, log,
	)
	return store, uc, "out-1"
}

func TestEditQuantity_CantidadInvalida(t *testing.T) {
	_, uc, movID := editFixture(t)
	_, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("0"), Reason: "erreur de saisie",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEditQuantity_SinCambio(t *testing.T) {
	_, uc, movID := editFixture(t)
	_, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("4"), Reason: "rien",
	})
	assert.ErrorIs(t, err, domain.ErrNoChange)
}

func TestEditQuantity_MotivoObligatorio(t *testing.T) {
	store, uc, movID := editFixture(t)
	_, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("5"),
	})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.True(t, store.Movements["out-1"].Quantity.Equal(d("4")),
		"sin motivo no se escribe nada")
}

// Un motivo de puros espacios equivale a no dar motivo.
func TestEditQuantity_MotivoEnBlancoRechazado(t *testing.T) {
	store, uc, movID := editFixture(t)
	_, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("5"), Reason: "   ",
	})
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.True(t, store.Movements["out-1"].Quantity.Equal(d("4")), "el movimiento no se toca")
	assert.True(t, store.Products["prod-1"].Stock.Equal(d("6")), "el contador tampoco")
	assert.Empty(t, store.Revisions)
}

// El chequeo autoritativo contra el ledger bloquea aunque el contador vivo
// tuviera margen: con IN=10, subir la salida a 12 dejaría el derivado en -2.
func TestEditQuantity_DerivadoNegativoBloquea(t *testing.T) {
	store, uc, movID := editFixture(t)
	_, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("12"), Reason: "correction",
	})
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.True(t, store.Products["prod-1"].Stock.Equal(d("6")), "el contador no debe moverse")
}

// Con el contador desfasado por debajo del derivado, manda el contador vivo:
// el aumento de salida no puede exceder el stock disponible.
func TestEditQuantity_StockVivoInsuficiente(t *testing.T) {
	store, uc, movID := editFixture(t)
	store.Products["prod-1"].Stock = d("2") // drift: derivado diría 6

	_, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("8"), Reason: "correction",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, store.Movements["out-1"].Quantity.Equal(d("4")))
}

// Una disminución de la salida devuelve stock: el contador se mueve en
// sentido inverso al delta.
func TestEditQuantity_DisminucionLiberaStock(t *testing.T) {
	store, uc, movID := editFixture(t)
	res, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("1"), Reason: "trop servi",
	})
	require.NoError(t, err)

	assert.Equal(t, "out-1", res.MovementID, "sin veto, el movimiento conserva su identidad")
	assert.Equal(t, entity.RevisionMethodUpdate, res.Method)
	assert.True(t, res.NewStock.Equal(d("9")), "6 + (4-1) = 9")
	assert.True(t, store.Products["prod-1"].Stock.Equal(d("9")))
	assert.True(t, store.Movements["out-1"].Quantity.Equal(d("1")))

	require.Len(t, store.Revisions, 1)
	for _, rev := range store.Revisions {
		assert.Equal(t, "out-1", rev.MovementID)
		assert.True(t, rev.OldQuantity.Equal(d("4")))
		assert.True(t, rev.NewQuantity.Equal(d("1")))
		assert.True(t, rev.StockBefore.Equal(d("6")))
		assert.True(t, rev.StockAfter.Equal(d("9")))
		assert.Equal(t, "trop servi", rev.Reason)
	}
	require.Len(t, store.AuditLogs, 1)
	assert.Equal(t, entity.AuditEntityStockMovement, store.AuditLogs[0].EntityType)
}

func TestEditQuantity_AumentoExactoPermitido(t *testing.T) {
	store, uc, movID := editFixture(t)
	// Aumento de 4 a 10: diff=6 == stock vivo 6, derivado queda en 0.
	res, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("10"), Reason: "inventaire physique",
	})
	require.NoError(t, err)
	assert.True(t, res.NewStock.IsZero())
	assert.True(t, store.Products["prod-1"].Stock.IsZero())
}

// Veto silencioso: el UPDATE reporta cero filas. El caso de uso repliega a
// DELETE+INSERT en la misma transacción, conservando bon y fecha originales.
func TestEditQuantity_VetoSilenciosoRepliegaAReinsercion(t *testing.T) {
	store, uc, movID := editFixture(t)
	store.DenyQuantityUpdate = true
	originalCreatedAt := store.Movements["out-1"].CreatedAt

	res, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("2"), Reason: "correction",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.RevisionMethodReinsert, res.Method)
	assert.NotEqual(t, "out-1", res.MovementID, "la reinserción cambia la identidad")
	assert.Nil(t, store.Movements["out-1"], "el original debe desaparecer")

	reinserted := store.Movements[res.MovementID]
	require.NotNil(t, reinserted)
	assert.True(t, reinserted.Quantity.Equal(d("2")))
	assert.Equal(t, "bon-1", reinserted.RequestID, "conserva el bon original")
	assert.Equal(t, originalCreatedAt, reinserted.CreatedAt, "conserva la fecha original")
	assert.True(t, store.Products["prod-1"].Stock.Equal(d("8")), "6 + (4-2) = 8")

	require.Len(t, store.Revisions, 1)
	for _, rev := range store.Revisions {
		assert.Equal(t, res.MovementID, rev.MovementID, "la revisión apunta a la nueva identidad")
		assert.Equal(t, entity.RevisionMethodReinsert, rev.Method)
	}
}

// Las revisiones previas siguen al movimiento reinsertado.
func TestEditQuantity_ReinsercionReapuntaRevisionesPrevias(t *testing.T) {
	store, uc, movID := editFixture(t)
	store.Revisions["rev-0"] = &entity.MovementRevision{
		ID: "rev-0", MovementID: "out-1",
		OldQuantity: d("5"), NewQuantity: d("4"),
		Method: entity.RevisionMethodUpdate, CreatedAt: time.Now().Add(-30 * time.Minute),
	}
	store.DenyQuantityUpdate = true

	res, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("3"), Reason: "correction",
	})
	require.NoError(t, err)
	assert.Equal(t, res.MovementID, store.Revisions["rev-0"].MovementID)
}

func TestEditQuantity_SoloMovimientosOUT(t *testing.T) {
	_, uc, _ := editFixture(t)
	_, err := uc.Execute(context.Background(), "in-1", testActor, dto.EditQuantityRequest{
		NewQuantity: d("5"), Reason: "correction",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEditQuantity_MovimientoInexistente(t *testing.T) {
	_, uc, _ := editFixture(t)
	_, err := uc.Execute(context.Background(), "nope", testActor, dto.EditQuantityRequest{
		NewQuantity: d("5"), Reason: "correction",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditQuantity_ProductoArchivadoRechazado(t *testing.T) {
	store, uc, movID := editFixture(t)
	store.Products["prod-1"].Category = entity.ArchivedCategory

	_, err := uc.Execute(context.Background(), movID, testActor, dto.EditQuantityRequest{
		NewQuantity: d("2"), Reason: "correction",
	})
	assert.ErrorIs(t, err, domain.ErrArchived)
}
