package inventory_test

import (
	"context"
	"strings"
	"testing"

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

func purchaseFixture(t *testing.T) (*testutil.Store, *inventory.PurchaseUseCase) {
	t.Helper()
	store := testutil.NewStore()
	store.Products["p-1"] = &entity.Product{
		ID: "p-1", Name: "Riz", Category: "Épicerie",
		Site: entity.SiteBassam, Stock: d("5"),
	}
	store.Products["p-2"] = &entity.Product{
		ID: "p-2", Name: "Huile", Category: "Épicerie",
		Site: entity.SiteBassam, Stock: d("0"),
	}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	auditor := audit.NewRecorder(&testutil.AuditRepo{Store: store}, log)
	uc := inventory.NewPurchaseUseCase(&testutil.TxRunner{Store: store}, auditor)
	return store, uc
}

func TestPurchase_LoteCompleto(t *testing.T) {
	store, uc := purchaseFixture(t)
	res, err := uc.Submit(context.Background(), testActor, dto.SubmitPurchaseRequest{
		Site: entity.SiteBassam,
		Items: []dto.PurchaseLine{
			{ProductID: "p-1", Quantity: d("10")},
			{ProductID: "p-2", Quantity: d("3.5")},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Reference, "PUR-"), "referencia legible compartida")
	require.Len(t, res.Items, 2)
	for _, item := range res.Items {
		assert.Equal(t, res.Reference, item.Reference, "todas las líneas comparten la referencia")
		assert.Equal(t, entity.MovementTypeIN, item.Type)
	}
	assert.True(t, store.Products["p-1"].Stock.Equal(d("15")))
	assert.True(t, store.Products["p-2"].Stock.Equal(d("3.5")))
	assert.Len(t, store.Movements, 2)
}

// Una línea inválida anula el lote completo: nada queda escrito.
func TestPurchase_LineaInvalidaAnulaElLote(t *testing.T) {
	store, uc := purchaseFixture(t)
	_, err := uc.Submit(context.Background(), testActor, dto.SubmitPurchaseRequest{
		Site: entity.SiteBassam,
		Items: []dto.PurchaseLine{
			{ProductID: "p-1", Quantity: d("10")},
			{ProductID: "desconocido", Quantity: d("3")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, store.Products["p-1"].Stock.Equal(d("5")), "rollback: el stock no se mueve")
	assert.Empty(t, store.Movements)
}

func TestPurchase_CantidadNoPositivaRechazada(t *testing.T) {
	_, uc := purchaseFixture(t)
	_, err := uc.Submit(context.Background(), testActor, dto.SubmitPurchaseRequest{
		Site:  entity.SiteBassam,
		Items: []dto.PurchaseLine{{ProductID: "p-1", Quantity: d("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPurchase_SitioEquivocadoRechazado(t *testing.T) {
	store, uc := purchaseFixture(t)
	store.Products["p-9"] = &entity.Product{
		ID: "p-9", Name: "Thon", Site: entity.SiteAbidjan, Stock: d("1"),
	}
	_, err := uc.Submit(context.Background(), testActor, dto.SubmitPurchaseRequest{
		Site:  entity.SiteBassam,
		Items: []dto.PurchaseLine{{ProductID: "p-9", Quantity: d("2")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGroupByReference(t *testing.T) {
	movs := []*entity.StockMovement{
		{ID: "m1", Reference: "PUR-aaa", Site: entity.SiteAbidjan},
		{ID: "m2", Reference: "PUR-aaa", Site: entity.SiteAbidjan},
		{ID: "m3", Reference: "PUR-bbb", Site: entity.SiteAbidjan},
		{ID: "m4", Site: entity.SiteAbidjan}, // entrada antigua sin referencia
	}
	groups := inventory.GroupByReference(movs)
	require.Len(t, groups, 3)
	assert.Equal(t, "PUR-aaa", groups[0].Reference)
	assert.Len(t, groups[0].Items, 2)
	assert.Equal(t, "m4", groups[2].Reference, "sin referencia: grupo propio por ID")
}
