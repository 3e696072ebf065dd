package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/testutil"
)

func auditFixture(t *testing.T, entries int) *usecase.AuditUseCase {
	t.Helper()
	store := testutil.NewStore()
	for i := 0; i < entries; i++ {
		store.AuditLogs = append(store.AuditLogs, &entity.AuditLog{
			ID:         fmt.Sprintf("log-%d", i),
			UserName:   "Admin",
			ActionType: entity.AuditActionUpdate,
			EntityType: entity.AuditEntityProduct,
			Site:       entity.SiteAbidjan,
			CreatedAt:  time.Now().Add(-time.Duration(i) * time.Minute),
		})
	}
	return usecase.NewAuditUseCase(&testutil.AuditRepo{Store: store})
}

// Sin límite explícito el visor corta en 100 entradas.
func TestAuditList_LimitePorDefecto(t *testing.T) {
	uc := auditFixture(t, 130)
	out, err := uc.List(dto.AuditListQuery{})
	require.NoError(t, err)
	assert.Len(t, out, 100)
}

func TestAuditList_LimiteExplicitoRespetado(t *testing.T) {
	uc := auditFixture(t, 130)
	out, err := uc.List(dto.AuditListQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, out, 10)
}
