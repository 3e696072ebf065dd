package usecase

import (
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

const defaultAuditLimit = 100

// AuditUseCase visor del journal de auditoría (solo lectura).
type AuditUseCase struct {
	logs repository.AuditRepository
}

// NewAuditUseCase construye el caso de uso.
func NewAuditUseCase(logs repository.AuditRepository) *AuditUseCase {
	return &AuditUseCase{logs: logs}
}

// List devuelve las entradas filtradas, más reciente primero.
func (uc *AuditUseCase) List(q dto.AuditListQuery) ([]dto.AuditLogResponse, error) {
	from, to, err := ParseDateRange(q.DateRangeQuery)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}
	list, err := uc.logs.List(repository.AuditFilter{
		ActionType: q.ActionType,
		EntityType: q.EntityType,
		Site:       q.Site,
		Search:     q.Search,
		From:       from,
		To:         to,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.AuditLogResponse, 0, len(list))
	for _, l := range list {
		out = append(out, dto.ToAuditLogResponse(l))
	}
	return out, nil
}
