package usecase

import (
	"fmt"
	"time"

	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
	"github.com/nhr-resorts/gestion-api/pkg/textfold"
)

const (
	defaultHistoryLimit  = 200
	defaultPurchaseLimit = 50
)

// MovementUseCase lecturas del ledger de stock: historial filtrado y
// revisiones de un movimiento.
type MovementUseCase struct {
	movements repository.MovementRepository
	revisions repository.RevisionRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(movements repository.MovementRepository, revisions repository.RevisionRepository) *MovementUseCase {
	return &MovementUseCase{movements: movements, revisions: revisions}
}

// ParseDateRange interpreta un rango YYYY-MM-DD; EndDate cubre el día entero.
func ParseDateRange(q dto.DateRangeQuery) (from, to *time.Time, err error) {
	if q.StartDate != "" {
		t, perr := time.Parse("2006-01-02", q.StartDate)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: start_date", domain.ErrInvalidInput)
		}
		from = &t
	}
	if q.EndDate != "" {
		t, perr := time.Parse("2006-01-02", q.EndDate)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: end_date", domain.ErrInvalidInput)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		to = &end
	}
	return from, to, nil
}

// StartOfDay devuelve la medianoche del día de t en su propia zona horaria.
// El "día en curso" del hotel es el día local, no el día UTC.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// List devuelve el historial de movimientos visible para el actor. Sin el
// permiso view_stock_history el usuario solo ve sus propios movimientos.
func (uc *MovementUseCase) List(actor *entity.User, q dto.MovementListQuery) ([]dto.MovementResponse, error) {
	from, to, err := ParseDateRange(q.DateRangeQuery)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	f := repository.MovementFilter{
		Site:      q.Site,
		Type:      q.Type,
		ProductID: q.ProductID,
		From:      from,
		To:        to,
		Limit:     limit,
	}
	if q.UserID != "" {
		f.PerformedBy = q.UserID
	}
	if !actor.Can(func(p entity.Permissions) bool { return p.ViewStockHistory }) {
		f.PerformedBy = actor.ID
	}
	list, err := uc.movements.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return out, nil
}

// ListPurchases devuelve el historial de compras (movimientos IN) agrupado
// por referencia. Los no-admin solo ven sus propias compras. El texto libre
// busca en referencia, producto y categoría, insensible a acentos.
func (uc *MovementUseCase) ListPurchases(actor *entity.User, q dto.MovementListQuery) ([]*dto.PurchaseResponse, error) {
	from, to, err := ParseDateRange(q.DateRangeQuery)
	if err != nil {
		return nil, err
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultPurchaseLimit
	} else if limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	f := repository.MovementFilter{
		Site:  q.Site,
		Type:  entity.MovementTypeIN,
		From:  from,
		To:    to,
		Limit: limit,
	}
	if !actor.IsAdmin() {
		f.PerformedBy = actor.ID
	}
	list, err := uc.movements.List(f)
	if err != nil {
		return nil, err
	}
	groups := inventory.GroupByReference(list)
	if q.Search == "" {
		return groups, nil
	}
	filtered := groups[:0]
	for _, g := range groups {
		if purchaseMatches(g, q.Search) {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

// purchaseMatches prueba el texto libre contra la referencia y las líneas.
func purchaseMatches(p *dto.PurchaseResponse, search string) bool {
	if textfold.Contains(p.Reference, search) {
		return true
	}
	for _, item := range p.Items {
		if textfold.Contains(item.ProductName, search) || textfold.Contains(item.Note, search) {
			return true
		}
	}
	return false
}

// Revisions devuelve el rastro de ediciones de un movimiento, más antiguo primero.
func (uc *MovementUseCase) Revisions(movementID string) ([]dto.RevisionResponse, error) {
	mov, err := uc.movements.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	revs, err := uc.revisions.ListByMovement(movementID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RevisionResponse, 0, len(revs))
	for _, r := range revs {
		out = append(out, dto.ToRevisionResponse(r))
	}
	return out, nil
}
