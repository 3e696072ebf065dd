// Package needs implementa los bons de sortie: creación atómica de lotes de
// salidas, anulación con restitución de stock e historial filtrado por permiso.
package needs

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
	"github.com/nhr-resorts/gestion-api/pkg/textfold"
)

// defaultNeedsLimit tope de bons devueltos por el historial cuando el cliente
// no pide otro.
const defaultNeedsLimit = 50

// UseCase casos de uso de los bons de sortie.
type UseCase struct {
	txRunner inventory.TxRunner
	needs    repository.NeedsRepository
	auditor  *audit.Recorder
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner inventory.TxRunner, needsRepo repository.NeedsRepository, auditor *audit.Recorder) *UseCase {
	return &UseCase{txRunner: txRunner, needs: needsRepo, auditor: auditor}
}

// Submit registra un bon de sortie. Primero valida TODAS las líneas contra el
// stock bloqueado; solo si todas pasan se escriben los movimientos y se
// decrementan los contadores. Una línea inválida anula el bon completo.
func (uc *UseCase) Submit(ctx context.Context, actor *entity.User, in dto.SubmitNeedsRequest) (*dto.NeedsResponse, error) {
	if !entity.ValidSite(in.Site) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if !line.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	request := &entity.NeedsRequest{
		ID:         uuid.New().String(),
		CreatedBy:  actor.ID,
		Site:       in.Site,
		ItemsCount: len(in.Items),
		CreatedAt:  now,
	}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.RevisionRepository,
		needsRepo repository.NeedsRepository,
	) error {
		// Fase 1: bloquear y validar todas las líneas.
		products := make([]*entity.Product, len(in.Items))
		for i, line := range in.Items {
			product, err := productRepo.GetForUpdate(line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}
			if product.Site != in.Site {
				return domain.ErrInvalidInput
			}
			if product.Archived() {
				return domain.ErrArchived
			}
			if product.Stock.LessThan(line.Quantity) {
				return domain.ErrInsufficientStock
			}
			products[i] = product
		}

		// Fase 2: aplicar.
		if err := needsRepo.Create(request); err != nil {
			return err
		}
		for i, line := range in.Items {
			product := products[i]
			newStock := product.Stock.Sub(line.Quantity)
			if err := productRepo.UpdateStock(product.ID, newStock, now); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   product.ID,
				Type:        entity.MovementTypeOUT,
				Quantity:    line.Quantity,
				Site:        in.Site,
				PerformedBy: actor.ID,
				RequestID:   request.ID,
				CreatedAt:   now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			mov.ProductName = product.Name
			mov.ProductCategory = product.Category
			request.Movements = append(request.Movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionCreate,
		EntityType: entity.AuditEntityNeedsRequest,
		EntityID:   request.ID,
		Site:       in.Site,
		Details:    map[string]interface{}{"items_count": len(in.Items)},
	})

	request.CreatorName = actor.FullName
	resp := dto.ToNeedsResponse(request)
	return &resp, nil
}

// Delete anula un bon completo: restituye el stock de cada línea, borra los
// movimientos y el bon, todo en una transacción. El contenido del bon se
// fotografía en la auditoría ANTES de borrarlo.
func (uc *UseCase) Delete(ctx context.Context, actor *entity.User, requestID string, in dto.DeleteNeedsRequest) error {
	// Un motivo de puros espacios no es un motivo.
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.ErrReasonRequired
	}
	request, err := uc.needs.GetByID(requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return domain.ErrNotFound
	}
	// La anulación exige SIEMPRE el permiso delete_needs; ser el autor del
	// bon no lo sustituye.
	if !actor.Can(func(p entity.Permissions) bool { return p.DeleteNeeds }) {
		return domain.ErrForbidden
	}

	// Instantánea para la auditoría, tomada antes del borrado.
	snapshot := make([]map[string]interface{}, 0, len(request.Movements))
	for _, m := range request.Movements {
		snapshot = append(snapshot, map[string]interface{}{
			"product_id":   m.ProductID,
			"product_name": m.ProductName,
			"quantity":     m.Quantity,
		})
	}

	now := time.Now()
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.RevisionRepository,
		needsRepo repository.NeedsRepository,
	) error {
		movements, err := movRepo.ListByRequest(requestID)
		if err != nil {
			return err
		}
		for _, m := range movements {
			product, err := productRepo.GetForUpdate(m.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				// Producto archivado y renombrado: la restitución ya no aplica,
				// pero el borrado del bon sigue.
				continue
			}
			if err := productRepo.UpdateStock(product.ID, product.Stock.Add(m.Quantity), now); err != nil {
				return err
			}
		}
		if err := movRepo.DeleteByRequest(requestID); err != nil {
			return err
		}
		return needsRepo.Delete(requestID)
	})
	if err != nil {
		return err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionDelete,
		EntityType: entity.AuditEntityNeedsRequest,
		EntityID:   requestID,
		Site:       request.Site,
		Reason:     reason,
		Details: map[string]interface{}{
			"items_count": len(snapshot),
			"items":       snapshot,
			"created_by":  request.CreatedBy,
		},
	})
	return nil
}

// GetByID devuelve un bon con sus líneas, con la misma restricción de
// visibilidad que el historial.
func (uc *UseCase) GetByID(actor *entity.User, requestID string) (*dto.NeedsResponse, error) {
	request, err := uc.GetEntity(actor, requestID)
	if err != nil {
		return nil, err
	}
	resp := dto.ToNeedsResponse(request)
	return &resp, nil
}

// GetEntity devuelve el bon completo sin proyección DTO, para generar
// el ticket PDF. Sin el permiso de historial completo, el actor solo puede
// leer sus propios bons.
func (uc *UseCase) GetEntity(actor *entity.User, requestID string) (*entity.NeedsRequest, error) {
	request, err := uc.needs.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if !actor.Can(func(p entity.Permissions) bool { return p.ViewFullNeedsHistory }) && request.CreatedBy != actor.ID {
		return nil, domain.ErrForbidden
	}
	return request, nil
}

// List devuelve el historial visible para el actor. Sin el permiso de
// historial completo, el usuario solo ve sus propios bons del día en curso.
func (uc *UseCase) List(actor *entity.User, q dto.NeedsListQuery, from, to *time.Time) ([]dto.NeedsResponse, error) {
	f := repository.NeedsFilter{
		Site:      q.Site,
		ProductID: q.ProductID,
		From:      from,
		To:        to,
		Limit:     q.Limit,
	}
	if f.Limit <= 0 {
		f.Limit = defaultNeedsLimit
	}
	if !actor.Can(func(p entity.Permissions) bool { return p.ViewFullNeedsHistory }) {
		f.CreatedBy = actor.ID
		startOfDay := usecase.StartOfDay(time.Now())
		if f.From == nil || f.From.Before(startOfDay) {
			f.From = &startOfDay
		}
	}
	list, err := uc.needs.List(f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NeedsResponse, 0, len(list))
	for _, r := range list {
		if q.Search != "" && !needsMatches(r, q.Search) {
			continue
		}
		out = append(out, dto.ToNeedsResponse(r))
	}
	return out, nil
}

// needsMatches prueba el texto libre contra el solicitante y las líneas,
// insensible a acentos.
func needsMatches(r *entity.NeedsRequest, search string) bool {
	if textfold.Contains(r.CreatorName, search) {
		return true
	}
	for _, m := range r.Movements {
		if textfold.Contains(m.ProductName, search) || textfold.Contains(m.ProductCategory, search) {
			return true
		}
	}
	return false
}
