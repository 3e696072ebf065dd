// Package inventory contiene el motor transaccional del ledger de stock:
// edición de cantidades, recepción de compras y las reglas de reconciliación
// contra los totales históricos.
package inventory

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
	"github.com/nhr-resorts/gestion-api/internal/domain/stock"
	"github.com/nhr-resorts/gestion-api/pkg/logger"
)

// EditQuantityUseCase corrige la cantidad de un movimiento OUT ya registrado,
// reconciliando contra el ledger completo y ajustando el contador vivo en la
// misma transacción.
type EditQuantityUseCase struct {
	txRunner TxRunner
	movs     repository.MovementRepository
	auditor  *audit.Recorder
	log      *logger.Logger
}

// NewEditQuantityUseCase construye el caso de uso.
func NewEditQuantityUseCase(txRunner TxRunner, movs repository.MovementRepository, auditor *audit.Recorder, log *logger.Logger) *EditQuantityUseCase {
	return &EditQuantityUseCase{txRunner: txRunner, movs: movs, auditor: auditor, log: log}
}

// EditResult resultado de una edición aplicada.
type EditResult struct {
	MovementID string // puede cambiar si hubo repli DELETE+INSERT
	Method     string
	NewStock   decimal.Decimal
}

// Execute aplica la edición. Secuencia de validación, en orden:
//
//  1. la nueva cantidad debe ser > 0;
//  2. si es igual a la actual: nada que hacer (ErrNoChange);
//  3. motivo obligatorio en cuanto hay cambio real;
//  4. chequeo autoritativo contra el ledger: el stock derivado con la
//     cantidad editada no puede quedar negativo;
//  5. chequeo del contador vivo: un aumento no puede exceder el disponible.
//
// El contador se mueve en sentido INVERSO al delta de la salida: sale más,
// queda menos. Si el UPDATE de la fila reporta cero filas afectadas sin error
// (veto silencioso de la política de la base), se repliega a DELETE+INSERT
// dentro de la misma transacción, conservando requestID y fecha originales y
// re-apuntando las revisiones previas a la nueva identidad.
func (uc *EditQuantityUseCase) Execute(ctx context.Context, movementID string, actor *entity.User, in dto.EditQuantityRequest) (*EditResult, error) {
	mov, err := uc.movs.GetByID(movementID)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	if mov.Type != entity.MovementTypeOUT {
		return nil, domain.ErrInvalidInput
	}

	if err := stock.ValidateNewQuantity(mov.Quantity, in.NewQuantity); err != nil {
		return nil, err
	}
	// Un motivo de puros espacios no es un motivo.
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.ErrReasonRequired
	}

	var result EditResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		revisionRepo repository.RevisionRepository,
		_ repository.NeedsRepository,
	) error {
		product, err := productRepo.GetForUpdate(mov.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Archived() {
			return domain.ErrArchived
		}

		totals, err := movRepo.SumByProductSite(mov.ProductID, mov.Site)
		if err != nil {
			return err
		}
		plan, err := stock.PlanQuantityEdit(mov.Quantity, in.NewQuantity, totals.TotalIn, totals.TotalOut, product.Stock)
		if err != nil {
			return err
		}

		now := time.Now()
		method := entity.RevisionMethodUpdate
		newID := mov.ID

		if err := movRepo.UpdateQuantity(mov.ID, in.NewQuantity, mov.Note); err != nil {
			if !errors.Is(err, domain.ErrAuthorizationDenied) {
				return err
			}
			// Repli: la base vetó el UPDATE en silencio. Se reinserta el
			// movimiento corregido con nueva identidad, mismo bon y misma
			// fecha, y se borra el original.
			uc.log.Warn().
				Str("movement_id", mov.ID).
				Msg("edición vetada por la base, repli DELETE+INSERT")
			method = entity.RevisionMethodReinsert
			newID = uuid.New().String()
			reinserted := &entity.StockMovement{
				ID:          newID,
				ProductID:   mov.ProductID,
				Type:        entity.MovementTypeOUT,
				Quantity:    in.NewQuantity,
				Site:        mov.Site,
				PerformedBy: mov.PerformedBy,
				RequestID:   mov.RequestID,
				Note:        mov.Note,
				CreatedAt:   mov.CreatedAt,
			}
			if err := movRepo.Create(reinserted); err != nil {
				return err
			}
			if err := revisionRepo.Reassign(mov.ID, newID); err != nil {
				return err
			}
			if err := movRepo.Delete(mov.ID); err != nil {
				return err
			}
		}

		if err := productRepo.UpdateStock(product.ID, plan.NewStock, now); err != nil {
			return err
		}

		rev := &entity.MovementRevision{
			ID:          uuid.New().String(),
			MovementID:  newID,
			ActorID:     actor.ID,
			ActorName:   actor.FullName,
			OldQuantity: mov.Quantity,
			NewQuantity: in.NewQuantity,
			StockBefore: product.Stock,
			StockAfter:  plan.NewStock,
			Reason:      reason,
			Method:      method,
			CreatedAt:   now,
		}
		if err := revisionRepo.Create(rev); err != nil {
			return err
		}

		result = EditResult{MovementID: newID, Method: method, NewStock: plan.NewStock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionUpdate,
		EntityType: entity.AuditEntityStockMovement,
		EntityID:   result.MovementID,
		Site:       mov.Site,
		Reason:     reason,
		Details: map[string]interface{}{
			"product_id":   mov.ProductID,
			"old_quantity": mov.Quantity,
			"new_quantity": in.NewQuantity,
			"method":       result.Method,
		},
	})
	return &result, nil
}
