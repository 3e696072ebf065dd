package inventory

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

// PurchaseUseCase registra la recepción de compras: un lote de movimientos IN
// bajo una misma referencia, aplicado en una sola transacción.
type PurchaseUseCase struct {
	txRunner TxRunner
	auditor  *audit.Recorder
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(txRunner TxRunner, auditor *audit.Recorder) *PurchaseUseCase {
	return &PurchaseUseCase{txRunner: txRunner, auditor: auditor}
}

const refAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newPurchaseReference genera una referencia corta legible, p.ej. PUR-x7k02mf.
func newPurchaseReference() string {
	var b strings.Builder
	b.WriteString("PUR-")
	for i := 0; i < 7; i++ {
		b.WriteByte(refAlphabet[rand.Intn(len(refAlphabet))])
	}
	return b.String()
}

// Submit valida todas las líneas y luego las aplica: cada línea bloquea la
// fila del producto, incrementa el contador y escribe un movimiento IN con la
// referencia compartida. Si una línea falla, nada queda escrito.
func (uc *PurchaseUseCase) Submit(ctx context.Context, actor *entity.User, in dto.SubmitPurchaseRequest) (*dto.PurchaseResponse, error) {
	if !entity.ValidSite(in.Site) {
		return nil, domain.ErrInvalidInput
	}
	for _, line := range in.Items {
		if !line.Quantity.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	ref := newPurchaseReference()
	now := time.Now()
	out := &dto.PurchaseResponse{Reference: ref, Site: in.Site}

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.RevisionRepository,
		_ repository.NeedsRepository,
	) error {
		for _, line := range in.Items {
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

			newStock := product.Stock.Add(line.Quantity)
			if err := productRepo.UpdateStock(product.ID, newStock, now); err != nil {
				return err
			}
			mov := &entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   product.ID,
				Type:        entity.MovementTypeIN,
				Quantity:    line.Quantity,
				Site:        in.Site,
				PerformedBy: actor.ID,
				Reference:   ref,
				Note:        in.Note,
				CreatedAt:   now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
			mov.ProductName = product.Name
			mov.ProductCategory = product.Category
			out.Items = append(out.Items, dto.ToMovementResponse(mov))
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
		EntityType: entity.AuditEntityStockMovement,
		EntityID:   ref,
		Site:       in.Site,
		Details: map[string]interface{}{
			"kind":        "purchase",
			"reference":   ref,
			"items_count": len(in.Items),
		},
	})
	return out, nil
}

// GroupByReference agrupa el historial de compras por referencia para el visor.
func GroupByReference(movs []*entity.StockMovement) []*dto.PurchaseResponse {
	index := make(map[string]*dto.PurchaseResponse)
	var order []string
	for _, m := range movs {
		ref := m.Reference
		if ref == "" {
			ref = m.ID // entradas antiguas sin referencia: grupo propio
		}
		g, ok := index[ref]
		if !ok {
			g = &dto.PurchaseResponse{Reference: ref, Site: m.Site}
			index[ref] = g
			order = append(order, ref)
		}
		g.Items = append(g.Items, dto.ToMovementResponse(m))
	}
	out := make([]*dto.PurchaseResponse, 0, len(order))
	for _, ref := range order {
		out = append(out, index[ref])
	}
	return out
}
