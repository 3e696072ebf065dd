package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
	"github.com/nhr-resorts/gestion-api/pkg/textfold"
)

// ProductUseCase CRUD de productos y archivado. El contador de stock nunca se
// escribe directamente desde aquí sin dejar rastro: todo cambio de cantidad
// pasa por un movimiento del ledger.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	products repository.ProductRepository
	auditor  *audit.Recorder
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner, products repository.ProductRepository, auditor *audit.Recorder) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, products: products, auditor: auditor}
}

// Create crea el producto en el/los sitio(s) pedido(s). Cada sitio recibe su
// propia fila con contador independiente; un stock inicial positivo queda
// registrado como movimiento IN "Stock initial".
func (uc *ProductUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateProductRequest) ([]dto.ProductResponse, error) {
	if in.InitialStock.IsNegative() || in.MinThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var sites []string
	if in.Target == dto.TargetBoth {
		sites = entity.Sites
	} else {
		if !entity.ValidSite(in.Target) {
			return nil, domain.ErrInvalidInput
		}
		sites = []string{in.Target}
	}

	now := time.Now()
	var out []dto.ProductResponse
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.RevisionRepository,
		_ repository.NeedsRepository,
	) error {
		for _, site := range sites {
			product := &entity.Product{
				ID:           uuid.New().String(),
				Name:         in.Name,
				Category:     in.Category,
				Site:         site,
				Stock:        in.InitialStock,
				MinThreshold: in.MinThreshold,
				ImageURL:     in.ImageURL,
				CreatedBy:    actor.ID,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := productRepo.Create(product); err != nil {
				return err
			}
			if in.InitialStock.IsPositive() {
				mov := &entity.StockMovement{
					ID:          uuid.New().String(),
					ProductID:   product.ID,
					Type:        entity.MovementTypeIN,
					Quantity:    in.InitialStock,
					Site:        site,
					PerformedBy: actor.ID,
					Note:        "Stock initial",
					CreatedAt:   now,
				}
				if err := movRepo.Create(mov); err != nil {
					return err
				}
			}
			out = append(out, dto.ToProductResponse(product))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, p := range out {
		uc.auditor.Record(audit.Entry{
			UserID:     actor.ID,
			UserName:   actor.FullName,
			ActionType: entity.AuditActionCreate,
			EntityType: entity.AuditEntityProduct,
			EntityID:   p.ID,
			Site:       p.Site,
			Details:    map[string]interface{}{"name": p.Name, "category": p.Category, "initial_stock": p.Stock},
		})
	}
	return out, nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToProductResponse(product)
	return &resp, nil
}

// List lista los productos activos de un sitio. El filtro Search pliega los
// acentos (Éponge == eponge) y se aplica en memoria sobre nombre y categoría;
// Status refina por estado de stock.
func (uc *ProductUseCase) List(q dto.ProductListQuery) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListActive(repository.ProductFilter{Site: q.Site, Category: q.Category})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		if q.Search != "" && !textfold.Contains(p.Name, q.Search) && !textfold.Contains(p.Category, q.Search) {
			continue
		}
		switch q.Status {
		case "low":
			if !p.LowStock() || p.Stock.IsZero() {
				continue
			}
		case "out":
			if !p.Stock.IsZero() {
				continue
			}
		}
		out = append(out, dto.ToProductResponse(p))
	}
	return out, nil
}

// Update edita un producto. Los metadatos compartidos (nombre, categoría,
// umbral, imagen) se propagan a la fila homónima del otro sitio; un cambio de
// Stock es un ajuste manual y queda en el ledger como movimiento UPDATE con
// el delta firmado.
func (uc *ProductUseCase) Update(ctx context.Context, actor *entity.User, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Stock.IsNegative() || in.MinThreshold.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Product
	var stockDelta decimal.Decimal
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.RevisionRepository,
		_ repository.NeedsRepository,
	) error {
		product, err := productRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Archived() {
			return domain.ErrArchived
		}

		now := time.Now()
		oldName := product.Name
		stockDelta = in.Stock.Sub(product.Stock)

		product.Name = in.Name
		product.Category = in.Category
		product.MinThreshold = in.MinThreshold
		product.ImageURL = in.ImageURL
		product.Stock = in.Stock
		product.UpdatedAt = now
		if err := productRepo.UpdateMeta(product); err != nil {
			return err
		}
		// Metadatos compartidos hacia el otro sitio (mismo producto lógico).
		if err := productRepo.SyncMetaByName(oldName, in.Name, in.Category, in.MinThreshold, in.ImageURL); err != nil {
			return err
		}

		if !stockDelta.IsZero() {
			mov := &entity.StockMovement{
				ID:          uuid.New().String(),
				ProductID:   product.ID,
				Type:        entity.MovementTypeUPDATE,
				Quantity:    stockDelta,
				Site:        product.Site,
				PerformedBy: actor.ID,
				Note:        "Ajustement manuel",
				CreatedAt:   now,
			}
			if err := movRepo.Create(mov); err != nil {
				return err
			}
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	details := map[string]interface{}{"name": updated.Name, "category": updated.Category}
	if !stockDelta.IsZero() {
		details["stock_delta"] = stockDelta
	}
	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionUpdate,
		EntityType: entity.AuditEntityProduct,
		EntityID:   updated.ID,
		Site:       updated.Site,
		Details:    details,
	})
	resp := dto.ToProductResponse(updated)
	return &resp, nil
}

// Archive archiva un producto en TODOS los sitios: renombrado con prefijo y
// marca de tiempo (el nombre original queda libre para reutilizarse),
// categoría ARCHIVED y contadores a cero. El historial de movimientos
// conserva sus referencias.
func (uc *ProductUseCase) Archive(ctx context.Context, actor *entity.User, id string, in dto.ArchiveProductRequest) error {
	// Un motivo de puros espacios no es un motivo.
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return domain.ErrReasonRequired
	}

	var archived *entity.Product
	var archivedName string
	var sites []string
	err := uc.txRunner.Run(ctx, func(
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.RevisionRepository,
		_ repository.NeedsRepository,
	) error {
		product, err := productRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if product.Archived() {
			return domain.ErrArchived
		}
		now := time.Now()
		archivedName = fmt.Sprintf("%s%s - %d", entity.ArchivedNamePrefix, product.Name, now.UnixMilli())
		if err := productRepo.Archive(product.ID, archivedName, now); err != nil {
			return err
		}
		sites = append(sites, product.Site)
		// El producto lógico vive en una fila por sitio: la fila homónima del
		// otro sitio se archiva en la misma transacción, para que el producto
		// desaparezca de los dos inventarios a la vez.
		for _, site := range entity.Sites {
			if site == product.Site {
				continue
			}
			twin, err := productRepo.GetByNameSiteForUpdate(product.Name, site)
			if err != nil {
				return err
			}
			if twin == nil || twin.Archived() {
				continue
			}
			if err := productRepo.Archive(twin.ID, archivedName, now); err != nil {
				return err
			}
			sites = append(sites, twin.Site)
		}
		archived = product
		return nil
	})
	if err != nil {
		return err
	}

	uc.auditor.Record(audit.Entry{
		UserID:     actor.ID,
		UserName:   actor.FullName,
		ActionType: entity.AuditActionDelete,
		EntityType: entity.AuditEntityProduct,
		EntityID:   archived.ID,
		Site:       archived.Site,
		Reason:     reason,
		Details: map[string]interface{}{
			"name":           archived.Name,
			"archived_name":  archivedName,
			"stock_at_close": archived.Stock,
			"sites":          sites,
		},
	})
	return nil
}
