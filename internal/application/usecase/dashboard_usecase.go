package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/application/dto"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

const recentOutLimit = 10

// DashboardUseCase arma el resumen del tablero. Las consultas por sitio son
// independientes y se lanzan en paralelo.
type DashboardUseCase struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
	needs     repository.NeedsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(products repository.ProductRepository, movements repository.MovementRepository, needs repository.NeedsRepository) *DashboardUseCase {
	return &DashboardUseCase{products: products, movements: movements, needs: needs}
}

// Summary calcula el resumen para el actor. Sin view_all_sites_stock solo se
// incluye el sitio propio del usuario.
func (uc *DashboardUseCase) Summary(actor *entity.User) (*dto.DashboardResponse, error) {
	sites := []string{actor.Site}
	if actor.Can(func(p entity.Permissions) bool { return p.ViewAllSitesStock }) {
		sites = entity.Sites
	}

	type siteResult struct {
		summary dto.SiteSummary
		alerts  []dto.ProductResponse
		err     error
	}
	results := make([]chan siteResult, len(sites))
	for i, site := range sites {
		results[i] = make(chan siteResult, 1)
		go func(site string, ch chan siteResult) {
			list, err := uc.products.ListActive(repository.ProductFilter{Site: site})
			if err != nil {
				ch <- siteResult{err: fmt.Errorf("dashboard: productos %s: %w", site, err)}
				return
			}
			s := dto.SiteSummary{Site: site, TotalStock: decimal.Zero}
			var alerts []dto.ProductResponse
			for _, p := range list {
				s.ProductCount++
				s.TotalStock = s.TotalStock.Add(p.Stock)
				if p.Stock.IsZero() {
					s.OutOfStock++
				} else if p.LowStock() {
					s.LowStockCount++
				}
				if p.LowStock() {
					alerts = append(alerts, dto.ToProductResponse(p))
				}
			}
			ch <- siteResult{summary: s, alerts: alerts}
		}(site, results[i])
	}

	startOfDay := StartOfDay(time.Now())
	needsChan := make(chan struct {
		count int
		err   error
	}, 1)
	go func() {
		list, err := uc.needs.List(repository.NeedsFilter{From: &startOfDay})
		needsChan <- struct {
			count int
			err   error
		}{len(list), err}
	}()

	purchasesChan := make(chan struct {
		count int
		err   error
	}, 1)
	go func() {
		list, err := uc.movements.List(repository.MovementFilter{
			Type: entity.MovementTypeIN,
			From: &startOfDay,
		})
		purchasesChan <- struct {
			count int
			err   error
		}{len(list), err}
	}()

	recentChan := make(chan struct {
		movs []*entity.StockMovement
		err  error
	}, 1)
	go func() {
		movs, err := uc.movements.List(repository.MovementFilter{
			Type:  entity.MovementTypeOUT,
			Limit: recentOutLimit,
		})
		recentChan <- struct {
			movs []*entity.StockMovement
			err  error
		}{movs, err}
	}()

	out := &dto.DashboardResponse{}
	for _, ch := range results {
		r := <-ch
		if r.err != nil {
			return nil, r.err
		}
		out.Sites = append(out.Sites, r.summary)
		out.LowStockAlerts = append(out.LowStockAlerts, r.alerts...)
	}

	nr := <-needsChan
	if nr.err != nil {
		return nil, fmt.Errorf("dashboard: bons del día: %w", nr.err)
	}
	out.TodayNeeds = nr.count

	pr := <-purchasesChan
	if pr.err != nil {
		return nil, fmt.Errorf("dashboard: entradas del día: %w", pr.err)
	}
	out.TodayPurchases = pr.count

	rr := <-recentChan
	if rr.err != nil {
		return nil, fmt.Errorf("dashboard: salidas recientes: %w", rr.err)
	}
	for _, m := range rr.movs {
		out.RecentOut = append(out.RecentOut, dto.ToMovementResponse(m))
	}
	return out, nil
}
