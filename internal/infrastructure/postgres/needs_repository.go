package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

var _ repository.NeedsRepository = (*NeedsRepo)(nil)

// NeedsRepo implementación del puerto NeedsRepository sobre PostgreSQL (usable con pool o tx).
type NeedsRepo struct {
	q Querier
}

// NewNeedsRepository construye el adaptador de bons de sortie. Pasar pool o tx (Querier).
func NewNeedsRepository(q Querier) *NeedsRepo {
	return &NeedsRepo{q: q}
}

// Create persiste la cabecera del bon.
func (r *NeedsRepo) Create(req *entity.NeedsRequest) error {
	query := `
		INSERT INTO needs_requests (id, created_by, site, items_count, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		req.ID, req.CreatedBy, req.Site, req.ItemsCount, req.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert needs request: %w", err)
	}
	return nil
}

// GetByID obtiene un bon con su autor y sus líneas.
func (r *NeedsRepo) GetByID(id string) (*entity.NeedsRequest, error) {
	query := `
		SELECT n.id, n.created_by, n.site, n.items_count, n.created_at, COALESCE(u.full_name, '')
		FROM needs_requests n
		LEFT JOIN profiles u ON u.id = n.created_by
		WHERE n.id = $1`
	var req entity.NeedsRequest
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.CreatedBy, &req.Site, &req.ItemsCount, &req.CreatedAt, &req.CreatorName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get needs request: %w", err)
	}
	movRepo := NewMovementRepository(r.q)
	req.Movements, err = movRepo.ListByRequest(id)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Delete borra la cabecera del bon (las líneas se borran aparte, en la misma tx).
func (r *NeedsRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM needs_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete needs request: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve los bons filtrados con sus líneas, más reciente primero.
func (r *NeedsRepo) List(f repository.NeedsFilter) ([]*entity.NeedsRequest, error) {
	query := `
		SELECT n.id, n.created_by, n.site, n.items_count, n.created_at, COALESCE(u.full_name, '')
		FROM needs_requests n
		LEFT JOIN profiles u ON u.id = n.created_by
		WHERE 1=1`
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.Site != "" {
		add("n.site = $%d", f.Site)
	}
	if f.CreatedBy != "" {
		add("n.created_by = $%d", f.CreatedBy)
	}
	if f.ProductID != "" {
		add("EXISTS (SELECT 1 FROM stock_movements m WHERE m.request_id = n.id AND m.product_id = $%d)", f.ProductID)
	}
	if f.From != nil {
		add("n.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("n.created_at <= $%d", *f.To)
	}
	query += " ORDER BY n.created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list needs requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.NeedsRequest
	for rows.Next() {
		var req entity.NeedsRequest
		if err := rows.Scan(&req.ID, &req.CreatedBy, &req.Site, &req.ItemsCount, &req.CreatedAt, &req.CreatorName); err != nil {
			return nil, fmt.Errorf("scan needs request: %w", err)
		}
		out = append(out, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	movRepo := NewMovementRepository(r.q)
	for _, req := range out {
		req.Movements, err = movRepo.ListByRequest(req.ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
