package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del puerto MovementRepository sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador del ledger. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento del ledger.
func (r *MovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, site, performed_by, request_id, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, NULLIF($7, '')::uuid, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.Site, m.PerformedBy,
		m.RequestID, m.Reference, m.Note, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento con producto y autor resueltos.
func (r *MovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT m.id, m.product_id, m.type, m.quantity, m.site,
		       COALESCE(m.performed_by::text, ''), COALESCE(m.request_id::text, ''),
		       m.reference, m.note, m.created_at,
		       COALESCE(p.name, ''), COALESCE(p.category, ''), COALESCE(u.full_name, '')
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN profiles u ON u.id = m.performed_by
		WHERE m.id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.Site,
		&m.PerformedBy, &m.RequestID, &m.Reference, &m.Note, &m.CreatedAt,
		&m.ProductName, &m.ProductCategory, &m.PerformerName,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SumByProductSite reconstruye los totales del ledger del (producto, sitio)
// en una sola pasada.
func (r *MovementRepo) SumByProductSite(productID, site string) (*repository.LedgerTotals, error) {
	query := `
		SELECT COALESCE(SUM(quantity) FILTER (WHERE type = 'IN'), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE type = 'OUT'), 0),
		       COALESCE(SUM(quantity) FILTER (WHERE type = 'UPDATE'), 0)
		FROM stock_movements
		WHERE product_id = $1 AND site = $2`
	var t repository.LedgerTotals
	err := r.q.QueryRow(context.Background(), query, productID, site).Scan(
		&t.TotalIn, &t.TotalOut, &t.TotalAdjust,
	)
	if err != nil {
		return nil, fmt.Errorf("sum ledger: %w", err)
	}
	return &t, nil
}

// UpdateQuantity escribe cantidad y nota. Cero filas afectadas sin error
// explícito se interpreta como un veto silencioso de la política de la base
// (RLS u otra) y se señala con domain.ErrAuthorizationDenied para que el
// caller repliegue a DELETE+INSERT.
func (r *MovementRepo) UpdateQuantity(id string, quantity decimal.Decimal, note string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE stock_movements SET quantity = $2, note = $3 WHERE id = $1`, id, quantity, note)
	if err != nil {
		return fmt.Errorf("update movement quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrAuthorizationDenied
	}
	return nil
}

// Delete borra un movimiento.
func (r *MovementRepo) Delete(id string) error {
	cmd, err := r.q.Exec(context.Background(), `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByRequest devuelve las líneas de un bon con nombres resueltos.
func (r *MovementRepo) ListByRequest(requestID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT m.id, m.product_id, m.type, m.quantity, m.site,
		       COALESCE(m.performed_by::text, ''), COALESCE(m.request_id::text, ''),
		       m.reference, m.note, m.created_at,
		       COALESCE(p.name, ''), COALESCE(p.category, ''), COALESCE(u.full_name, '')
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN profiles u ON u.id = m.performed_by
		WHERE m.request_id = $1
		ORDER BY p.name`
	rows, err := r.q.Query(context.Background(), query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list movements by request: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// DeleteByRequest borra todas las líneas de un bon.
func (r *MovementRepo) DeleteByRequest(requestID string) error {
	if _, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_movements WHERE request_id = $1`, requestID); err != nil {
		return fmt.Errorf("delete movements by request: %w", err)
	}
	return nil
}

// List lista movimientos filtrados, más reciente primero.
func (r *MovementRepo) List(f repository.MovementFilter) ([]*entity.StockMovement, error) {
	query := `
		SELECT m.id, m.product_id, m.type, m.quantity, m.site,
		       COALESCE(m.performed_by::text, ''), COALESCE(m.request_id::text, ''),
		       m.reference, m.note, m.created_at,
		       COALESCE(p.name, ''), COALESCE(p.category, ''), COALESCE(u.full_name, '')
		FROM stock_movements m
		LEFT JOIN products p ON p.id = m.product_id
		LEFT JOIN profiles u ON u.id = m.performed_by
		WHERE 1=1`
	args := []any{}
	add := func(cond string, v any) {
		args = append(args, v)
		query += fmt.Sprintf(" AND "+cond, len(args))
	}
	if f.Site != "" {
		add("m.site = $%d", f.Site)
	}
	if f.Type != "" {
		add("m.type = $%d", f.Type)
	}
	if f.ProductID != "" {
		add("m.product_id = $%d", f.ProductID)
	}
	if f.PerformedBy != "" {
		add("m.performed_by = $%d", f.PerformedBy)
	}
	if f.From != nil {
		add("m.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("m.created_at <= $%d", *f.To)
	}
	query += " ORDER BY m.created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
