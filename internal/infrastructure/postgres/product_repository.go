package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, name, category, site, stock, min_threshold, image_url, COALESCE(created_by::text, ''), created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Site, &p.Stock, &p.MinThreshold,
		&p.ImageURL, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste una fila nueva (un producto en UN sitio).
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, category, site, stock, min_threshold, image_url, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Category, product.Site, product.Stock,
		product.MinThreshold, product.ImageURL, product.CreatedBy, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetForUpdate bloquea la fila (SELECT FOR UPDATE). Usar solo dentro de una tx.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}
	return p, nil
}

// GetByNameSiteForUpdate bloquea la fila homónima de un sitio. Usar solo
// dentro de una tx.
func (r *ProductRepo) GetByNameSiteForUpdate(name, site string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE name = $1 AND site = $2 FOR UPDATE`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, name, site))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by name/site for update: %w", err)
	}
	return p, nil
}

// ListActive lista los productos no archivados, filtrables por sitio y
// categoría. El doble predicado de archivado cubre filas históricas donde
// solo uno de los dos marcadores quedó escrito.
func (r *ProductRepo) ListActive(f repository.ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category <> 'ARCHIVED' AND name NOT LIKE 'ARCHIVED - %'`
	args := []any{}
	if f.Site != "" {
		args = append(args, f.Site)
		query += fmt.Sprintf(" AND site = $%d", len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	query += " ORDER BY name"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateMeta escribe metadatos y contador de la fila.
func (r *ProductRepo) UpdateMeta(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, stock = $4, min_threshold = $5, image_url = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Category, product.Stock,
		product.MinThreshold, product.ImageURL, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SyncMetaByName propaga los metadatos compartidos a las filas homónimas de
// los demás sitios. No toca los contadores de stock.
func (r *ProductRepo) SyncMetaByName(oldName, name, category string, minThreshold decimal.Decimal, imageURL string) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, min_threshold = $4, image_url = $5, updated_at = now()
		WHERE name = $1`
	if _, err := r.q.Exec(context.Background(), query, oldName, name, category, minThreshold, imageURL); err != nil {
		return fmt.Errorf("sync product meta: %w", err)
	}
	return nil
}

// UpdateStock escribe el contador vivo.
func (r *ProductRepo) UpdateStock(id string, stock decimal.Decimal, at time.Time) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET stock = $2, updated_at = $3 WHERE id = $1`, id, stock, at)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Archive renombra la fila, la pasa a ARCHIVED y pone el contador a cero.
func (r *ProductRepo) Archive(id, archivedName string, at time.Time) error {
	query := `
		UPDATE products
		SET name = $2, category = $3, stock = 0, updated_at = $4
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query, id, archivedName, entity.ArchivedCategory, at)
	if err != nil {
		return fmt.Errorf("archive product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
