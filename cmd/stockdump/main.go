// stockdump vuelca un diagnóstico del inventario a JSON: conteos por sitio y
// por categoría, alertas de stock bajo, productos archivados y etiquetas de
// categoría huérfanas (productos cuya categoría ya no existe en el catálogo).
//
// Uso: go run ./cmd/stockdump [archivo-salida.json]
// Sin argumento escribe en stdout. La conexión se lee de las mismas variables
// de entorno que el servidor (DATABASE_URL, DB_HOST, ...).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
	"github.com/nhr-resorts/gestion-api/internal/infrastructure/postgres"
	"github.com/nhr-resorts/gestion-api/pkg/config"
	"github.com/nhr-resorts/gestion-api/pkg/textfold"
)

type siteReport struct {
	Site          string          `json:"site"`
	ProductCount  int             `json:"product_count"`
	TotalStock    decimal.Decimal `json:"total_stock"`
	LowStockCount int             `json:"low_stock_count"`
	OutOfStock    int             `json:"out_of_stock"`
}

type categoryReport struct {
	Category     string `json:"category"`
	ProductCount int    `json:"product_count"`
	Orphan       bool   `json:"orphan"`     // etiqueta sin entrada en el catálogo
	Whitespace   bool   `json:"whitespace"` // espacios al inicio o al final
	CaseVariant  bool   `json:"case_variant"` // difiere de otra etiqueta solo por mayúsculas/acentos
}

type report struct {
	GeneratedAt   time.Time        `json:"generated_at"`
	Sites         []siteReport     `json:"sites"`
	Categories    []categoryReport `json:"categories"`
	ArchivedCount int              `json:"archived_count"`
	LowStock      []string         `json:"low_stock"` // "sitio/nombre"
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)

	out := report{GeneratedAt: time.Now()}

	// Catálogo de categorías vigente, para detectar etiquetas huérfanas.
	categories, err := categoryRepo.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "listar categorías: %v\n", err)
		os.Exit(1)
	}
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[strings.ToLower(c.Name)] = true
	}

	byCategory := make(map[string]int)
	for _, site := range entity.Sites {
		products, err := productRepo.ListActive(repository.ProductFilter{Site: site})
		if err != nil {
			fmt.Fprintf(os.Stderr, "listar productos (%s): %v\n", site, err)
			os.Exit(1)
		}
		sr := siteReport{Site: site, ProductCount: len(products)}
		for _, p := range products {
			sr.TotalStock = sr.TotalStock.Add(p.Stock)
			byCategory[p.Category]++
			switch {
			case p.Stock.IsZero():
				sr.OutOfStock++
			case p.LowStock():
				sr.LowStockCount++
				out.LowStock = append(out.LowStock, site+"/"+p.Name)
			}
		}
		out.Sites = append(out.Sites, sr)
	}

	folded := make(map[string][]string)
	for name := range byCategory {
		key := textfold.Fold(name)
		folded[key] = append(folded[key], name)
	}
	for name, count := range byCategory {
		out.Categories = append(out.Categories, categoryReport{
			Category:     name,
			ProductCount: count,
			Orphan:       !known[strings.ToLower(name)],
			Whitespace:   strings.TrimSpace(name) != name,
			CaseVariant:  len(folded[textfold.Fold(name)]) > 1,
		})
	}
	// Salida estable
	sort.Slice(out.Categories, func(i, j int) bool {
		return out.Categories[i].Category < out.Categories[j].Category
	})
	sort.Strings(out.LowStock)

	out.ArchivedCount, err = countArchived(ctx, pool)
	if err != nil {
		fmt.Fprintf(os.Stderr, "contar archivados: %v\n", err)
		os.Exit(1)
	}

	dst := os.Stdout
	if len(os.Args) > 1 {
		f, err := os.Create(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "crear salida: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		dst = f
	}
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(os.Stderr, "escribir JSON: %v\n", err)
		os.Exit(1)
	}
}

// countArchived cuenta los productos fuera del listado activo.
func countArchived(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var n int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category = 'ARCHIVED' OR name LIKE 'ARCHIVED - %'`)
	return n, row.Scan(&n)
}
