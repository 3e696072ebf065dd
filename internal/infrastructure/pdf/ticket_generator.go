// Package pdf genera el bon de sortie imprimible que acompaña cada salida
// de stock hacia los servicios del hotel.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  HEADER: NHR Gestion │ BON DE SORTIE + N° │
//	│  ───────────────────────────────────────  │
//	│  Sitio / Solicitante / Fecha              │
//	│  ───────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Categoría       │
//	│  ───────────────────────────────────────  │
//	│  Total de líneas + firmas                 │
//	└───────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appneeds "github.com/nhr-resorts/gestion-api/internal/application/needs"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
)

var _ appneeds.TicketPDFGenerator = (*MarotoTicketGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// MarotoTicketGenerator implementa needs.TicketPDFGenerator usando Maroto v2.
type MarotoTicketGenerator struct {
	appName string
}

// NewMarotoTicketGenerator construye el generador.
func NewMarotoTicketGenerator(appName string) *MarotoTicketGenerator {
	return &MarotoTicketGenerator{appName: appName}
}

// GenerateTicket genera el PDF del bon y devuelve sus bytes.
func (g *MarotoTicketGenerator) GenerateTicket(_ context.Context, request *entity.NeedsRequest) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bon de sortie", true).
		WithAuthor(g.appName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.appName, request))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(infoRow(request))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(request.Movements) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(request))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar bon: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: nombre de la aplicación (izq), título + N° corto (der).
func headerRow(appName string, request *entity.NeedsRequest) core.Row {
	shortID := strings.ToUpper(request.ID)
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New(appName, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(6).Add(
			text.New("BON DE SORTIE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+shortID, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
		),
	)
}

// infoRow: sitio, solicitante y fecha.
func infoRow(request *entity.NeedsRequest) core.Row {
	site := strings.ToUpper(request.Site)
	return row.New(12).Add(
		col.New(12).Add(
			text.New("Site : "+site, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1}),
			text.New(fmt.Sprintf("Demandé par : %s   |   Date : %s",
				nonEmpty(request.CreatorName, "—"),
				request.CreatedAt.Format("02/01/2006 15:04"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Qté", 2, align.Center),
		h("Produit", 6, align.Left),
		h("Catégorie", 4, align.Left),
	)
}

// tableLineRows: una fila por línea del bon.
func tableLineRows(movements []*entity.StockMovement) []core.Row {
	result := make([]core.Row, 0, len(movements))
	for _, m := range movements {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				m.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				m.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1},
			)),
			col.New(4).Add(text.New(
				m.ProductCategory,
				props.Text{Size: 8, Align: align.Left, Top: 1, Color: colorGray},
			)),
		))
	}
	return result
}

// footerRow: total de líneas y espacios de firma.
func footerRow(request *entity.NeedsRequest) core.Row {
	return row.New(24).Add(
		col.New(6).Add(
			text.New(fmt.Sprintf("Total : %d article(s)", request.ItemsCount), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 2,
			}),
			text.New("Signature demandeur : ____________", props.Text{
				Size: 8, Top: 14, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("Signature gouvernante : ____________", props.Text{
				Size: 8, Top: 14, Align: align.Right, Color: colorGray,
			}),
		),
	)
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
