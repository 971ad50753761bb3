// Package pdf genera la lista de precios mayorista en PDF, pensada para
// compartir con clientes mayoristas verificados.
package pdf

import (
	"fmt"
	"time"

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

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PriceListGenerator genera la lista de precios mayorista con Maroto v2.
type PriceListGenerator struct {
	companyName string
}

// NewPriceListGenerator construye el generador.
func NewPriceListGenerator(companyName string) *PriceListGenerator {
	return &PriceListGenerator{companyName: companyName}
}

// Generate arma el PDF: cabecera con fecha de emisión, productos agrupados
// bajo su categoría y ambos precios por producto. Los precios publicados son
// los vigentes, ofertas incluidas.
func (g *PriceListGenerator) Generate(
	categories []*entity.Category,
	productsByCategory map[string][]*entity.Product,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de Precios Mayorista", true).
		WithAuthor(g.companyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.companyName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	for _, cat := range categories {
		products := productsByCategory[cat.ID]
		if len(products) == 0 {
			continue
		}
		m.AddRows(categoryRow(cat))
		m.AddRows(tableHeaderRow())
		for _, p := range products {
			m.AddRows(productRow(p))
		}
		m.AddRows(line.NewRow(2))
	}

	m.AddRows(footerRow(generatedAt))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(companyName string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(companyName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("LISTA DE PRECIOS MAYORISTA", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Emitida: "+generatedAt.Format("02/01/2006"), props.Text{
				Size: 9, Align: align.Right, Top: 2, Color: colorGray,
			}),
		),
	)
}

func categoryRow(cat *entity.Category) core.Row {
	return row.New(9).Add(
		col.New(12).Add(
			text.New(cat.Name, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Producto", 6, align.Left),
		h("Stock", 2, align.Center),
		h("P. Minorista", 2, align.Right),
		h("P. Mayorista", 2, align.Right),
	)
}

func productRow(p *entity.Product) core.Row {
	name := p.Name
	if p.HasActiveOffer {
		name += " (en oferta)"
	}
	return row.New(6).Add(
		col.New(6).Add(text.New(name, props.Text{Size: 8, Top: 1})),
		col.New(2).Add(text.New(fmt.Sprintf("%d", p.Stock), props.Text{
			Size: 8, Align: align.Center, Top: 1,
		})),
		col.New(2).Add(text.New("$"+p.RetailPrice.StringFixed(2), props.Text{
			Size: 8, Align: align.Right, Top: 1,
		})),
		col.New(2).Add(text.New("$"+p.WholesalePrice.StringFixed(2), props.Text{
			Size: 8, Align: align.Right, Top: 1, Style: fontstyle.Bold,
		})),
	)
}

func footerRow(generatedAt time.Time) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(
				"Precios vigentes al "+generatedAt.Format("02/01/2006 15:04")+
					". Documento de circulación restringida a clientes mayoristas.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2},
			),
		),
	)
}
