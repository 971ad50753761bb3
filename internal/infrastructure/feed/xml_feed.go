// Package feed genera el feed XML del catálogo para integraciones externas
// (comparadores de precio, marketplaces). Expone solo precios minoristas.
package feed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/catalogo-api/internal/domain/entity"
)

// Generator arma el documento XML del catálogo.
type Generator struct{}

// NewGenerator crea el generador de feed.
func NewGenerator() *Generator { return &Generator{} }

// Generate serializa los productos al feed. El precio publicado es el vigente
// (descontado si hay oferta activa); el original se incluye como referencia
// cuando existe un descuento aplicado.
func (g *Generator) Generate(products []*entity.Product, generatedAt time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("catalog")
	root.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(products)))

	for _, p := range products {
		el := root.CreateElement("product")
		el.CreateAttr("id", p.ID)

		el.CreateElement("name").SetText(p.Name)
		if p.Description != "" {
			el.CreateElement("description").SetText(p.Description)
		}
		if p.Image != "" {
			el.CreateElement("image").SetText(p.Image)
		}
		el.CreateElement("categoryId").SetText(p.CategoryID)
		if p.SubCategoryID != "" {
			el.CreateElement("subCategoryId").SetText(p.SubCategoryID)
		}
		el.CreateElement("stock").SetText(strconv.Itoa(p.Stock))

		price := el.CreateElement("price")
		price.SetText(p.RetailPrice.StringFixed(2))
		if p.HasActiveOffer && p.OriginalRetailPrice.Valid {
			price.CreateAttr("onSale", "true")
			el.CreateElement("originalPrice").SetText(p.OriginalRetailPrice.Decimal.StringFixed(2))
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("serializar feed: %w", err)
	}
	return out, nil
}
