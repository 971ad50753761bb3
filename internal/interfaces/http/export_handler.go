package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/dto"
	"github.com/jhoicas/catalogo-api/internal/domain/entity"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/feed"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/pdf"
)

// exportBatch tamaño de página al volcar el catálogo completo.
const exportBatch = 500

// ExportHandler expone el catálogo en formatos de integración: feed XML
// público y lista de precios mayorista en PDF.
type ExportHandler struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	feed       *feed.Generator
	pdf        *pdf.PriceListGenerator
}

// NewExportHandler construye el handler.
func NewExportHandler(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	feedGen *feed.Generator,
	pdfGen *pdf.PriceListGenerator,
) *ExportHandler {
	return &ExportHandler{
		products:   products,
		categories: categories,
		feed:       feedGen,
		pdf:        pdfGen,
	}
}

// Feed godoc
// @Summary      Feed XML del catálogo
// @Description  Solo precios minoristas; pensado para comparadores y marketplaces.
// @Tags         export
// @Produce      xml
// @Success      200
// @Router       /api/feed.xml [get]
func (h *ExportHandler) Feed(c *fiber.Ctx) error {
	products, err := h.allProducts()
	if err != nil {
		return errorResponse(c, err)
	}
	out, err := h.feed.Generate(products, time.Now())
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(out)
}

// PriceList godoc
// @Summary      Lista de precios mayorista en PDF
// @Tags         export
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/wholesale/price-list.pdf [get]
func (h *ExportHandler) PriceList(c *fiber.Ctx) error {
	if !HasWholesaleAccess(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "WHOLESALE_REQUIRED", Message: "requiere acceso mayorista verificado"})
	}

	categories, _, err := h.categories.List(exportBatch, 0)
	if err != nil {
		return errorResponse(c, err)
	}
	products, err := h.allProducts()
	if err != nil {
		return errorResponse(c, err)
	}
	byCategory := make(map[string][]*entity.Product, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}

	out, err := h.pdf.Generate(categories, byCategory, time.Now())
	if err != nil {
		return errorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="lista-precios-mayorista.pdf"`)
	return c.Send(out)
}

// allProducts pagina sobre el repositorio hasta agotar el catálogo.
func (h *ExportHandler) allProducts() ([]*entity.Product, error) {
	var all []*entity.Product
	for offset := 0; ; offset += exportBatch {
		page, total, err := h.products.List("", "", exportBatch, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(all) >= total || len(page) == 0 {
			return all, nil
		}
	}
}
