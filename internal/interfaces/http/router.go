package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/catalogo-api/internal/application/access"
	"github.com/jhoicas/catalogo-api/internal/application/offers"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/domain/repository"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/feed"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CategoryUC    *usecase.CategoryUseCase
	SubCategoryUC *usecase.SubCategoryUseCase
	ProductUC     *usecase.ProductUseCase
	SliderUC      *usecase.SliderUseCase
	OfferService  *offers.Service
	AccessUC      *access.UseCase

	ProductRepo  repository.ProductRepository
	CategoryRepo repository.CategoryRepository
	FeedGen      *feed.Generator
	PDFGen       *pdf.PriceListGenerator

	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// El token mayorista es opcional en todo el catálogo: presente y válido
	// habilita los precios mayoristas, ausente sirve la vista minorista.
	api.Use(WholesaleMiddleware(deps.JWTSecret))

	// Acceso mayorista (público, con límite por IP contra fuerza bruta del OTP)
	accessGroup := api.Group("/access", RateLimitMiddleware(DefaultRateLimitConfig()))
	accessHandler := NewAccessHandler(deps.AccessUC)
	accessGroup.Post("/request", accessHandler.Request)
	accessGroup.Post("/verify", accessHandler.Verify)

	// Categorías
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Subcategorías
	subCategories := api.Group("/subcategories")
	subCategoryHandler := NewSubCategoryHandler(deps.SubCategoryUC)
	subCategories.Post("/", subCategoryHandler.Create)
	subCategories.Get("/", subCategoryHandler.ListByCategory)
	subCategories.Get("/:id", subCategoryHandler.GetByID)
	subCategories.Put("/:id", subCategoryHandler.Update)
	subCategories.Delete("/:id", subCategoryHandler.Delete)

	// Productos
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Ofertas
	offersGroup := api.Group("/offers")
	offerHandler := NewOfferHandler(deps.OfferService)
	offersGroup.Post("/", offerHandler.Create)
	offersGroup.Get("/", offerHandler.List)
	offersGroup.Get("/:id", offerHandler.GetByID)
	offersGroup.Put("/:id", offerHandler.Update)
	offersGroup.Delete("/:id", offerHandler.Delete)

	// Carrusel
	sliders := api.Group("/sliders")
	sliderHandler := NewSliderHandler(deps.SliderUC)
	sliders.Post("/", sliderHandler.Create)
	sliders.Get("/", sliderHandler.List)
	sliders.Get("/active", sliderHandler.ListActive)
	sliders.Put("/:id", sliderHandler.Update)
	sliders.Delete("/:id", sliderHandler.Delete)

	// Exportaciones
	exportHandler := NewExportHandler(deps.ProductRepo, deps.CategoryRepo, deps.FeedGen, deps.PDFGen)
	api.Get("/feed.xml", exportHandler.Feed)
	api.Get("/wholesale/price-list.pdf", exportHandler.PriceList)
}
