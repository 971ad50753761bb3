package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/catalogo-api/internal/application/access"
	"github.com/jhoicas/catalogo-api/internal/application/offers"
	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/cache"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/email"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/feed"
	infrapdf "github.com/jhoicas/catalogo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	categoryRepo := postgres.NewCategoryRepository(pool)
	subCategoryRepo := postgres.NewSubCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	sliderRepo := postgres.NewSliderRepository(pool)
	accessTokenRepo := postgres.NewAccessTokenRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché del carrusel: Redis si está configurado, Noop si no.
	var sliderCache usecase.SliderCache = cache.NewNoopSliderCache()
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisSliderCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis no disponible, carrusel sin caché")
		} else {
			sliderCache = redisCache
			defer redisCache.Close()
		}
	}

	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	subCategoryUC := usecase.NewSubCategoryUseCase(subCategoryRepo, categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo, categoryRepo, subCategoryRepo)
	sliderUC := usecase.NewSliderUseCase(sliderRepo, sliderCache)

	offerService := offers.NewService(offers.Deps{
		Tx:       txRunner,
		Offers:   offerRepo,
		Log:      log,
		SweepPar: cfg.Scheduler.Parallelism,
	})

	// Barrido de ofertas vencidas: corre al arrancar y luego por intervalo.
	scheduler := offers.NewScheduler(offerService, cfg.Scheduler.Interval, log)
	scheduler.Start()
	defer scheduler.Stop()

	mailer := email.NewGomailMailer(email.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	accessUC := access.NewUseCase(accessTokenRepo, mailer, access.Config{
		JWTSecret:  cfg.Wholesale.JWTSecret,
		ExpMinutes: cfg.Wholesale.ExpMinutes,
		Issuer:     cfg.Wholesale.Issuer,
		AdminEmail: cfg.Wholesale.AdminEmail,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Catálogo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CategoryUC:    categoryUC,
		SubCategoryUC: subCategoryUC,
		ProductUC:     productUC,
		SliderUC:      sliderUC,
		OfferService:  offerService,
		AccessUC:      accessUC,
		ProductRepo:   productRepo,
		CategoryRepo:  categoryRepo,
		FeedGen:       feed.NewGenerator(),
		PDFGen:        infrapdf.NewPriceListGenerator(cfg.App.Name),
		JWTSecret:     cfg.Wholesale.JWTSecret,
	})

	// Listener secundario de métricas Prometheus (deshabilitado si no hay Addr).
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Info().Str("addr", cfg.Metrics.Addr).Msg("métricas Prometheus escuchando")
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				log.Error().Err(err).Msg("listener de métricas finalizado")
			}
		}()
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
