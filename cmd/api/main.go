package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appaudit "github.com/nhr-resorts/gestion-api/internal/application/audit"
	"github.com/nhr-resorts/gestion-api/internal/application/auth"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	appneeds "github.com/nhr-resorts/gestion-api/internal/application/needs"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
	infrapdf "github.com/nhr-resorts/gestion-api/internal/infrastructure/pdf"
	"github.com/nhr-resorts/gestion-api/internal/infrastructure/postgres"
	httpRouter "github.com/nhr-resorts/gestion-api/internal/interfaces/http"
	"github.com/nhr-resorts/gestion-api/pkg/config"
	"github.com/nhr-resorts/gestion-api/pkg/logger"
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
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.Migrate(pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	revisionRepo := postgres.NewRevisionRepository(pool)
	needsRepo := postgres.NewNeedsRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditor := appaudit.NewRecorder(auditRepo, log)

	authUC := auth.NewUseCase(userRepo, auditor, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration, cfg.Auth.EmailDomain)
	productUC := usecase.NewProductUseCase(txRunner, productRepo, auditor)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo, auditor)
	needsUC := appneeds.NewUseCase(txRunner, needsRepo, auditor)
	editQuantityUC := inventory.NewEditQuantityUseCase(txRunner, movementRepo, auditor, log)
	purchaseUC := inventory.NewPurchaseUseCase(txRunner, auditor)
	movementUC := usecase.NewMovementUseCase(movementRepo, revisionRepo)
	userUC := usecase.NewUserUseCase(userRepo, auditor, cfg.Auth.EmailDomain)
	dashboardUC := usecase.NewDashboardUseCase(productRepo, movementRepo, needsRepo)
	auditUC := usecase.NewAuditUseCase(auditRepo)

	// Primer arranque contra una base vacía: sin este sembrado no habría
	// ninguna cuenta con la que conectarse.
	seeded, err := userUC.EnsureAdmin(cfg.Auth.BootstrapUsername, cfg.Auth.BootstrapPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("sembrado del administrador inicial")
	}
	if seeded {
		log.Info().Str("username", cfg.Auth.BootstrapUsername).Msg("administrador inicial creado")
	}

	// Tickets A5 de bon de sortie
	ticketGenerator := infrapdf.NewMarotoTicketGenerator(cfg.App.Name)

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
		Title:    "NHR Gestion API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		CategoryUC:   categoryUC,
		NeedsUC:      needsUC,
		EditQuantity: editQuantityUC,
		PurchaseUC:   purchaseUC,
		MovementUC:   movementUC,
		UserUC:       userUC,
		DashboardUC:  dashboardUC,
		AuditUC:      auditUC,
		Tickets:      ticketGenerator,
		Users:        userRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

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
