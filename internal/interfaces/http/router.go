package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nhr-resorts/gestion-api/internal/application/auth"
	"github.com/nhr-resorts/gestion-api/internal/application/inventory"
	appneeds "github.com/nhr-resorts/gestion-api/internal/application/needs"
	"github.com/nhr-resorts/gestion-api/internal/application/usecase"
	"github.com/nhr-resorts/gestion-api/internal/domain/entity"
	"github.com/nhr-resorts/gestion-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.UseCase
	ProductUC    *usecase.ProductUseCase
	CategoryUC   *usecase.CategoryUseCase
	NeedsUC      *appneeds.UseCase
	EditQuantity *inventory.EditQuantityUseCase
	PurchaseUC   *inventory.PurchaseUseCase
	MovementUC   *usecase.MovementUseCase
	UserUC       *usecase.UserUseCase
	DashboardUC  *usecase.DashboardUseCase
	AuditUC      *usecase.AuditUseCase
	Tickets      appneeds.TicketPDFGenerator
	Users        repository.UserRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas: token válido + perfil cargado desde la DB, porque
	// los permisos finos son editables en caliente.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), LoadActor(deps.Users))

	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/password", authHandler.ChangePassword)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", RequirePermission(func(p entity.Permissions) bool { return p.ViewInventory }), productHandler.List)
	products.Get("/:id", RequirePermission(func(p entity.Permissions) bool { return p.ViewInventory }), productHandler.GetByID)
	products.Post("/", RequirePermission(func(p entity.Permissions) bool { return p.EditInventory }), productHandler.Create)
	products.Put("/:id", RequirePermission(func(p entity.Permissions) bool { return p.EditInventory }), productHandler.Update)
	products.Post("/:id/archive", RequirePermission(func(p entity.Permissions) bool { return p.EditInventory }), productHandler.Archive)

	// Categories (protegido)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", RequirePermission(func(p entity.Permissions) bool { return p.ManageCategories }), categoryHandler.Create)
	categories.Delete("/:id", RequirePermission(func(p entity.Permissions) bool { return p.ManageCategories }), categoryHandler.Delete)

	// Needs / bons de sortie (protegido)
	needsGroup := protected.Group("/needs")
	needsHandler := NewNeedsHandler(deps.NeedsUC, deps.EditQuantity, deps.Tickets)
	needsGroup.Get("/", RequirePermission(func(p entity.Permissions) bool { return p.ViewNeeds }), needsHandler.List)
	needsGroup.Post("/", RequirePermission(func(p entity.Permissions) bool { return p.CreateNeeds }), needsHandler.Submit)
	needsGroup.Get("/:id", RequirePermission(func(p entity.Permissions) bool { return p.ViewNeeds }), needsHandler.GetByID)
	needsGroup.Get("/:id/ticket", RequirePermission(func(p entity.Permissions) bool { return p.ViewNeeds }), needsHandler.Ticket)
	needsGroup.Delete("/:id", RequirePermission(func(p entity.Permissions) bool { return p.DeleteNeeds }), needsHandler.Delete)
	needsGroup.Patch("/movements/:movementId/quantity", RequirePermission(func(p entity.Permissions) bool { return p.EditNeeds }), needsHandler.EditQuantity)

	// Purchases (protegido)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC, deps.MovementUC)
	purchases.Get("/", RequirePermission(func(p entity.Permissions) bool { return p.ViewPurchases }), purchaseHandler.List)
	purchases.Post("/", RequirePermission(func(p entity.Permissions) bool { return p.EditInventory }), purchaseHandler.Submit)

	// Stock movements (protegido)
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC)
	movements.Get("/", RequirePermission(func(p entity.Permissions) bool { return p.ViewInventory }), movementHandler.List)
	movements.Get("/:id/revisions", RequirePermission(func(p entity.Permissions) bool { return p.ViewInventory }), movementHandler.Revisions)

	// Users (solo admin o gestión de usuarios)
	users := protected.Group("/users", RequirePermission(func(p entity.Permissions) bool { return p.ManageUsers }))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Put("/:id/password", userHandler.ResetPassword)
	users.Delete("/:id", userHandler.Delete)

	// Dashboard (protegido)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", RequirePermission(func(p entity.Permissions) bool { return p.ViewInventory }), dashboardHandler.Summary)

	// Audit (admin o historial completo)
	auditHandler := NewAuditHandler(deps.AuditUC)
	protected.Get("/audit", RequirePermission(func(p entity.Permissions) bool { return p.ViewStockHistory }), auditHandler.List)
}
