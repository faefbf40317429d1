package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinic/backend/internal/domain/identity"
	"github.com/clinic/backend/internal/infrastructure/auth"
	"github.com/clinic/backend/internal/infrastructure/logger"
	"github.com/clinic/backend/internal/interfaces/http/handler"
	"github.com/clinic/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every route handler the router mounts
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Medicine *handler.MedicineHandler
	Bill     *handler.BillHandler
	Sale     *handler.SaleHandler
	Purchase *handler.PurchaseHandler
	Patient  *handler.PatientHandler
	Report   *handler.ReportHandler
}

// Config carries the router's cross-cutting dependencies
type Config struct {
	Logger         *zap.Logger
	JWTService     *auth.JWTService
	TokenBlacklist auth.TokenBlacklist
	CORS           middleware.CORSConfig
	MaxBodySize    int64
}

// Setup builds the gin engine with all middleware and routes mounted
func Setup(cfg Config, h Handlers) *gin.Engine {
	middleware.SetupValidator()

	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)

	jwtConfig := middleware.DefaultJWTConfig(cfg.JWTService)
	jwtConfig.TokenBlacklist = cfg.TokenBlacklist
	jwtConfig.Logger = cfg.Logger

	api := engine.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtConfig))

	adminOnly := middleware.RequireRoles(identity.RoleAdmin.String())
	staff := middleware.RequireRoles(
		identity.RoleAdmin.String(),
		identity.RoleDoctor.String(),
		identity.RoleReceptionist.String(),
	)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.POST("/register", adminOnly, h.Auth.Register)
		authGroup.GET("/me", h.Auth.Me)
		authGroup.POST("/change-password", h.Auth.ChangePassword)
	}

	medicines := api.Group("/medicines", staff)
	{
		medicines.POST("", h.Medicine.Create)
		medicines.GET("", h.Medicine.List)
		medicines.GET("/suggest", h.Medicine.Suggest)
		medicines.GET("/low-stock", h.Medicine.LowStock)
		medicines.POST("/adjust-stock", h.Medicine.AdjustStock)
		medicines.GET("/:code", h.Medicine.GetByCode)
		medicines.PUT("/:code", h.Medicine.Update)
		medicines.DELETE("/:code", adminOnly, h.Medicine.Delete)
	}

	bills := api.Group("/bills", staff)
	{
		bills.POST("/issue", h.Bill.Issue)
		bills.GET("/preview", h.Bill.Preview)
	}

	sales := api.Group("/sales", staff)
	{
		sales.POST("", h.Sale.Create)
		sales.GET("", h.Sale.List)
		sales.GET("/by-bill", h.Sale.GetByBillNumber)
		sales.GET("/:id", h.Sale.GetByID)
		sales.PUT("/:id", h.Sale.Update)
		sales.DELETE("/:id", h.Sale.Delete)
	}

	purchases := api.Group("/purchases", staff)
	{
		purchases.POST("", h.Purchase.Create)
		purchases.GET("", h.Purchase.List)
		purchases.GET("/by-invoice", h.Purchase.GetByInvoiceNumber)
		purchases.GET("/:id", h.Purchase.GetByID)
	}

	patients := api.Group("/patients", staff)
	{
		patients.POST("", h.Patient.Register)
		patients.GET("", h.Patient.List)
		patients.GET("/search", h.Patient.Search)
		patients.GET("/:code", h.Patient.GetByCode)
		patients.PUT("/:code", h.Patient.Update)
		patients.POST("/:code/visits", h.Patient.AddVisit)
	}

	reports := api.Group("/reports", staff)
	{
		reports.GET("/sales", h.Report.SalesRegister)
		reports.GET("/purchases", h.Report.PurchaseRegister)
		reports.GET("/stock", h.Report.StockSummary)
	}

	return engine
}
