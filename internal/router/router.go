package router

import (
	"log"
	"time"

	"bdsev/config"
	"bdsev/internal/domain"
	"bdsev/internal/handler"
	"bdsev/internal/middleware"
	"bdsev/internal/repository"
	"bdsev/internal/service"
	"bdsev/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	memberRepo := repository.NewEventMemberRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	usageRepo := repository.NewCouponUsageRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	var gateway payment.Gateway
	if cfg.MyFatoorah.APIKey != "" {
		gateway = payment.NewMyFatoorah(cfg.MyFatoorah.BaseURL, cfg.MyFatoorah.APIKey)
	} else {
		log.Printf("[payment] MYFATOORAH_API_KEY unset; using stub gateway")
		gateway = &payment.StubGateway{}
	}

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	couponSvc := service.NewCouponService(couponRepo, usageRepo, memberRepo)
	paymentSvc := service.NewEventPaymentService(eventRepo, userRepo, memberRepo, couponSvc, usageRepo, gateway, cfg.App.BaseURL)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	eventHandler := handler.NewEventHandler(eventRepo, userRepo)
	couponHandler := handler.NewCouponHandler(paymentSvc, couponRepo)
	paymentHandler := handler.NewEventPaymentHandler(paymentSvc, auditRepo)
	callbackHandler := handler.NewPaymentCallbackHandler(paymentSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		api.GET("/events/:id/pricing", authMw, eventHandler.Pricing)
		api.POST("/events/coupons/apply", authMw, couponHandler.Apply)

		payments := api.Group("/payments/event")
		{
			payments.POST("/create-invoice", authMw, paymentHandler.CreateInvoice)
			payments.POST("/execute-payment", authMw, paymentHandler.ExecutePayment)
			// Gateway browser redirect; arrives without our JWT.
			payments.GET("/callback", callbackHandler.Handle)
		}

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.POST("/event-coupons", couponHandler.AdminCreate)
			admin.GET("/event-coupons/:event_id", couponHandler.AdminList)
		}
	}

	return r
}
