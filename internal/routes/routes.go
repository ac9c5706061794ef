package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/example/rewardscan/internal/config"
	"github.com/example/rewardscan/internal/handlers"
	"github.com/example/rewardscan/internal/middleware"
	"github.com/example/rewardscan/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config) {
	otpStore := services.NewRedisOTPStore(rdb, cfg.OTPTTL)
	smsService := services.NewSMSService(cfg.SMSGatewayURL, cfg.SMSGatewayToken)
	engine := services.NewRewardService(db, cfg.CodeHashKey, cfg.RequireProof)

	authHandler := handlers.NewAuthHandler(db, cfg, otpStore, smsService)
	profileHandler := handlers.NewProfileHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db)
	rewardsHandler := handlers.NewRewardsHandler(db, cfg, engine)
	qrcodeHandler := handlers.NewQRCodeHandler(db, cfg, engine)
	productHandler := handlers.NewProductHandler(db)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/send-otp", authHandler.SendOTP)
	auth.Post("/verify-otp", authHandler.VerifyOTP)
	auth.Post("/admin/login", authHandler.AdminLogin)

	// Public code status probe
	api.Get("/qr-codes/:token/status", qrcodeHandler.CodeStatus)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)
	protected.Post("/profile/delete", profileHandler.DeleteAccount)

	protected.Get("/payment-methods", paymentHandler.ListPaymentMethods)
	protected.Post("/payment-methods", paymentHandler.CreatePaymentMethod)
	protected.Delete("/payment-methods/:id", paymentHandler.DeletePaymentMethod)

	protected.Post("/scan-qr", rewardsHandler.ScanQR)
	protected.Post("/redeem-points", rewardsHandler.RedeemPoints)
	protected.Get("/reward-summary", rewardsHandler.RewardSummary)
	protected.Get("/reward-history", rewardsHandler.RewardHistory)
	protected.Get("/dashboard", rewardsHandler.Dashboard)

	// Staff routes
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireStaff())

	admin.Get("/stats", adminHandler.DashboardStats)

	admin.Get("/categories", productHandler.ListCategories)
	admin.Post("/categories", productHandler.CreateCategory)
	admin.Put("/categories/:id", productHandler.UpdateCategory)
	admin.Delete("/categories/:id", productHandler.DeleteCategory)

	admin.Get("/products", productHandler.ListProducts)
	admin.Post("/products", productHandler.CreateProduct)
	admin.Get("/products/:id", productHandler.GetProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeactivateProduct)

	admin.Post("/qr-codes", qrcodeHandler.GenerateCodes)
	admin.Get("/qr-codes", qrcodeHandler.ListCodes)

	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/users/:id", adminHandler.GetUser)
	admin.Get("/rewards", adminHandler.ListRewards)
	admin.Get("/redemptions", adminHandler.ListRedemptions)

	admin.Get("/export/users.csv", adminHandler.ExportUsersCSV)
	admin.Get("/export/rewards.csv", adminHandler.ExportRewardsCSV)
}
