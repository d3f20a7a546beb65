package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/zeroclasses/coaching-service/internal/api/http/handlers"
	"github.com/zeroclasses/coaching-service/internal/auth"
	"github.com/zeroclasses/coaching-service/internal/domain"
	"github.com/zeroclasses/coaching-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Payments       *handlers.PaymentsHandler
	Catalog        *handlers.CatalogHandler
	Users          *handlers.UsersHandler
	Notifications  *handlers.NotificationsHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	require := cfg.AuthMiddleware.Require
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/send-otp", cfg.Auth.SendOTP)
	authGroup.Post("/verify-otp", cfg.Auth.VerifyOTP)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/login-via-phone", cfg.Auth.LoginWithPhone)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Get("/me", require(domain.CapabilityProfileRead), cfg.Auth.Me)

	api.Post("/payments/checkout", require(domain.CapabilityCourseEnroll), cfg.Payments.Checkout)

	api.Get("/courses", cfg.Catalog.ListCourses)
	api.Post("/courses", require(domain.CapabilityCourseManage), cfg.Catalog.CreateCourse)
	api.Put("/courses/:id", require(domain.CapabilityCourseManage), cfg.Catalog.UpdateCourse)

	api.Get("/materials", cfg.Catalog.ListMaterials)
	api.Post("/materials", require(domain.CapabilityMaterialManage), cfg.Catalog.CreateMaterial)

	api.Get("/users", require(domain.CapabilityUserManage), cfg.Users.List)
	api.Delete("/users/:id", require(domain.CapabilityUserManage), cfg.Users.Delete)

	api.Post("/notifications", require(domain.CapabilityNotificationSend), cfg.Notifications.Send)
}
