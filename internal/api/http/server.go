package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/zeroclasses/coaching-service/internal/api/http/handlers"
	"github.com/zeroclasses/coaching-service/internal/auth"
	"github.com/zeroclasses/coaching-service/internal/config"
	"github.com/zeroclasses/coaching-service/internal/events"
	"github.com/zeroclasses/coaching-service/internal/notify"
	"github.com/zeroclasses/coaching-service/internal/observability"
	"github.com/zeroclasses/coaching-service/internal/otp"
	"github.com/zeroclasses/coaching-service/internal/payment"
	"github.com/zeroclasses/coaching-service/internal/rate"
	"github.com/zeroclasses/coaching-service/internal/repository"
	"github.com/zeroclasses/coaching-service/internal/service"
	"github.com/zeroclasses/coaching-service/internal/worker"
)

// Dependencies are the infrastructure pieces the HTTP app is built on.
type Dependencies struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Store      repository.Store
	Ledger     otp.Ledger
	Limiter    rate.Limiter
	Email      notify.EmailSender
	SMS        notify.SMSSender
	Dispatcher events.Dispatcher
	Health     map[string]handlers.Pinger
}

// NewApp builds the services and returns a Fiber app with every route mounted.
func NewApp(deps Dependencies) (*fiber.App, error) {
	cfg := deps.Config
	logger := deps.Logger
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes, cfg.Auth.VerificationTokenTTLMinutes)
	passwords, err := auth.NewPasswordChecker(cfg.Auth.PasswordMode, cfg.Auth.BcryptCost)
	if err != nil {
		return nil, err
	}
	authorizer, err := auth.NewAuthorizer()
	if err != nil {
		return nil, err
	}

	verification := service.NewVerificationService(service.VerificationDependencies{
		Users:            deps.Store.Users,
		Ledger:           deps.Ledger,
		Limiter:          deps.Limiter,
		Email:            deps.Email,
		SMS:              deps.SMS,
		Tokens:           tokens,
		Passwords:        passwords,
		Metrics:          deps.Metrics,
		Logger:           logger,
		AllowAdminSignup: cfg.Auth.AllowAdminSignup,
	})
	users := service.NewUserService(deps.Store.Users, logger)
	enrollments := service.NewEnrollmentService(deps.Store.Users, dispatcher, deps.Metrics, logger)
	gateway := payment.NewSimulatedGateway(deps.Store.Transactions, dispatcher, logger, cfg.Payment.DestinationAccount, cfg.Payment.DefaultCurrency)
	checkout := service.NewCheckoutService(deps.Store.Courses, gateway, enrollments, logger)
	catalog := service.NewCatalogService(deps.Store.Courses, deps.Store.Materials)
	notifications := service.NewNotificationService(dispatcher, deps.Email, logger, cfg.Notification)
	worker.StartNotificationWorker(notifications)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	RegisterMiddlewares(app, logger, deps.Metrics, cfg.App.RequestTimeout(), cfg.App.CORSAllowOrigins)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Health),
		Auth:           handlers.NewAuthHandler(verification, users),
		Payments:       handlers.NewPaymentsHandler(checkout),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Users:          handlers.NewUsersHandler(users),
		Notifications:  handlers.NewNotificationsHandler(notifications),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, deps.Store.Users, authorizer),
		Metrics:        deps.Metrics,
	})
	return app, nil
}
