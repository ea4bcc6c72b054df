package main

import (
	"strings"

	"farmq-backend/internal/analytics"
	"farmq-backend/internal/apierror"
	"farmq-backend/internal/audit"
	"farmq-backend/internal/auth"
	"farmq-backend/internal/catalog"
	"farmq-backend/internal/config"
	"farmq-backend/internal/crops"
	"farmq-backend/internal/dashboard"
	"farmq-backend/internal/database"
	"farmq-backend/internal/fields"
	"farmq-backend/internal/health"
	"farmq-backend/internal/logger"
	"farmq-backend/internal/prediction"
	"farmq-backend/internal/yields"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	log := logger.Default()

	cfg := config.Load()
	if err := cfg.Validate(log); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if err := database.Init(cfg); err != nil {
		log.WithError(err).Fatal("database init failed")
	}

	enc := catalog.DefaultCropEncoding()
	prices := catalog.DefaultPriceTable()
	growth := catalog.DefaultGrowthDays()
	regions := catalog.DefaultRegions()

	model := prediction.NewHTTPModelClient(cfg.ModelServiceURL, cfg.ModelServiceTimeout)
	predictor := prediction.NewService(model, enc, catalog.DefaultBaseYields(), cfg.PredictionFallback)

	app := fiber.New(fiber.Config{
		ErrorHandler: apierror.Handler,
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:  strings.Join(corsOrigins, ","),
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, " + logger.RequestIDHeader,
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		ExposeHeaders: "Content-Disposition, " + logger.RequestIDHeader,
	}))
	app.Use(log.Middleware())

	api := app.Group("/api")

	// Public
	api.Get("/health", health.Handler(model))
	api.Post("/auth/register", auth.RegisterHandler(regions))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Get("/catalog/crops", catalog.ListCropsHandler(enc, prices, growth))
	api.Get("/catalog/regions", catalog.ListRegionsHandler(regions))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())
	protected.Put("/auth/profile", auth.UpdateProfileHandler(regions))

	// Fields
	protected.Post("/fields", fields.CreateFieldHandler())
	protected.Get("/fields", fields.ListFieldsHandler())
	protected.Get("/fields/:id", fields.GetFieldHandler())
	protected.Put("/fields/:id", fields.UpdateFieldHandler())
	protected.Delete("/fields/:id", fields.DeleteFieldHandler())

	// Crops & harvests
	protected.Post("/crops", crops.CreateCropHandler(enc, growth))
	protected.Get("/crops", crops.ListCropsHandler())
	protected.Get("/crops/:id", crops.GetCropHandler())
	protected.Put("/crops/:id", crops.UpdateCropHandler(enc))
	protected.Delete("/crops/:id", crops.DeleteCropHandler())
	protected.Post("/crops/:id/harvest", crops.HarvestCropHandler())

	protected.Get("/yield-records", yields.ListYieldRecordsHandler())
	protected.Delete("/yield-records/:id", yields.DeleteYieldRecordHandler())

	// Predictions
	protected.Post("/predict-yield", prediction.PredictYieldHandler(predictor))
	protected.Get("/predict-yield", prediction.MethodNotAllowedHandler())
	protected.Get("/predictions", prediction.ListPredictionsHandler())
	protected.Delete("/predictions/:id", prediction.DeletePredictionHandler())

	// Analytics & dashboard
	protected.Get("/analytics", analytics.AnalyticsHandler(prices))
	protected.Get("/analytics/export", analytics.ExportHandler(prices))
	protected.Get("/dashboard", dashboard.OverviewHandler(regions))

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.WithField("port", cfg.HTTPPort).Info("server listening")
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
