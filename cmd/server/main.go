package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/config"
	"github.com/kurumaworks/tenkendb/internal/database"
	"github.com/kurumaworks/tenkendb/internal/handlers"
	"github.com/kurumaworks/tenkendb/internal/middleware"
	"github.com/kurumaworks/tenkendb/internal/types"

	_ "github.com/kurumaworks/tenkendb/docs/api" // Swagger docs
)

// @title TenkenDB API
// @version 1.0.0
// @description Vehicle maintenance and inspection record service
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/kurumaworks/tenkendb

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Load the inspection catalog with this deployment's optional sections
	cat, err := catalog.Load(catalog.IncludeKeys(cfg.OptionalSections))
	if err != nil {
		log.Fatalf("Failed to load inspection catalog: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    25 * 1024 * 1024, // photo batches carry data URLs
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("tenkendb")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	// Create handlers
	recordsHandler := &handlers.RecordsHandler{DB: db, Catalog: cat, Cfg: cfg}
	photosHandler := &handlers.PhotosHandler{DB: db, Catalog: cat}
	customerHandler := &handlers.CustomerHandler{DB: db, Catalog: cat}
	reportHandler := &handlers.ReportHandler{DB: db, Catalog: cat}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	staff := middleware.AuthStaff(cfg)

	// Record table routes (staff)
	tables := api.Group("/tables")
	tables.Get("/maintenance_records", staff, recordsHandler.ListRecords)
	tables.Get("/maintenance_records/:id", staff, recordsHandler.GetRecord)
	tables.Post("/maintenance_records", staff, recordsHandler.CreateRecord)
	tables.Put("/maintenance_records/:id", staff, recordsHandler.UpdateRecord)
	tables.Delete("/maintenance_records/:id", staff, recordsHandler.DeleteRecord)

	// Photo table routes (staff)
	tables.Get("/inspection_photos", staff, photosHandler.ListPhotos)
	tables.Post("/inspection_photos", staff, photosHandler.CreatePhoto)
	tables.Put("/inspection_photos", staff, photosHandler.ReplacePhotos)
	tables.Delete("/inspection_photos/:id", staff, photosHandler.DeletePhoto)

	// Record operations (staff)
	records := api.Group("/records")
	records.Post("/:id/complete", staff, recordsHandler.CompleteRecord)
	records.Get("/:id/view", staff, recordsHandler.GetView)
	records.Get("/:id/report", staff, reportHandler.ExportReport)

	// Customer view (token is the credential)
	api.Get("/customer/:token", customerHandler.GetByToken)

	// Health
	api.Get("/health", healthHandler.GetHealth)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":    fiber.StatusNotFound,
			"message":   "[404] Resource Not Found",
			"ok":        false,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"url":       c.OriginalURL(),
		})
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}
	if e, ok := err.(*types.CustomError); ok {
		code = e.Code
		message = e.Message
		errorType = e.Type
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
