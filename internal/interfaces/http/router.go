package http

import (
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/invorya-gst/internal/application/billing"
	"github.com/jhoicas/invorya-gst/internal/application/usecase"
	"github.com/jhoicas/invorya-gst/internal/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	ProductUC  *usecase.ProductUseCase
	InvoiceUC  *billing.InvoiceUseCase
	DocumentUC *billing.DocumentUseCase
	JWTSecret  string
}

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name        string
	SwaggerFile string // se sirve en /docs solo si existe
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer // origen de /metrics; nil desactiva la ruta
}

// NewApp arma la aplicación completa: recover, métricas, /health, /metrics, /docs y la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	if cfg.Metrics != nil {
		app.Use(MetricsMiddleware(cfg.Metrics))
	}

	if cfg.SwaggerFile != "" {
		if _, err := os.Stat(cfg.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.SwaggerFile,
				Path:     "docs",
				Title:    "Invorya GST API",
			}))
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	if cfg.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:gstin", companyHandler.Get)
	companies.Put("/:gstin", companyHandler.Update)
	companies.Delete("/:gstin", companyHandler.Delete)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:sku", productHandler.Get)
	products.Put("/:sku", productHandler.Update)
	products.Delete("/:sku", productHandler.Delete)

	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.DocumentUC)
	invoices.Post("/preview", invoiceHandler.Preview)
	invoices.Post("/preview/pdf", invoiceHandler.PreviewPDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:number", invoiceHandler.Get)
	invoices.Patch("/:number", invoiceHandler.Update)
	invoices.Delete("/:number", invoiceHandler.Delete)
	invoices.Get("/:number/pdf", invoiceHandler.PDF)
	invoices.Get("/:number/tally", invoiceHandler.Tally)
}
