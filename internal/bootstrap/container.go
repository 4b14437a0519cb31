// Package bootstrap arma las dependencias de la aplicación a partir de la configuración.
// Lo comparten el servidor HTTP (cmd/api) y la herramienta de línea de comandos (cmd/invoicectl).
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/jhoicas/invorya-gst/internal/application/billing"
	"github.com/jhoicas/invorya-gst/internal/application/usecase"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/memory"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/pdf"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/postgres"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/tally"
	httpRouter "github.com/jhoicas/invorya-gst/internal/interfaces/http"
	"github.com/jhoicas/invorya-gst/internal/metrics"
	"github.com/jhoicas/invorya-gst/pkg/config"
	"github.com/jhoicas/invorya-gst/pkg/logger"
)

// SwaggerFile ruta del documento OpenAPI servido en /docs.
const SwaggerFile = "./docs/swagger.json"

// Container casos de uso y adaptadores ya conectados.
type Container struct {
	Config    *config.Config
	Log       *logger.Logger
	Companies *usecase.CompanyUseCase
	Products  *usecase.ProductUseCase
	Invoices  *billing.InvoiceUseCase
	Documents *billing.DocumentUseCase
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry

	pool *pgxpool.Pool
}

type stores struct {
	tx        billing.BillingTxRunner
	companies repository.CompanyRepository
	products  repository.ProductRepository
	invoices  repository.InvoiceRepository
}

// New conecta el almacenamiento elegido en STORAGE_DRIVER y construye los casos de uso.
// Con postgres y DB_AUTO_MIGRATE aplica las migraciones pendientes.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	if log == nil {
		log = logger.Nop()
	}
	rateA, err := parseRate("TAX_RATE_A", cfg.Tax.RateA)
	if err != nil {
		return nil, err
	}
	rateB, err := parseRate("TAX_RATE_B", cfg.Tax.RateB)
	if err != nil {
		return nil, err
	}
	policy, err := pdf.ParseSignaturePolicy(cfg.PDF.SignaturePolicy)
	if err != nil {
		return nil, err
	}
	tag, err := language.Parse(cfg.PDF.NumberLocale)
	if err != nil {
		return nil, fmt.Errorf("config: PDF_NUMBER_LOCALE %q: %w", cfg.PDF.NumberLocale, err)
	}
	if cfg.PDF.OutputDir != "" {
		if err := os.MkdirAll(cfg.PDF.OutputDir, 0o755); err != nil {
			return nil, fmt.Errorf("crear PDF_OUTPUT_DIR: %w", err)
		}
	}

	c := &Container{Config: cfg, Log: log, Registry: prometheus.NewRegistry()}
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.New(c.Registry)

	s, err := c.openStorage(ctx)
	if err != nil {
		return nil, err
	}

	c.Companies = usecase.NewCompanyUseCase(s.companies, s.invoices, cfg.GST.StrictChecksum)
	c.Products = usecase.NewProductUseCase(s.products, s.invoices)
	c.Invoices = billing.NewInvoiceUseCase(s.tx, s.companies, s.products, s.invoices, billing.InvoiceConfig{
		DefaultTaxRateA: rateA,
		DefaultTaxRateB: rateB,
		StrictGSTIN:     cfg.GST.StrictChecksum,
		Words:           gst.AmountInWords,
	}, c.Metrics)
	c.Documents = billing.NewDocumentUseCase(
		c.Invoices,
		pdf.NewMarotoPDFGenerator(policy, cfg.PDF.SignatureDir, log.Named("pdf")),
		tally.NewVoucherExporter(cfg.Tally.SalesLedger),
		pdf.WriteFileAtomic,
		billing.DocumentConfig{
			Issuer: IssuerProfile(cfg),
			View: billing.ViewOptions{
				ThousandsSeparator: cfg.PDF.ThousandsSeparator,
				Locale:             tag,
				DateLayout:         cfg.PDF.DateLayout,
				Words:              gst.AmountInWords,
			},
			OutputDir: cfg.PDF.OutputDir,
		},
		c.Metrics,
	)
	return c, nil
}

func (c *Container) openStorage(ctx context.Context) (stores, error) {
	switch c.Config.Storage.Driver {
	case "memory":
		c.Log.Warn().Msg("almacenamiento en memoria: los datos se pierden al salir")
		m := memory.NewStore()
		return stores{tx: m, companies: m.Companies(), products: m.Products(), invoices: m.Invoices()}, nil
	case "postgres", "":
		pool, err := postgres.NewPool(ctx, c.Config.DB)
		if err != nil {
			return stores{}, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.pool = pool
		if c.Config.Storage.AutoMigrate {
			if _, err := c.Migrate(ctx); err != nil {
				pool.Close()
				return stores{}, err
			}
		}
		return stores{
			tx:        postgres.NewTxRunner(pool),
			companies: postgres.NewCompanyRepository(pool),
			products:  postgres.NewProductRepository(pool),
			invoices:  postgres.NewInvoiceRepository(pool),
		}, nil
	default:
		return stores{}, fmt.Errorf("config: STORAGE_DRIVER desconocido %q", c.Config.Storage.Driver)
	}
}

// Migrate aplica las migraciones pendientes. En memoria no hay nada que migrar.
func (c *Container) Migrate(ctx context.Context) (int, error) {
	if c.pool == nil {
		return 0, nil
	}
	n, err := postgres.NewMigrator(c.pool, c.Log.Named("migrate")).Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("migraciones: %w", err)
	}
	return n, nil
}

// App construye la aplicación HTTP con todas las rutas.
func (c *Container) App() *fiber.App {
	return httpRouter.NewApp(httpRouter.AppConfig{
		Name:        c.Config.App.Name,
		SwaggerFile: SwaggerFile,
		Metrics:     c.Metrics,
		Gatherer:    c.Registry,
	}, httpRouter.RouterDeps{
		CompanyUC:  c.Companies,
		ProductUC:  c.Products,
		InvoiceUC:  c.Invoices,
		DocumentUC: c.Documents,
		JWTSecret:  c.Config.JWT.Secret,
	})
}

// Close libera la conexión a la base de datos si la hay.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// IssuerProfile traduce la configuración del emisor al perfil impreso en las facturas.
func IssuerProfile(cfg *config.Config) entity.IssuerProfile {
	return entity.IssuerProfile{
		LegalName:            cfg.Issuer.LegalName,
		GSTIN:                cfg.Issuer.GSTIN,
		OfficeAddress:        cfg.Issuer.OfficeAddress,
		Contact:              cfg.Issuer.Contact,
		BankDetails:          unescapeNewlines(cfg.Issuer.BankDetails),
		FooterNote:           cfg.Issuer.FooterNote,
		SignatureCaption:     cfg.Issuer.SignatureCaption,
		DefaultSignaturePath: cfg.Issuer.DefaultSignaturePath,
		TaxLabelA:            cfg.Tax.LabelA,
		TaxLabelB:            cfg.Tax.LabelB,
	}
}

// unescapeNewlines permite datos bancarios multilínea en una sola variable de entorno ("\n" literal).
func unescapeNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}

func parseRate(key, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("config: %s debe ser un porcentaje no negativo, no %q", key, s)
	}
	return d, nil
}
