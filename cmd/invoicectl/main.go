// invoicectl tareas de operación sin levantar el servidor: migraciones, documentos y tokens.
//
// Uso:
//
//	invoicectl migrate
//	invoicectl render --number INV-20240315-0001 [--out factura.pdf]
//	invoicectl draft --in borrador.json [--out borrador.pdf]
//	invoicectl tally --number INV-20240315-0001 [--out factura.xml]
//	invoicectl token --subject mostrador-1
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/jhoicas/invorya-gst/internal/application/dto"
	"github.com/jhoicas/invorya-gst/internal/bootstrap"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/pdf"
	"github.com/jhoicas/invorya-gst/pkg/config"
	pkgjwt "github.com/jhoicas/invorya-gst/pkg/jwt"
	"github.com/jhoicas/invorya-gst/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "invoicectl",
		Usage: "operación de facturación GST",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "aplica las migraciones pendientes",
				Action: withContainer(migrate),
			},
			{
				Name:  "render",
				Usage: "genera el PDF de una factura guardada",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Aliases: []string{"n"}, Required: true, Usage: "número INV-YYYYMMDD-NNNN"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "ruta de salida (por defecto PDF_OUTPUT_DIR/Invoice_<número>.pdf)"},
				},
				Action: withContainer(render),
			},
			{
				Name:  "draft",
				Usage: "genera el PDF de un borrador descrito en JSON",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Required: true, Usage: "archivo JSON con el formulario"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "ruta de salida"},
				},
				Action: withContainer(draft),
			},
			{
				Name:  "tally",
				Usage: "exporta el voucher de venta en XML para Tally",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "number", Aliases: []string{"n"}, Required: true},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "ruta de salida (por defecto Invoice_<número>.xml)"},
				},
				Action: withContainer(exportTally),
			},
			{
				Name:  "token",
				Usage: "emite un token de operador firmado con JWT_SECRET",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Required: true, Usage: "identificador del operador"},
					&cli.IntFlag{Name: "minutes", Usage: "vigencia; por defecto JWT_EXPIRATION_MINUTES"},
				},
				Action: token,
			},
		},
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := app.RunContext(ctx, os.Args); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type action func(c *cli.Context, container *bootstrap.Container) error

// withContainer carga la configuración y arma las dependencias antes de la acción.
func withContainer(fn action) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
		container, err := bootstrap.New(c.Context, cfg, log)
		if err != nil {
			return err
		}
		defer container.Close()
		return fn(c, container)
	}
}

func migrate(c *cli.Context, container *bootstrap.Container) error {
	n, err := container.Migrate(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "migraciones aplicadas: %d\n", n)
	return nil
}

func render(c *cli.Context, container *bootstrap.Container) error {
	path, err := container.Documents.RenderToFile(c.Context, c.String("number"), c.String("out"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func draft(c *cli.Context, container *bootstrap.Container) error {
	raw, err := os.ReadFile(c.String("in"))
	if err != nil {
		return err
	}
	var in dto.DraftDocumentRequest
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("leer %s: %w", c.String("in"), err)
	}
	out, filename, err := container.Documents.RenderDraft(c.Context, in)
	if err != nil {
		return err
	}
	return writeOutput(c, c.String("out"), filename, out)
}

func exportTally(c *cli.Context, container *bootstrap.Container) error {
	out, filename, err := container.Documents.ExportTally(c.Context, c.String("number"))
	if err != nil {
		return err
	}
	return writeOutput(c, c.String("out"), filename, out)
}

func writeOutput(c *cli.Context, path, filename string, data []byte) error {
	if path == "" {
		path = filename
	}
	if err := pdf.WriteFileAtomic(path, data); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func token(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET vacío: la API no exige token")
	}
	minutes := c.Int("minutes")
	if minutes <= 0 {
		minutes = cfg.JWT.Expiration
	}
	tok, err := pkgjwt.Generate(cfg.JWT.Secret, c.String("subject"), pkgjwt.ScopeOperator, cfg.JWT.Issuer, minutes)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, tok)
	return nil
}
