package billing

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jhoicas/invorya-gst/internal/application/dto"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
)

// InvoiceSource entrega facturas guardadas y borradores. Lo implementa InvoiceUseCase.
type InvoiceSource interface {
	Load(ctx context.Context, number string) (*entity.Invoice, []*entity.InvoiceLine, error)
	Draft(ctx context.Context, in dto.DraftDocumentRequest) (*entity.Invoice, []*entity.InvoiceLine, error)
}

// DocumentConfig datos fijos del emisor y opciones de formato del documento.
type DocumentConfig struct {
	Issuer    entity.IssuerProfile
	View      ViewOptions
	OutputDir string // destino por defecto de RenderToFile
}

// DocumentUseCase genera la representación impresa (PDF) y el comprobante contable de una factura.
type DocumentUseCase struct {
	invoices  InvoiceSource
	generator DocumentGenerator
	exporter  VoucherExporter
	write     FileWriter
	cfg       DocumentConfig
	observer  Observer
}

// NewDocumentUseCase construye el caso de uso inyectando todas sus dependencias.
// exporter puede ser nil si no se usa ExportTally; observer puede ser nil.
func NewDocumentUseCase(
	invoices InvoiceSource,
	generator DocumentGenerator,
	exporter VoucherExporter,
	write FileWriter,
	cfg DocumentConfig,
	observer Observer,
) *DocumentUseCase {
	if cfg.View.Words == nil && cfg.View.DateLayout == "" {
		cfg.View = DefaultViewOptions()
	}
	return &DocumentUseCase{
		invoices:  invoices,
		generator: generator,
		exporter:  exporter,
		write:     write,
		cfg:       cfg,
		observer:  observerOrNop(observer),
	}
}

// PDFFilename nombre por defecto del documento: Invoice_<número>.pdf.
func PDFFilename(number string) string {
	return "Invoice_" + number + ".pdf"
}

// TallyFilename nombre por defecto del XML de Tally.
func TallyFilename(number string) string {
	return "Invoice_" + number + ".xml"
}

// Render genera el PDF de una factura guardada.
// Retorna domain.ErrNotFound si no existe y domain.ErrSignatureMissing según la política de firma.
func (uc *DocumentUseCase) Render(ctx context.Context, number string) (pdfBytes []byte, filename string, err error) {
	inv, lines, err := uc.invoices.Load(ctx, number)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generate(ctx, DocumentKindPDF, inv, lines)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, PDFFilename(inv.Number), nil
}

// RenderToFile genera el PDF y lo escribe completo en path (o en OutputDir con el nombre por defecto).
// Si algo falla no queda archivo parcial. Retorna la ruta escrita.
func (uc *DocumentUseCase) RenderToFile(ctx context.Context, number, path string) (string, error) {
	pdfBytes, filename, err := uc.Render(ctx, number)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = filepath.Join(uc.cfg.OutputDir, filename)
	}
	if uc.write == nil {
		return "", fmt.Errorf("documento: no hay escritor de archivos configurado")
	}
	if err := uc.write(path, pdfBytes); err != nil {
		return "", fmt.Errorf("documento: escribir %s: %w", path, err)
	}
	return path, nil
}

// RenderDraft genera el PDF de una factura sin guardar. Con cero líneas la tabla lleva la fila "No items".
func (uc *DocumentUseCase) RenderDraft(ctx context.Context, in dto.DraftDocumentRequest) (pdfBytes []byte, filename string, err error) {
	inv, lines, err := uc.invoices.Draft(ctx, in)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generate(ctx, DocumentKindDraft, inv, lines)
	if err != nil {
		return nil, "", err
	}
	return pdfBytes, PDFFilename(inv.Number), nil
}

// ExportTally genera el comprobante de venta en XML para importar en Tally.
func (uc *DocumentUseCase) ExportTally(ctx context.Context, number string) (xmlBytes []byte, filename string, err error) {
	if uc.exporter == nil {
		return nil, "", fmt.Errorf("%w: exportación a Tally no configurada", domain.ErrInvalidInput)
	}
	inv, lines, err := uc.invoices.Load(ctx, number)
	if err != nil {
		return nil, "", err
	}
	start := time.Now()
	xmlBytes, err = uc.exporter.Export(inv, lines, uc.cfg.Issuer)
	uc.observer.DocumentRendered(DocumentKindTally, time.Since(start), err)
	if err != nil {
		return nil, "", fmt.Errorf("tally: exportar %s: %w", inv.Number, err)
	}
	return xmlBytes, TallyFilename(inv.Number), nil
}

func (uc *DocumentUseCase) generate(ctx context.Context, kind string, inv *entity.Invoice, lines []*entity.InvoiceLine) ([]byte, error) {
	start := time.Now()
	view := BuildDocumentView(inv, lines, uc.cfg.Issuer, uc.cfg.View)
	out, err := uc.generator.Generate(ctx, view)
	uc.observer.DocumentRendered(kind, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("pdf: generar %s: %w", inv.Number, err)
	}
	return out, nil
}
