package billing

import (
	"context"
	"time"

	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// BillingTxRunner ejecuta una función dentro de una transacción con los repositorios de facturación.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		productRepo repository.ProductRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// DocumentGenerator convierte la vista de la factura en el documento imprimible (PDF).
type DocumentGenerator interface {
	Generate(ctx context.Context, view *DocumentView) ([]byte, error)
}

// VoucherExporter genera el comprobante contable de la factura (XML para Tally).
type VoucherExporter interface {
	Export(inv *entity.Invoice, lines []*entity.InvoiceLine, issuer entity.IssuerProfile) ([]byte, error)
}

// FileWriter escribe un archivo completo o nada (ver pdf.WriteFileAtomic).
type FileWriter func(path string, data []byte) error

// WordsRenderer expresa un importe en palabras; por defecto gst.AmountInWords.
type WordsRenderer func(amount decimal.Decimal) string

// Observer recibe eventos para métricas. Puede ser nil.
type Observer interface {
	InvoiceCreated()
	DocumentRendered(kind string, elapsed time.Duration, err error)
}

// Tipos de documento reportados al Observer.
const (
	DocumentKindPDF   = "pdf"
	DocumentKindDraft = "draft"
	DocumentKindTally = "tally"
)

type nopObserver struct{}

func (nopObserver) InvoiceCreated()                               {}
func (nopObserver) DocumentRendered(string, time.Duration, error) {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
