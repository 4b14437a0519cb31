package repository

import (
	"context"

	"github.com/jhoicas/invorya-gst/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLine(ctx context.Context, line *entity.InvoiceLine) error
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	// GetLines devuelve las líneas ordenadas por Position.
	GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error)
	// UpdateDateAndAdvance solo modifica fecha y anticipo; los totales son inmutables.
	UpdateDateAndAdvance(ctx context.Context, invoice *entity.Invoice) error
	// Delete elimina cabecera y líneas juntas.
	Delete(ctx context.Context, id string) error
	// LastNumber devuelve el mayor número con el prefijo dado, o "" si no hay ninguno.
	LastNumber(ctx context.Context, prefix string) (string, error)
	ExistsForCompany(ctx context.Context, gstin string) (bool, error)
	ExistsForProduct(ctx context.Context, sku string) (bool, error)
}
