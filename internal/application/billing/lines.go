package billing

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/invorya-gst/internal/application/dto"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// quantityPlaces coincide con NUMERIC(14,3) de invoice_lines.quantity.
const quantityPlaces = 3

const dateLayout = "2006-01-02"

// resolveLines convierte las líneas del formulario en líneas de factura.
// Con SKU se copian nombre, HSN y precio del catálogo en ese momento (la factura no sigue cambios posteriores).
func resolveLines(ctx context.Context, products repository.ProductRepository, items []dto.InvoiceItemRequest) ([]*entity.InvoiceLine, error) {
	lines := make([]*entity.InvoiceLine, 0, len(items))
	for i, item := range items {
		l := &entity.InvoiceLine{
			ID:          uuid.New().String(),
			Position:    i + 1,
			SKU:         strings.TrimSpace(item.SKU),
			Description: strings.TrimSpace(item.Description),
			HSNCode:     strings.TrimSpace(item.HSNCode),
			Quantity:    item.Quantity.Decimal,
			UnitPrice:   item.UnitPrice.Decimal,
		}
		if l.SKU != "" {
			product, err := products.GetBySKU(ctx, l.SKU)
			if err != nil {
				return nil, err
			}
			if product == nil {
				return nil, fmt.Errorf("%w: producto %s (línea %d)", domain.ErrNotFound, l.SKU, l.Position)
			}
			if l.Description == "" {
				l.Description = product.Name
			}
			if l.HSNCode == "" {
				l.HSNCode = product.HSNCode
			}
			if l.UnitPrice.IsZero() {
				l.UnitPrice = product.UnitPrice
			}
		}
		l.Quantity, l.UnitPrice = normalizeLine(l.Quantity, l.UnitPrice, item.AmountOverride)
		l.Amount = gst.LineAmount(l.Quantity, l.UnitPrice)
		lines = append(lines, l)
	}
	return lines, nil
}

// previewLines es resolveLines sin catálogo, con la misma normalización que la emisión.
func previewLines(items []dto.InvoiceItemRequest) []gst.LineInput {
	inputs := make([]gst.LineInput, len(items))
	for i, item := range items {
		q, price := normalizeLine(item.Quantity.Decimal, item.UnitPrice.Decimal, item.AmountOverride)
		inputs[i] = gst.LineInput{Quantity: q, UnitPrice: price}
	}
	return inputs
}

// normalizeLine deja la línea como se guarda: cantidad a 3 decimales y precio en paise (2 decimales).
// Con importe fijado el precio se deriva de él. El importe siempre es round(cantidad*precio, 2)
// sobre estos valores, así la vista previa y la factura emitida coinciden.
func normalizeLine(quantity, price decimal.Decimal, override *gst.Lenient) (decimal.Decimal, decimal.Decimal) {
	quantity = quantity.Round(quantityPlaces)
	if override != nil {
		price = gst.OverridePriceByTotal(quantity, override.Decimal)
	}
	return quantity, price.Round(gst.MoneyPlaces)
}

func computeLines(lines []*entity.InvoiceLine, rateA, rateB, advance decimal.Decimal) gst.Totals {
	inputs := make([]gst.LineInput, len(lines))
	for i, l := range lines {
		inputs[i] = gst.LineInput{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return gst.Compute(inputs, rateA, rateB, advance)
}

// parseDate acepta YYYY-MM-DD; vacío devuelve def truncada al día.
func parseDate(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		y, m, d := def.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, se espera YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// signaturePath acepta solo rutas relativas que no salen del directorio de firmas
// (sin "..", sin rutas absolutas). Vacío significa usar la firma del emisor.
func signaturePath(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !filepath.IsLocal(s) {
		return "", fmt.Errorf("%w: firma %q debe ser relativa al directorio de firmas", domain.ErrInvalidInput, s)
	}
	return filepath.Clean(s), nil
}
