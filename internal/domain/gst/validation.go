package gst

import (
	"errors"
	"fmt"

	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ErrInconsistentTotals agrupa las diferencias entre cabecera y líneas.
var ErrInconsistentTotals = errors.New("totales de factura inconsistentes")

// ValidateTotals comprueba que los totales guardados en la cabecera coincidan
// con los que resultan de recalcular las líneas.
func ValidateTotals(inv *entity.Invoice, lines []*entity.InvoiceLine) error {
	if inv == nil {
		return fmt.Errorf("%w: factura nula", ErrInconsistentTotals)
	}
	inputs := make([]LineInput, len(lines))
	var errs []error
	for i, l := range lines {
		inputs[i] = LineInput{Quantity: l.Quantity, UnitPrice: l.UnitPrice}
		if want := LineAmount(l.Quantity, l.UnitPrice); !l.Amount.Equal(want) {
			errs = append(errs, fmt.Errorf("línea %d: importe %s, esperado %s", l.Position, l.Amount.StringFixed(2), want.StringFixed(2)))
		}
	}
	t := Compute(inputs, inv.TaxRateA, inv.TaxRateB, inv.AdvanceAmount)
	check := func(name string, got, want decimal.Decimal) {
		if !got.Equal(want) {
			errs = append(errs, fmt.Errorf("%s (%s) no coincide con el recálculo (%s)", name, got.StringFixed(2), want.StringFixed(2)))
		}
	}
	check("subtotal", inv.Subtotal, t.Subtotal)
	check("impuesto A", inv.TaxAmountA, t.TaxAmountA)
	check("impuesto B", inv.TaxAmountB, t.TaxAmountB)
	check("total", inv.GrandTotal, t.GrandTotal)
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInconsistentTotals, errors.Join(errs...))
	}
	return nil
}
