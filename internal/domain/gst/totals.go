// Package gst contiene el cálculo de facturas con GST (India): importe por línea,
// subtotal, dos componentes de impuesto, total y saldo. Todo el dinero es decimal.
package gst

import "github.com/shopspring/decimal"

// MoneyPlaces es la precisión de todos los importes monetarios.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// LineInput son los datos mínimos de una línea para calcular su importe.
type LineInput struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// Totals es el resultado de Compute. LineAmounts conserva el orden de entrada.
type Totals struct {
	LineAmounts []decimal.Decimal
	Subtotal    decimal.Decimal
	TaxAmountA  decimal.Decimal
	TaxAmountB  decimal.Decimal
	GrandTotal  decimal.Decimal
	Advance     decimal.Decimal
	AmountDue   decimal.Decimal
}

// LineAmount = cantidad × precio, redondeado a 2 decimales. Negativos cuentan como cero.
func LineAmount(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return nonNegative(quantity).Mul(nonNegative(unitPrice)).Round(MoneyPlaces)
}

// TaxAmount aplica un porcentaje sobre la base imponible (9 => 9%).
func TaxAmount(base, ratePercent decimal.Decimal) decimal.Decimal {
	return base.Mul(nonNegative(ratePercent)).Div(hundred).Round(MoneyPlaces)
}

// Compute calcula todos los totales de una factura.
// Cada componente de impuesto se calcula por separado sobre el subtotal, nunca sobre el otro impuesto.
func Compute(lines []LineInput, rateA, rateB, advance decimal.Decimal) Totals {
	t := Totals{LineAmounts: make([]decimal.Decimal, 0, len(lines))}
	subtotal := decimal.Zero
	for _, l := range lines {
		amount := LineAmount(l.Quantity, l.UnitPrice)
		t.LineAmounts = append(t.LineAmounts, amount)
		subtotal = subtotal.Add(amount)
	}
	t.Subtotal = subtotal.Round(MoneyPlaces)
	t.TaxAmountA = TaxAmount(t.Subtotal, rateA)
	t.TaxAmountB = TaxAmount(t.Subtotal, rateB)
	t.GrandTotal = t.Subtotal.Add(t.TaxAmountA).Add(t.TaxAmountB)
	t.Advance = nonNegative(advance).Round(MoneyPlaces)
	t.AmountDue = t.GrandTotal.Sub(t.Advance)
	return t
}

// OverridePriceByTotal deriva el precio unitario cuando el operador fija el importe de la línea.
// Con cantidad cero no hay precio derivable y se devuelve cero.
func OverridePriceByTotal(quantity, lineTotal decimal.Decimal) decimal.Decimal {
	q := nonNegative(quantity)
	if q.IsZero() {
		return decimal.Zero
	}
	return nonNegative(lineTotal).Div(q).Round(MoneyPlaces)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
