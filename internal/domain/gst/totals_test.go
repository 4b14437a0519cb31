package gst_test

import (
	"testing"

	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(q, p string) gst.LineInput {
	return gst.LineInput{Quantity: d(q), UnitPrice: d(p)}
}

func TestCompute_DosLineasConImpuestoDividido(t *testing.T) {
	totals := gst.Compute([]gst.LineInput{line("2", "100.00")}, d("9"), d("9"), decimal.Zero)

	require.Len(t, totals.LineAmounts, 1)
	assert.Equal(t, "200.00", totals.LineAmounts[0].StringFixed(2))
	assert.Equal(t, "200.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "18.00", totals.TaxAmountA.StringFixed(2))
	assert.Equal(t, "18.00", totals.TaxAmountB.StringFixed(2))
	assert.Equal(t, "236.00", totals.GrandTotal.StringFixed(2))
	assert.Equal(t, "236.00", totals.AmountDue.StringFixed(2), "sin anticipo el saldo es el total")
}

func TestCompute_SinLineas(t *testing.T) {
	totals := gst.Compute(nil, d("9"), d("9"), decimal.Zero)

	assert.Empty(t, totals.LineAmounts)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmountA.IsZero())
	assert.True(t, totals.TaxAmountB.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestCompute_CantidadOPrecioCero(t *testing.T) {
	totals := gst.Compute([]gst.LineInput{line("0", "50.00"), line("3", "0")}, d("9"), d("9"), decimal.Zero)

	for i, amount := range totals.LineAmounts {
		assert.True(t, amount.IsZero(), "línea %d debe valer cero", i)
	}
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestCompute_NegativosSeTratanComoCero(t *testing.T) {
	totals := gst.Compute([]gst.LineInput{line("-2", "100"), line("1", "10")}, d("-5"), d("9"), d("-20"))

	assert.Equal(t, "0.00", totals.LineAmounts[0].StringFixed(2))
	assert.Equal(t, "10.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.00", totals.TaxAmountA.StringFixed(2), "tasa negativa cuenta como cero")
	assert.Equal(t, "0.90", totals.TaxAmountB.StringFixed(2))
	assert.Equal(t, "0.00", totals.Advance.StringFixed(2))
}

func TestCompute_RedondeoPorLineaYPorImpuesto(t *testing.T) {
	totals := gst.Compute([]gst.LineInput{line("3", "0.335"), line("1", "9.04")}, d("9"), d("2.5"), decimal.Zero)

	assert.Equal(t, "1.01", totals.LineAmounts[0].StringFixed(2), "1.005 redondea hacia arriba")
	assert.Equal(t, "10.05", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "0.90", totals.TaxAmountA.StringFixed(2), "0.9045 => 0.90")
	assert.Equal(t, "0.25", totals.TaxAmountB.StringFixed(2), "0.25125 => 0.25")
	assert.True(t, totals.GrandTotal.Equal(totals.Subtotal.Add(totals.TaxAmountA).Add(totals.TaxAmountB)))
	assert.Equal(t, "11.20", totals.GrandTotal.StringFixed(2))
}

func TestCompute_ConmutativoEIdempotente(t *testing.T) {
	lines := []gst.LineInput{line("2", "100"), line("1.5", "33.33"), line("7", "0.99")}
	reversed := []gst.LineInput{lines[2], lines[1], lines[0]}

	first := gst.Compute(lines, d("9"), d("9"), decimal.Zero)
	second := gst.Compute(lines, d("9"), d("9"), decimal.Zero)
	other := gst.Compute(reversed, d("9"), d("9"), decimal.Zero)

	assert.Equal(t, first, second, "misma entrada, misma salida")
	assert.True(t, first.Subtotal.Equal(other.Subtotal), "el orden de las líneas no altera el subtotal")
	assert.True(t, first.GrandTotal.Equal(other.GrandTotal))
}

func TestCompute_AnticipoYSaldo(t *testing.T) {
	totals := gst.Compute([]gst.LineInput{line("2", "100")}, d("9"), d("9"), d("36"))

	assert.Equal(t, "36.00", totals.Advance.StringFixed(2))
	assert.Equal(t, "200.00", totals.AmountDue.StringFixed(2))
}

func TestOverridePriceByTotal(t *testing.T) {
	assert.Equal(t, "33.33", gst.OverridePriceByTotal(d("3"), d("100")).StringFixed(2))
	assert.Equal(t, "25.00", gst.OverridePriceByTotal(d("4"), d("100")).StringFixed(2))
	assert.True(t, gst.OverridePriceByTotal(decimal.Zero, d("100")).IsZero(), "cantidad cero no permite derivar precio")
}
