package gst

import (
	"strings"

	"github.com/shopspring/decimal"
)

var (
	onesWords = []string{
		"", "ONE", "TWO", "THREE", "FOUR", "FIVE", "SIX", "SEVEN", "EIGHT", "NINE",
		"TEN", "ELEVEN", "TWELVE", "THIRTEEN", "FOURTEEN", "FIFTEEN", "SIXTEEN",
		"SEVENTEEN", "EIGHTEEN", "NINETEEN",
	}
	tensWords = []string{
		"", "", "TWENTY", "THIRTY", "FORTY", "FIFTY", "SIXTY", "SEVENTY", "EIGHTY", "NINETY",
	}
)

// Escalas del sistema indio de numeración.
const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
)

// AmountInWords expresa un importe en palabras (sistema indio: thousand, lakh, crore).
// Ejemplo: 132160 => "ONE LAKH THIRTY TWO THOUSAND ONE HUNDRED SIXTY RUPEES ONLY".
// Los paise se añaden solo si son distintos de cero.
func AmountInWords(amount decimal.Decimal) string {
	rounded := nonNegative(amount).Round(MoneyPlaces)
	rupees := rounded.IntPart()
	paise := rounded.Sub(decimal.NewFromInt(rupees)).Mul(hundred).IntPart()

	var b strings.Builder
	b.WriteString(IntegerInWords(rupees))
	b.WriteString(" RUPEES")
	if paise > 0 {
		b.WriteString(" AND ")
		b.WriteString(IntegerInWords(paise))
		b.WriteString(" PAISE")
	}
	b.WriteString(" ONLY")
	return b.String()
}

// IntegerInWords expresa un entero no negativo en palabras en mayúsculas.
func IntegerInWords(n int64) string {
	if n <= 0 {
		return "ZERO"
	}
	return strings.Join(integerWords(n), " ")
}

func integerWords(n int64) []string {
	var parts []string
	if n >= crore {
		parts = append(parts, integerWords(n/crore)...)
		parts = append(parts, "CRORE")
		n %= crore
	}
	if n >= lakh {
		parts = append(parts, belowHundred(n/lakh)...)
		parts = append(parts, "LAKH")
		n %= lakh
	}
	if n >= thousand {
		parts = append(parts, belowHundred(n/thousand)...)
		parts = append(parts, "THOUSAND")
		n %= thousand
	}
	if n >= 100 {
		parts = append(parts, onesWords[n/100], "HUNDRED")
		n %= 100
	}
	return append(parts, belowHundred(n)...)
}

func belowHundred(n int64) []string {
	switch {
	case n == 0:
		return nil
	case n < 20:
		return []string{onesWords[n]}
	case n%10 == 0:
		return []string{tensWords[n/10]}
	default:
		return []string{tensWords[n/10], onesWords[n%10]}
	}
}
