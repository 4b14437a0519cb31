package gst

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var numberNoise = strings.NewReplacer(",", "", "_", "", " ", "", "\u00a0", "")

// ParseLenient convierte texto libre en un número no negativo.
// Vacío, mal formado o negativo se interpreta como cero; nunca devuelve error.
// Se aceptan separadores de miles ("1,12,000.50").
func ParseLenient(s string) decimal.Decimal {
	clean := numberNoise.Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(clean)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Lenient es un decimal que se decodifica desde JSON con ParseLenient.
// Acepta números, cadenas y null.
type Lenient struct {
	decimal.Decimal
}

// NewLenient envuelve un decimal ya validado.
func NewLenient(d decimal.Decimal) Lenient {
	return Lenient{Decimal: d}
}

// UnmarshalJSON implementa json.Unmarshaler.
func (l *Lenient) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		l.Decimal = decimal.Zero
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	l.Decimal = ParseLenient(raw)
	return nil
}

// MarshalJSON implementa json.Marshaler.
func (l Lenient) MarshalJSON() ([]byte, error) {
	return l.Decimal.MarshalJSON()
}
