package entity

import "github.com/shopspring/decimal"

// InvoiceLine es una línea de la factura. SKU vacío indica un ítem libre fuera del catálogo.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Position    int // 1-based, orden de impresión
	SKU         string
	Description string
	HSNCode     string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}
