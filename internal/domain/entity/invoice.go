package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartyRole indica el papel de una empresa dentro de la factura.
type PartyRole string

const (
	PartyBillTo   PartyRole = "bill_to"
	PartyShipFrom PartyRole = "ship_from"
	PartyShipTo   PartyRole = "ship_to"
)

// PartySnapshot guarda nombre, dirección y GSTIN tal como estaban al emitir la factura.
type PartySnapshot struct {
	Role    PartyRole
	GSTIN   string
	Name    string
	Address string
}

// Invoice representa la cabecera de una factura GST.
// Los totales se guardan redondeados a 2 decimales; AmountDue se deriva.
type Invoice struct {
	ID            string
	Number        string // INV-YYYYMMDD-NNNN
	Date          time.Time
	BillTo        PartySnapshot
	ShipFrom      PartySnapshot
	ShipTo        PartySnapshot
	AdvanceAmount decimal.Decimal
	SignaturePath string
	TaxRateA      decimal.Decimal // porcentaje, p.ej. 9
	TaxRateB      decimal.Decimal
	Subtotal      decimal.Decimal
	TaxAmountA    decimal.Decimal
	TaxAmountB    decimal.Decimal
	GrandTotal    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AmountDue es el saldo pendiente: total menos anticipo.
func (i *Invoice) AmountDue() decimal.Decimal {
	return i.GrandTotal.Sub(i.AdvanceAmount)
}

// Parties devuelve las tres partes en orden de impresión.
func (i *Invoice) Parties() []PartySnapshot {
	return []PartySnapshot{i.BillTo, i.ShipFrom, i.ShipTo}
}
