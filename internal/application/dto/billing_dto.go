package dto

import (
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/shopspring/decimal"
)

// PartyRequest identifica una parte por GSTIN. Si el GSTIN no está registrado y se envían
// nombre y dirección, la empresa se registra al crear la factura.
type PartyRequest struct {
	GSTIN   string `json:"gstin"`
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// InvoiceItemRequest línea de factura. Con SKU se copian nombre, HSN y precio del catálogo
// cuando vienen vacíos. AmountOverride fija el importe y deriva el precio unitario.
type InvoiceItemRequest struct {
	SKU            string       `json:"sku,omitempty"`
	Description    string       `json:"description,omitempty"`
	HSNCode        string       `json:"hsn_code,omitempty"`
	Quantity       gst.Lenient  `json:"quantity"`
	UnitPrice      gst.Lenient  `json:"unit_price"`
	AmountOverride *gst.Lenient `json:"amount_override,omitempty"`
}

// PreviewInvoiceRequest body para POST /api/invoices/preview (solo cálculo).
type PreviewInvoiceRequest struct {
	Items         []InvoiceItemRequest `json:"items"`
	TaxRateA      *gst.Lenient         `json:"tax_rate_a,omitempty"`
	TaxRateB      *gst.Lenient         `json:"tax_rate_b,omitempty"`
	AdvanceAmount gst.Lenient          `json:"advance_amount"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Date en formato YYYY-MM-DD; vacío usa la fecha actual.
type CreateInvoiceRequest struct {
	Date          string               `json:"date,omitempty"`
	BillTo        PartyRequest         `json:"bill_to"`
	ShipFrom      PartyRequest         `json:"ship_from"`
	ShipTo        PartyRequest         `json:"ship_to"`
	Items         []InvoiceItemRequest `json:"items"`
	TaxRateA      *gst.Lenient         `json:"tax_rate_a,omitempty"`
	TaxRateB      *gst.Lenient         `json:"tax_rate_b,omitempty"`
	AdvanceAmount gst.Lenient          `json:"advance_amount"`
	SignaturePath string               `json:"signature_path,omitempty"`
}

// UpdateInvoiceRequest body para PATCH /api/invoices/:number.
// Solo fecha y anticipo son editables tras la emisión.
type UpdateInvoiceRequest struct {
	Date          *string      `json:"date,omitempty"`
	AdvanceAmount *gst.Lenient `json:"advance_amount,omitempty"`
}

// TotalsResponse resultado del cálculo.
type TotalsResponse struct {
	LineAmounts   []decimal.Decimal `json:"line_amounts"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	TaxRateA      decimal.Decimal   `json:"tax_rate_a"`
	TaxRateB      decimal.Decimal   `json:"tax_rate_b"`
	TaxAmountA    decimal.Decimal   `json:"tax_amount_a"`
	TaxAmountB    decimal.Decimal   `json:"tax_amount_b"`
	GrandTotal    decimal.Decimal   `json:"grand_total"`
	AdvanceAmount decimal.Decimal   `json:"advance_amount"`
	AmountDue     decimal.Decimal   `json:"amount_due"`
	AmountInWords string            `json:"amount_in_words"`
}

// PartyResponse copia de la parte guardada en la factura.
type PartyResponse struct {
	GSTIN   string `json:"gstin"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// InvoiceLineResponse línea en la respuesta.
type InvoiceLineResponse struct {
	Position    int             `json:"position"`
	SKU         string          `json:"sku,omitempty"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsn_code"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse factura con líneas para GET /api/invoices/:number.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	BillTo        PartyResponse         `json:"bill_to"`
	ShipFrom      PartyResponse         `json:"ship_from"`
	ShipTo        PartyResponse         `json:"ship_to"`
	SignaturePath string                `json:"signature_path,omitempty"`
	Totals        TotalsResponse        `json:"totals"`
	Lines         []InvoiceLineResponse `json:"lines,omitempty"`
}

// InvoiceSummaryResponse fila del listado de facturas.
type InvoiceSummaryResponse struct {
	Number     string          `json:"number"`
	Date       string          `json:"date"`
	BillTo     string          `json:"bill_to"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	AmountDue  decimal.Decimal `json:"amount_due"`
}

// InvoiceListResponse listado paginado.
type InvoiceListResponse struct {
	Items []InvoiceSummaryResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// DraftDocumentRequest body para POST /api/invoices/preview/pdf: documento de una factura
// sin guardar, tal como está en el formulario. Se permiten cero líneas.
type DraftDocumentRequest struct {
	Number        string               `json:"number,omitempty"`
	Date          string               `json:"date,omitempty"`
	BillTo        PartyRequest         `json:"bill_to"`
	ShipFrom      PartyRequest         `json:"ship_from"`
	ShipTo        PartyRequest         `json:"ship_to"`
	Items         []InvoiceItemRequest `json:"items"`
	TaxRateA      *gst.Lenient         `json:"tax_rate_a,omitempty"`
	TaxRateB      *gst.Lenient         `json:"tax_rate_b,omitempty"`
	AdvanceAmount gst.Lenient          `json:"advance_amount"`
	SignaturePath string               `json:"signature_path,omitempty"`
}
