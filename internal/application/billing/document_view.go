package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Textos fijos del documento.
const (
	DocumentCaption    = "TAX INVOICE"
	PlaceholderItemRow = "No items"
)

// ItemTableHeader encabezado de la tabla de líneas, en orden de columnas.
var ItemTableHeader = []string{"S.No", "HSN/SAC", "Particulars", "Qty", "Price", "Amount"}

// DocumentView es la factura ya formateada, bloque por bloque, lista para maquetar.
// No contiene números sin formatear: el generador solo coloca texto.
type DocumentView struct {
	Title         string // metadato del PDF
	Header        HeaderBlock
	Issuer        IssuerBlock
	Parties       []PartyCell // bill_to, ship_from, ship_to
	Items         []ItemRow
	Placeholder   bool // sin líneas: una fila con PlaceholderItemRow
	Totals        []TotalRow
	AmountInWords string // vacío => la línea se omite
	Footer        FooterBlock
	IssuedAt      time.Time
}

// HeaderBlock fila superior: GSTIN del emisor, título, número y fecha.
type HeaderBlock struct {
	IssuerGSTIN string
	Caption     string
	Number      string
	Date        string
}

// IssuerBlock identidad del emisor, una fila centrada por campo.
type IssuerBlock struct {
	LegalName     string
	OfficeAddress string
	Contact       string
}

// PartyCell una de las tres celdas de partes.
type PartyCell struct {
	Caption string
	Name    string
	Address string
	GSTIN   string
}

// ItemRow fila de la tabla de líneas.
type ItemRow struct {
	Position    string
	HSNCode     string
	Description string
	Quantity    string
	UnitPrice   string
	Amount      string
}

// TotalRow fila del bloque de totales. Emphasized marca el total general.
type TotalRow struct {
	Label      string
	Value      string
	Emphasized bool
}

// FooterBlock pie: banco y nota a la izquierda, firma a la derecha.
type FooterBlock struct {
	BankDetails      string
	Note             string
	SignatureCaption string
	SignaturePath    string // firma pedida: la de la factura o, si no hay, la del emisor
	FallbackPath     string // firma por defecto del emisor
}

// ViewOptions controla el formato numérico y de fecha.
type ViewOptions struct {
	ThousandsSeparator bool
	Locale             language.Tag
	DateLayout         string
	Words              WordsRenderer
}

// DefaultViewOptions: separador de miles en inglés, fecha dd/mm/aaaa, importe en palabras indio.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{
		ThousandsSeparator: true,
		Locale:             language.English,
		DateLayout:         "02/01/2006",
		Words:              gst.AmountInWords,
	}
}

// BuildDocumentView arma la vista del documento. Es una función pura: misma entrada, misma vista.
func BuildDocumentView(inv *entity.Invoice, lines []*entity.InvoiceLine, issuer entity.IssuerProfile, opts ViewOptions) *DocumentView {
	if opts.DateLayout == "" {
		opts.DateLayout = "02/01/2006"
	}
	money := newMoneyFormatter(opts)

	view := &DocumentView{
		Title: "Invoice " + inv.Number,
		Header: HeaderBlock{
			IssuerGSTIN: "GSTIN: " + issuer.GSTIN,
			Caption:     DocumentCaption,
			Number:      "Invoice No: " + inv.Number,
			Date:        "Date: " + inv.Date.Format(opts.DateLayout),
		},
		Issuer: IssuerBlock{
			LegalName:     issuer.LegalName,
			OfficeAddress: issuer.OfficeAddress,
			Contact:       issuer.Contact,
		},
		Parties: []PartyCell{
			partyCell("BILL TO", inv.BillTo),
			partyCell("SHIP FROM", inv.ShipFrom),
			partyCell("SHIP TO", inv.ShipTo),
		},
		Items:       make([]ItemRow, 0, len(lines)),
		Placeholder: len(lines) == 0,
		Footer: FooterBlock{
			BankDetails:      issuer.BankDetails,
			Note:             issuer.FooterNote,
			SignatureCaption: issuer.SignatureCaption,
			SignaturePath:    firstNonEmpty(inv.SignaturePath, issuer.DefaultSignaturePath),
			FallbackPath:     issuer.DefaultSignaturePath,
		},
		IssuedAt: inv.Date,
	}

	for i, l := range lines {
		view.Items = append(view.Items, ItemRow{
			Position:    strconv.Itoa(i + 1),
			HSNCode:     l.HSNCode,
			Description: l.Description,
			Quantity:    money.quantity(l.Quantity),
			UnitPrice:   money.format(l.UnitPrice),
			Amount:      money.format(l.Amount),
		})
	}

	labelA := firstNonEmpty(issuer.TaxLabelA, "SGST")
	labelB := firstNonEmpty(issuer.TaxLabelB, "CGST")
	base := money.format(inv.Subtotal)
	view.Totals = []TotalRow{
		{Label: "Taxable Value", Value: base},
		{Label: fmt.Sprintf("%s %s%% on %s", labelA, inv.TaxRateA.String(), base), Value: money.format(inv.TaxAmountA)},
		{Label: fmt.Sprintf("%s %s%% on %s", labelB, inv.TaxRateB.String(), base), Value: money.format(inv.TaxAmountB)},
		{Label: "Total", Value: money.format(inv.GrandTotal), Emphasized: true},
	}
	if !inv.AdvanceAmount.IsZero() {
		view.Totals = append(view.Totals,
			TotalRow{Label: "Advance Received", Value: money.format(inv.AdvanceAmount)},
			TotalRow{Label: "Balance Due", Value: money.format(inv.AmountDue())},
		)
	}

	if opts.Words != nil {
		view.AmountInWords = strings.TrimSpace(opts.Words(inv.GrandTotal))
	}
	return view
}

func partyCell(caption string, p entity.PartySnapshot) PartyCell {
	cell := PartyCell{Caption: caption, Name: p.Name, Address: p.Address}
	if p.GSTIN != "" {
		cell.GSTIN = "GSTIN: " + p.GSTIN
	}
	return cell
}

type moneyFormatter struct {
	printer  *message.Printer
	grouping bool
}

func newMoneyFormatter(opts ViewOptions) moneyFormatter {
	tag := opts.Locale
	if tag == language.Und {
		tag = language.English
	}
	return moneyFormatter{printer: message.NewPrinter(tag), grouping: opts.ThousandsSeparator}
}

// format siempre con 2 decimales; con agrupación usa los separadores del idioma configurado.
func (f moneyFormatter) format(d decimal.Decimal) string {
	rounded := d.Round(gst.MoneyPlaces)
	if !f.grouping {
		return rounded.StringFixed(gst.MoneyPlaces)
	}
	return f.printer.Sprintf("%.2f", rounded.InexactFloat64())
}

// quantity sin ceros de relleno, con los mismos separadores que los importes.
func (f moneyFormatter) quantity(d decimal.Decimal) string {
	rounded := d.Round(quantityPlaces)
	if !f.grouping {
		return rounded.String()
	}
	return f.printer.Sprint(number.Decimal(rounded.InexactFloat64(), number.MaxFractionDigits(quantityPlaces)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
