// Package tally exporta facturas como comprobantes de venta importables en Tally Prime
// (Gateway of Tally > Import > Vouchers).
package tally

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/invorya-gst/internal/application/billing"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
)

// DefaultSalesLedger cuenta de ventas si no se configura otra.
const DefaultSalesLedger = "Sales"

// VoucherExporter implementa billing.VoucherExporter con etree.
// Convención de Tally: los débitos van en negativo con ISDEEMEDPOSITIVE=Yes.
type VoucherExporter struct {
	salesLedger string
}

// NewVoucherExporter construye el exportador. salesLedger vacío usa DefaultSalesLedger.
func NewVoucherExporter(salesLedger string) *VoucherExporter {
	if strings.TrimSpace(salesLedger) == "" {
		salesLedger = DefaultSalesLedger
	}
	return &VoucherExporter{salesLedger: salesLedger}
}

var _ billing.VoucherExporter = (*VoucherExporter)(nil)

// Export genera el sobre XML con un único voucher de venta.
func (e *VoucherExporter) Export(inv *entity.Invoice, lines []*entity.InvoiceLine, issuer entity.IssuerProfile) ([]byte, error) {
	if inv == nil {
		return nil, fmt.Errorf("tally: factura nula")
	}
	party := strings.TrimSpace(inv.BillTo.Name)
	if party == "" {
		return nil, fmt.Errorf("tally: la factura %s no tiene nombre de cliente", inv.Number)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	envelope := doc.CreateElement("ENVELOPE")
	envelope.CreateElement("HEADER").CreateElement("TALLYREQUEST").SetText("Import Data")

	importData := envelope.CreateElement("BODY").CreateElement("IMPORTDATA")
	desc := importData.CreateElement("REQUESTDESC")
	desc.CreateElement("REPORTNAME").SetText("Vouchers")
	if issuer.LegalName != "" {
		desc.CreateElement("STATICVARIABLES").CreateElement("SVCURRENTCOMPANY").SetText(issuer.LegalName)
	}

	msg := importData.CreateElement("REQUESTDATA").CreateElement("TALLYMESSAGE")
	msg.CreateAttr("xmlns:UDF", "TallyUDF")

	v := msg.CreateElement("VOUCHER")
	v.CreateAttr("VCHTYPE", "Sales")
	v.CreateAttr("ACTION", "Create")
	v.CreateAttr("OBJVIEW", "Invoice Voucher View")
	v.CreateElement("DATE").SetText(inv.Date.Format("20060102"))
	v.CreateElement("VOUCHERTYPENAME").SetText("Sales")
	v.CreateElement("VOUCHERNUMBER").SetText(inv.Number)
	v.CreateElement("REFERENCE").SetText(inv.Number)
	v.CreateElement("PARTYLEDGERNAME").SetText(party)
	v.CreateElement("BASICBUYERNAME").SetText(party)
	if inv.BillTo.GSTIN != "" {
		v.CreateElement("PARTYGSTIN").SetText(inv.BillTo.GSTIN)
	}
	if inv.ShipFrom.Name != "" {
		v.CreateElement("BASICSHIPPEDBY").SetText(inv.ShipFrom.Name)
	}
	if inv.ShipTo.Name != "" {
		v.CreateElement("CONSIGNEEMAILINGNAME").SetText(inv.ShipTo.Name)
	}
	if inv.ShipTo.GSTIN != "" {
		v.CreateElement("CONSIGNEEGSTIN").SetText(inv.ShipTo.GSTIN)
	}
	v.CreateElement("PERSISTEDVIEW").SetText("Invoice Voucher View")
	v.CreateElement("ISINVOICE").SetText("Yes")

	// Cliente: débito por el total.
	ledgerEntry(v, party, inv.GrandTotal, true, true)

	for _, l := range lines {
		item := v.CreateElement("ALLINVENTORYENTRIES.LIST")
		item.CreateElement("STOCKITEMNAME").SetText(stockItemName(l))
		item.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
		item.CreateElement("RATE").SetText(amount(l.UnitPrice) + "/nos")
		item.CreateElement("AMOUNT").SetText(amount(l.Amount))
		qty := l.Quantity.String() + " nos"
		item.CreateElement("ACTUALQTY").SetText(qty)
		item.CreateElement("BILLEDQTY").SetText(qty)
		if l.HSNCode != "" {
			item.CreateElement("GSTHSNNAME").SetText(l.HSNCode)
		}
		alloc := item.CreateElement("ACCOUNTINGALLOCATIONS.LIST")
		alloc.CreateElement("LEDGERNAME").SetText(e.salesLedger)
		alloc.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
		alloc.CreateElement("AMOUNT").SetText(amount(l.Amount))
	}

	labelA := firstNonEmpty(issuer.TaxLabelA, "SGST")
	labelB := firstNonEmpty(issuer.TaxLabelB, "CGST")
	if !inv.TaxAmountA.IsZero() {
		ledgerEntry(v, fmt.Sprintf("%s %s%%", labelA, inv.TaxRateA.String()), inv.TaxAmountA, false, false)
	}
	if !inv.TaxAmountB.IsZero() {
		ledgerEntry(v, fmt.Sprintf("%s %s%%", labelB, inv.TaxRateB.String()), inv.TaxAmountB, false, false)
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("tally: serializar %s: %w", inv.Number, err)
	}
	return out, nil
}

func ledgerEntry(v *etree.Element, ledger string, value decimal.Decimal, debit, isParty bool) {
	e := v.CreateElement("LEDGERENTRIES.LIST")
	e.CreateElement("LEDGERNAME").SetText(ledger)
	if debit {
		e.CreateElement("ISDEEMEDPOSITIVE").SetText("Yes")
		value = value.Neg()
	} else {
		e.CreateElement("ISDEEMEDPOSITIVE").SetText("No")
	}
	if isParty {
		e.CreateElement("ISPARTYLEDGER").SetText("Yes")
	}
	e.CreateElement("AMOUNT").SetText(amount(value))
}

// stockItemName usa la descripción impresa; sin ella, el SKU.
func stockItemName(l *entity.InvoiceLine) string {
	return firstNonEmpty(l.Description, l.SKU)
}

func amount(d decimal.Decimal) string {
	return d.StringFixed(gst.MoneyPlaces)
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}
