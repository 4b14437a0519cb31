package tally_test

import (
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/tally"
)

func sampleInvoice() (*entity.Invoice, []*entity.InvoiceLine) {
	d := decimal.RequireFromString
	inv := &entity.Invoice{
		Number:     "INV-20240315-0001",
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		BillTo:     entity.PartySnapshot{GSTIN: "27AAPFU0939F1ZV", Name: "Acme Traders"},
		ShipFrom:   entity.PartySnapshot{GSTIN: "29AAGCB7383J1Z4", Name: "Beta Steel"},
		ShipTo:     entity.PartySnapshot{GSTIN: "27AAPFU0939F1ZV", Name: "Acme Traders"},
		TaxRateA:   d("9"),
		TaxRateB:   d("9"),
		Subtotal:   d("112200"),
		TaxAmountA: d("10098"),
		TaxAmountB: d("10098"),
		GrandTotal: d("132396"),
	}
	lines := []*entity.InvoiceLine{
		{Position: 1, SKU: "VFD-01", Description: "VFD PANEL", HSNCode: "8537", Quantity: d("1"), UnitPrice: d("112000"), Amount: d("112000")},
		{Position: 2, Description: "Cable", HSNCode: "8544", Quantity: d("2"), UnitPrice: d("100"), Amount: d("200")},
	}
	return inv, lines
}

func TestExport_VoucherDeVenta(t *testing.T) {
	inv, lines := sampleInvoice()
	issuer := entity.IssuerProfile{LegalName: "INVORYA ENGINEERING", TaxLabelA: "SGST", TaxLabelB: "CGST"}

	out, err := tally.NewVoucherExporter("").Export(inv, lines, issuer)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out), "la salida es XML válido")

	v := doc.FindElement("//VOUCHER")
	require.NotNil(t, v)
	assert.Equal(t, "Sales", v.SelectAttrValue("VCHTYPE", ""))
	assert.Equal(t, "20240315", v.FindElement("DATE").Text())
	assert.Equal(t, "INV-20240315-0001", v.FindElement("VOUCHERNUMBER").Text())
	assert.Equal(t, "Acme Traders", v.FindElement("PARTYLEDGERNAME").Text())
	assert.Equal(t, "INVORYA ENGINEERING", doc.FindElement("//SVCURRENTCOMPANY").Text())

	items := v.SelectElements("ALLINVENTORYENTRIES.LIST")
	require.Len(t, items, 2)
	assert.Equal(t, "VFD PANEL", items[0].FindElement("STOCKITEMNAME").Text())
	assert.Equal(t, "2 nos", items[1].FindElement("BILLEDQTY").Text())
	assert.Equal(t, "Sales", items[1].FindElement("ACCOUNTINGALLOCATIONS.LIST/LEDGERNAME").Text())

	ledgers := v.SelectElements("LEDGERENTRIES.LIST")
	require.Len(t, ledgers, 3, "cliente y dos impuestos")
	assert.Equal(t, "-132396.00", ledgers[0].FindElement("AMOUNT").Text(), "el cliente va al débito")
	assert.Equal(t, "SGST 9%", ledgers[1].FindElement("LEDGERNAME").Text())
	assert.Equal(t, "CGST 9%", ledgers[2].FindElement("LEDGERNAME").Text())

	// Débitos y créditos cuadran.
	sum := decimal.Zero
	for _, el := range doc.FindElements("//LEDGERENTRIES.LIST/AMOUNT") {
		sum = sum.Add(decimal.RequireFromString(el.Text()))
	}
	for _, el := range doc.FindElements("//ALLINVENTORYENTRIES.LIST/AMOUNT") {
		sum = sum.Add(decimal.RequireFromString(el.Text()))
	}
	assert.True(t, sum.IsZero(), "suma de asientos: %s", sum)
}

func TestExport_SinImpuestosNoCreaAsientos(t *testing.T) {
	inv, lines := sampleInvoice()
	inv.TaxAmountA, inv.TaxAmountB = decimal.Zero, decimal.Zero
	inv.GrandTotal = inv.Subtotal

	out, err := tally.NewVoucherExporter("Ventas GST").Export(inv, lines, entity.IssuerProfile{})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	assert.Len(t, doc.FindElements("//LEDGERENTRIES.LIST"), 1)
	assert.Equal(t, "Ventas GST", doc.FindElement("//ACCOUNTINGALLOCATIONS.LIST/LEDGERNAME").Text())
	assert.Nil(t, doc.FindElement("//SVCURRENTCOMPANY"))
}

func TestExport_SinCliente(t *testing.T) {
	inv, lines := sampleInvoice()
	inv.BillTo.Name = ""

	_, err := tally.NewVoucherExporter("").Export(inv, lines, entity.IssuerProfile{})
	assert.Error(t, err)
}
