package pdf_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jhoicas/invorya-gst/internal/application/billing"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/pdf"
	"github.com/jhoicas/invorya-gst/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writePNG crea una firma de prueba de 40x20 píxeles.
func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 20))
	for x := 0; x < 40; x++ {
		img.Set(x, 10, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func sampleView(signature, fallback string, withLines bool) *billing.DocumentView {
	inv := &entity.Invoice{
		Number:     "INV-20240315-0001",
		Date:       time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		BillTo:     entity.PartySnapshot{GSTIN: "27AAPFU0939F1ZV", Name: "Acme Traders", Address: "Plot 4\nMIDC Bhosari, Pune"},
		ShipFrom:   entity.PartySnapshot{GSTIN: "29AAGCB7383J1Z4", Name: "Beta Steel", Address: "Bengaluru"},
		ShipTo:     entity.PartySnapshot{Name: "Site office", Address: "Nashik"},
		TaxRateA:   decimal.NewFromInt(9),
		TaxRateB:   decimal.NewFromInt(9),
		Subtotal:   decimal.NewFromInt(200),
		TaxAmountA: decimal.NewFromInt(18),
		TaxAmountB: decimal.NewFromInt(18),
		GrandTotal: decimal.NewFromInt(236),

		SignaturePath: signature,
	}
	var lines []*entity.InvoiceLine
	if withLines {
		lines = []*entity.InvoiceLine{{
			Position: 1, Description: "Cable", HSNCode: "8544",
			Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100), Amount: decimal.NewFromInt(200),
		}}
	} else {
		inv.Subtotal, inv.TaxAmountA, inv.TaxAmountB, inv.GrandTotal = decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	}
	issuer := entity.IssuerProfile{
		LegalName:            "INVORYA ENGINEERING",
		GSTIN:                "24AAACC1206D1ZM",
		OfficeAddress:        "Plot 12, GIDC, Ahmedabad",
		Contact:              "+91 98250 00000",
		BankDetails:          "HDFC Bank\nA/c 5010 0000 0000\nIFSC HDFC0000001",
		FooterNote:           "Goods once sold will not be taken back.",
		SignatureCaption:     "Authorized Signatory",
		DefaultSignaturePath: fallback,
	}
	return billing.BuildDocumentView(inv, lines, issuer, billing.DefaultViewOptions())
}

func TestParseSignaturePolicy(t *testing.T) {
	cases := map[string]pdf.SignaturePolicy{
		"":        pdf.SignatureDefault,
		"abort":   pdf.SignatureAbort,
		" BLANK ": pdf.SignatureBlank,
		"Default": pdf.SignatureDefault,
	}
	for in, want := range cases {
		got, err := pdf.ParseSignaturePolicy(in)
		require.NoError(t, err, "entrada %q", in)
		assert.Equal(t, want, got)
	}
	_, err := pdf.ParseSignaturePolicy("ignore")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerate_ConFirmaPNG(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "firma.png")
	g := pdf.NewMarotoPDFGenerator(pdf.SignatureAbort, dir, logger.Nop())

	out, err := g.Generate(context.Background(), sampleView("firma.png", "", true))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "la salida es un PDF")
}

func TestGenerate_MismaVistaMismosBytes(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, dir, "firma.png")
	g := pdf.NewMarotoPDFGenerator(pdf.SignatureAbort, dir, logger.Nop())
	view := sampleView("firma.png", "", true)

	first, err := g.Generate(context.Background(), view)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := g.Generate(context.Background(), view)
		require.NoError(t, err)
		require.True(t, bytes.Equal(first, again), "generación %d distinta de la primera", i+2)
	}
	assert.Contains(t, string(first), "D:20240315000000", "las fechas del PDF son las de la factura")
}

func TestGenerate_SinLineasUsaFilaDeRelleno(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator(pdf.SignatureBlank, "", logger.Nop())

	out, err := g.Generate(context.Background(), sampleView("", "", false))
	require.NoError(t, err, "una factura vacía también produce documento")
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_PoliticaAbort(t *testing.T) {
	dir := t.TempDir()
	fallback := writePNG(t, dir, "defecto.png")
	g := pdf.NewMarotoPDFGenerator(pdf.SignatureAbort, dir, logger.Nop())

	_, err := g.Generate(context.Background(), sampleView("no-existe.png", fallback, true))
	assert.ErrorIs(t, err, domain.ErrSignatureMissing, "abort no usa la firma por defecto")
}

func TestGenerate_PoliticaDefault(t *testing.T) {
	dir := t.TempDir()
	fallback := writePNG(t, dir, "defecto.png")
	g := pdf.NewMarotoPDFGenerator(pdf.SignatureDefault, dir, logger.Nop())

	out, err := g.Generate(context.Background(), sampleView("no-existe.png", fallback, true))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = g.Generate(context.Background(), sampleView("no-existe.png", filepath.Join(dir, "tampoco.png"), true))
	assert.ErrorIs(t, err, domain.ErrSignatureMissing)
}

func TestGenerate_FirmaDelEmisorFueraDelDirectorio(t *testing.T) {
	issuerDir := t.TempDir()
	fallback := writePNG(t, issuerDir, "emisor.png")
	g := pdf.NewMarotoPDFGenerator(pdf.SignatureAbort, t.TempDir(), logger.Nop())

	out, err := g.Generate(context.Background(), sampleView("", fallback, true))
	require.NoError(t, err, "la firma del emisor viene de la configuración y se lee donde esté")
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerate_FirmaFueraDelDirectorioRechazada(t *testing.T) {
	outside := t.TempDir()
	secret := writePNG(t, outside, "ajena.png")
	dir := t.TempDir()
	require.NoError(t, os.Symlink(secret, filepath.Join(dir, "enlace.png")))

	for _, policy := range []pdf.SignaturePolicy{pdf.SignatureAbort, pdf.SignatureBlank, pdf.SignatureDefault} {
		g := pdf.NewMarotoPDFGenerator(policy, dir, logger.Nop())
		for _, path := range []string{secret, "../" + filepath.Base(outside) + "/ajena.png"} {
			_, err := g.Generate(context.Background(), sampleView(path, "", true))
			assert.ErrorIs(t, err, domain.ErrInvalidInput, "política %s, ruta %s", policy, path)
		}
	}

	_, err := pdf.NewMarotoPDFGenerator(pdf.SignatureAbort, dir, logger.Nop()).
		Generate(context.Background(), sampleView("enlace.png", "", true))
	require.Error(t, err, "un enlace simbólico no permite salir del directorio")
	assert.NotErrorIs(t, err, domain.ErrSignatureMissing)
}

func TestGenerate_SinDirectorioNoHayFirmasPorFactura(t *testing.T) {
	g := pdf.NewMarotoPDFGenerator(pdf.SignatureAbort, "", logger.Nop())

	_, err := g.Generate(context.Background(), sampleView("firma.png", "", true))
	assert.ErrorIs(t, err, domain.ErrSignatureMissing)
}

func TestGenerate_FormatoDeFirmaNoSoportado(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "firma.gif"), []byte("GIF89a"), 0o644))

	_, err := pdf.NewMarotoPDFGenerator(pdf.SignatureAbort, dir, nil).Generate(context.Background(), sampleView("firma.gif", "", true))
	assert.ErrorIs(t, err, domain.ErrSignatureMissing)
}

func TestGenerate_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pdf.NewMarotoPDFGenerator(pdf.SignatureBlank, "", nil).Generate(ctx, sampleView("", "", true))
	assert.ErrorIs(t, err, context.Canceled)
}

// ── WriteFileAtomic ───────────────────────────────────────────────────────────

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Invoice_INV-20240315-0001.pdf")

	require.NoError(t, pdf.WriteFileAtomic(path, []byte("%PDF-1.3 uno")))
	require.NoError(t, pdf.WriteFileAtomic(path, []byte("%PDF-1.3 dos")), "sobrescribe un archivo existente")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3 dos", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no quedan temporales")
}

func TestWriteFileAtomic_DirectorioInexistente(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "existe", "f.pdf")

	err := pdf.WriteFileAtomic(path, []byte("x"))
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no se crea salida parcial")
}
