package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invorya-gst/internal/application/dto"
	"github.com/jhoicas/invorya-gst/internal/bootstrap"
	"github.com/jhoicas/invorya-gst/pkg/config"
)

const (
	gstinAcme = "27AAPFU0939F1ZV"
	gstinBeta = "29AAGCB7383J1Z4"
	gstinRoad = "07AAACR5055K1Z9"
)

// newTestApp arma la aplicación completa sobre el almacenamiento en memoria, sin autenticación.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := &config.Config{
		App:     config.AppConfig{Name: "invorya-gst-test"},
		Storage: config.StorageConfig{Driver: "memory"},
		Issuer:  config.IssuerConfig{LegalName: "INVORYA ENGINEERING", GSTIN: "24AAACC1206D1ZM", SignatureCaption: "Authorized Signatory"},
		Tax:     config.TaxConfig{RateA: "9", RateB: "9", LabelA: "SGST", LabelB: "CGST"},
		PDF: config.PDFConfig{
			SignaturePolicy:    "blank",
			ThousandsSeparator: true,
			NumberLocale:       "en",
			OutputDir:          filepath.Join(t.TempDir(), "out"),
			DateLayout:         "02/01/2006",
		},
		Tally: config.TallyConfig{SalesLedger: "Sales"},
	}
	c, err := bootstrap.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c.App()
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func seedParties(t *testing.T, app *fiber.App) {
	t.Helper()
	for gstin, name := range map[string]string{gstinAcme: "Acme Traders", gstinBeta: "Beta Steel", gstinRoad: "Road Logistics"} {
		resp := doJSON(t, app, http.MethodPost, "/api/companies/", dto.CreateCompanyRequest{GSTIN: gstin, Name: name, Address: "Mumbai"})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode, "alta de %s", name)
	}
}

const invoiceBody = `{
	"date": "2024-03-15",
	"bill_to": {"gstin": "27AAPFU0939F1ZV"},
	"ship_from": {"gstin": "29AAGCB7383J1Z4"},
	"ship_to": {"gstin": "07AAACR5055K1Z9"},
	"items": [{"description": "Cable", "hsn_code": "8544", "quantity": "2", "unit_price": 100}]
}`

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Equal(t, "invorya-gst-test", body["service"])
}

func TestCompanies_AltaYDuplicado(t *testing.T) {
	app := newTestApp(t)
	in := dto.CreateCompanyRequest{GSTIN: gstinAcme, Name: "Acme Traders", Address: "Mumbai"}

	resp := doJSON(t, app, http.MethodPost, "/api/companies/", in)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decodeBody[dto.CompanyResponse](t, resp)
	assert.Equal(t, gstinAcme, created.GSTIN)

	resp = doJSON(t, app, http.MethodPost, "/api/companies/", in)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decodeBody[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodGet, "/api/companies/"+gstinAcme, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/companies/"+gstinBeta, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCompanies_CuerpoInvalido(t *testing.T) {
	app := newTestApp(t)
	resp := doJSON(t, app, http.MethodPost, "/api/companies/", "{no es json")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestProducts_BorradoReferenciado(t *testing.T) {
	app := newTestApp(t)
	seedParties(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/products/", `{"sku":"VFD-01","name":"Drive","hsn_code":"8504","unit_price":"112000"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := strings.Replace(invoiceBody, `{"description": "Cable", "hsn_code": "8544", "quantity": "2", "unit_price": 100}`, `{"sku": "VFD-01", "quantity": 1}`, 1)
	resp = doJSON(t, app, http.MethodPost, "/api/invoices/", body)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/VFD-01", nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "REFERENCED", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestInvoices_EmitirConsultarYDocumentos(t *testing.T) {
	app := newTestApp(t)
	seedParties(t, app)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices/", invoiceBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	inv := decodeBody[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "INV-20240315-0001", inv.Number)
	assert.Equal(t, "200.00", inv.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "18.00", inv.Totals.TaxAmountA.StringFixed(2))
	assert.Equal(t, "18.00", inv.Totals.TaxAmountB.StringFixed(2))
	assert.Equal(t, "236.00", inv.Totals.GrandTotal.StringFixed(2))
	assert.Equal(t, "TWO HUNDRED THIRTY SIX RUPEES ONLY", inv.Totals.AmountInWords)
	assert.Equal(t, "Acme Traders", inv.BillTo.Name)

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.Number, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decodeBody[dto.InvoiceResponse](t, resp)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "200.00", got.Lines[0].Amount.StringFixed(2))

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.Number+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Invoice_INV-20240315-0001.pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")), "el cuerpo es un PDF")

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.Number+"/pdf?inline=true", nil)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "inline")

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.Number+"/tally", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	xmlBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(xmlBytes), "<VOUCHERNUMBER>INV-20240315-0001</VOUCHERNUMBER>")

	resp = doJSON(t, app, http.MethodPatch, "/api/invoices/"+inv.Number, `{"advance_amount": 36}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decodeBody[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "200.00", updated.Totals.AmountDue.StringFixed(2))

	resp = doJSON(t, app, http.MethodGet, "/api/invoices/", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decodeBody[dto.InvoiceListResponse](t, resp)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Acme Traders", list.Items[0].BillTo)

	resp = doJSON(t, app, http.MethodDelete, "/api/invoices/"+inv.Number, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/invoices/"+inv.Number+"/pdf", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInvoices_SinLineasEsInvalida(t *testing.T) {
	app := newTestApp(t)
	seedParties(t, app)
	body := strings.Replace(invoiceBody, `[{"description": "Cable", "hsn_code": "8544", "quantity": "2", "unit_price": 100}]`, `[]`, 1)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices/", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", decodeBody[dto.ErrorResponse](t, resp).Code)
}

func TestPreview_CantidadNoNumerica(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices/preview",
		`{"items":[{"quantity":"abc","unit_price":"100"},{"quantity":2,"unit_price":"100"}]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	out := decodeBody[dto.TotalsResponse](t, resp)
	require.Len(t, out.LineAmounts, 2)
	assert.True(t, out.LineAmounts[0].IsZero(), "cantidad ilegible cuenta como cero")
	assert.Equal(t, "236.00", out.GrandTotal.StringFixed(2))
}

func TestPreviewPDF_SinLineas(t *testing.T) {
	app := newTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/invoices/preview/pdf", `{"bill_to":{"name":"Walk-in"},"items":[]}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Invoice_DRAFT.pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))
}

func TestMetrics_Expuestas(t *testing.T) {
	app := newTestApp(t)
	seedParties(t, app)
	resp := doJSON(t, app, http.MethodPost, "/api/invoices/", invoiceBody)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(raw)
	assert.Contains(t, text, "invorya_invoices_created_total 1")
	assert.Contains(t, text, "invorya_http_requests_total")
	assert.Contains(t, text, `status="201"`)
}

func TestAPI_ConSecretoExigeToken(t *testing.T) {
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: "memory"},
		JWT:     config.JWTConfig{Secret: "otro-secreto"},
		Tax:     config.TaxConfig{RateA: "9", RateB: "9"},
		PDF:     config.PDFConfig{SignaturePolicy: "blank", NumberLocale: "en"},
	}
	c, err := bootstrap.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	app := c.App()

	resp := doJSON(t, app, http.MethodGet, "/api/companies/", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, "health queda fuera de la autenticación")
}
