// Package pdf implementa la representación impresa de la factura GST.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  GSTIN emisor   │     TAX INVOICE     │   N° + Fecha        │
//	│  Razón social / Dirección / Contacto (centrados)            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO        │  SHIP FROM          │  SHIP TO            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: S.No | HSN/SAC | Particulars | Qty | Price | Amount │
//	│  TOTALES: base / impuesto A / impuesto B / Total            │
//	│  Importe en palabras                                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  Banco + nota              │  Firma + leyenda               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/phpdave11/gofpdf"

	"github.com/jhoicas/invorya-gst/internal/application/billing"
	"github.com/jhoicas/invorya-gst/pkg/logger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 51, Blue: 102}
	colorGray    = &props.Color{Red: 90, Green: 90, Blue: 90}
	colorBorder  = &props.Color{Red: 0, Green: 0, Blue: 0}
	colorHeader  = &props.Color{Red: 220, Green: 220, Blue: 220}
	colorShade   = &props.Color{Red: 235, Green: 235, Blue: 235}
)

var (
	bordered = &props.Cell{BorderType: border.Full, BorderColor: colorBorder, BorderThickness: 0.2}
	filled   = &props.Cell{BorderType: border.Full, BorderColor: colorBorder, BorderThickness: 0.2, BackgroundColor: colorHeader}
	shaded   = &props.Cell{BorderType: border.Full, BorderColor: colorBorder, BorderThickness: 0.2, BackgroundColor: colorShade}
)

// ancho de columnas de la tabla de líneas (suma 12), en el orden de billing.ItemTableHeader
var itemColumns = []int{1, 2, 4, 1, 2, 2}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.DocumentGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	policy       SignaturePolicy
	signatureDir string
	log          *logger.Logger
}

// NewMarotoPDFGenerator construye el generador con la política de firma indicada.
// Las firmas propias de cada factura se leen solo dentro de signatureDir.
func NewMarotoPDFGenerator(policy SignaturePolicy, signatureDir string, log *logger.Logger) *MarotoPDFGenerator {
	if policy == "" {
		policy = SignatureDefault
	}
	if log == nil {
		log = logger.Nop()
	}
	return &MarotoPDFGenerator{policy: policy, signatureDir: signatureDir, log: log}
}

var _ billing.DocumentGenerator = (*MarotoPDFGenerator)(nil)

// Generate maqueta la vista y devuelve los bytes del PDF.
// Misma vista, mismos bytes: las fechas del PDF son la de la factura y los catálogos internos van ordenados.
func (g *MarotoPDFGenerator) Generate(ctx context.Context, view *billing.DocumentView) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("pdf: vista nula")
	}

	signature, err := resolveSignature(g.policy, g.signatureDir, view.Footer.SignaturePath, view.Footer.FallbackPath)
	if err != nil {
		g.log.Warn().Err(err).Str("number", view.Header.Number).Str("policy", string(g.policy)).Msg("firma no disponible")
		return nil, err
	}
	if signature == nil {
		g.log.Warn().Str("path", view.Footer.SignaturePath).Msg("firma no encontrada, recuadro en blanco")
	} else if signature.path != view.Footer.SignaturePath {
		g.log.Info().Str("requested", view.Footer.SignaturePath).Str("used", signature.path).Msg("firma por defecto del emisor")
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(view.Title, true).
		WithAuthor(view.Issuer.LegalName, true).
		WithCreationDate(view.IssuedAt).
		Build()

	m := newDocument(cfg, view.IssuedAt)

	m.AddRows(headerRow(view.Header))
	m.AddRows(issuerRows(view.Issuer)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(partiesRow(view.Parties))
	m.AddRows(row.New(3))
	m.AddRows(itemHeaderRow())
	m.AddRows(itemRows(view)...)
	m.AddRows(totalsRows(view.Totals)...)
	if view.AmountInWords != "" {
		m.AddRows(wordsRow(view.AmountInWords))
	}
	m.AddRows(row.New(4))
	m.AddRows(footerRows(view.Footer, signature)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	out := doc.GetBytes()
	g.log.Debug().Str("number", view.Header.Number).Int("bytes", len(out)).Msg("pdf generado")
	return out, nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: GSTIN del emisor (izq), título (centro), número y fecha (der).
func headerRow(h billing.HeaderBlock) core.Row {
	return row.New(14).Add(
		col.New(4).Add(
			text.New(h.IssuerGSTIN, props.Text{Style: fontstyle.Bold, Size: 9, Top: 3}),
		),
		col.New(4).Add(
			text.New(h.Caption, props.Text{
				Style: fontstyle.Bold, Size: 14, Align: align.Center, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New(h.Number, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1}),
			text.New(h.Date, props.Text{Size: 9, Align: align.Right, Top: 7}),
		),
	)
}

// issuerRows: una fila centrada por campo; los vacíos se omiten.
func issuerRows(is billing.IssuerBlock) []core.Row {
	rows := []core.Row{
		row.New(9).Add(col.New(12).Add(text.New(is.LegalName, props.Text{
			Style: fontstyle.Bold, Size: 16, Align: align.Center, Color: colorPrimary,
		}))),
	}
	for _, s := range []string{is.OfficeAddress, is.Contact} {
		if s == "" {
			continue
		}
		rows = append(rows, row.New(5).Add(col.New(12).Add(text.New(s, props.Text{
			Size: 9, Align: align.Center, Color: colorGray,
		}))))
	}
	return rows
}

// partiesRow: tres celdas con borde, BILL TO / SHIP FROM / SHIP TO.
func partiesRow(parties []billing.PartyCell) core.Row {
	if len(parties) == 0 {
		return row.New(1)
	}
	cols := make([]core.Col, 0, len(parties))
	for _, p := range parties {
		c := col.New(12 / len(parties)).WithStyle(bordered)
		c.Add(text.New(p.Caption, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1, Left: 2}))
		c.Add(text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 9, Top: 6, Left: 2, Right: 2}))
		top := 11.0
		for _, l := range splitLines(p.Address) {
			c.Add(text.New(l, props.Text{Size: 8, Top: top, Left: 2, Right: 2}))
			top += 4
		}
		if p.GSTIN != "" {
			c.Add(text.New(p.GSTIN, props.Text{Size: 8, Style: fontstyle.Bold, Top: 23, Left: 2}))
		}
		cols = append(cols, c)
	}
	return row.New(28).Add(cols...)
}

// itemHeaderRow: cabecera de la tabla con fondo gris.
func itemHeaderRow() core.Row {
	cols := make([]core.Col, len(billing.ItemTableHeader))
	for i, label := range billing.ItemTableHeader {
		cols[i] = col.New(itemColumns[i]).WithStyle(filled).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 2,
		}))
	}
	return row.New(8).Add(cols...)
}

// itemRows: una fila por línea, o la fila de relleno si no hay líneas.
func itemRows(view *billing.DocumentView) []core.Row {
	if view.Placeholder {
		return []core.Row{row.New(8).Add(col.New(12).WithStyle(bordered).Add(
			text.New(billing.PlaceholderItemRow, props.Text{Size: 9, Align: align.Center, Top: 2, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(view.Items))
	for _, it := range view.Items {
		values := []string{it.Position, it.HSNCode, it.Description, it.Quantity, it.UnitPrice, it.Amount}
		aligns := []align.Type{align.Center, align.Center, align.Left, align.Center, align.Right, align.Right}
		cols := make([]core.Col, len(values))
		for i, v := range values {
			cols[i] = col.New(itemColumns[i]).WithStyle(bordered).Add(text.New(v, props.Text{
				Size: 8, Align: aligns[i], Top: 2, Left: 1, Right: 1,
			}))
		}
		rows = append(rows, row.New(7).Add(cols...))
	}
	return rows
}

// totalsRows: etiqueta a la izquierda y valor alineado con la columna Amount. El total va en negrita y sombreado.
func totalsRows(totals []billing.TotalRow) []core.Row {
	rows := make([]core.Row, 0, len(totals))
	for _, t := range totals {
		style, font, size := bordered, fontstyle.Normal, 9.0
		if t.Emphasized {
			style, font, size = shaded, fontstyle.Bold, 10
		}
		rows = append(rows, row.New(7).Add(
			col.New(10).WithStyle(style).Add(text.New(t.Label, props.Text{
				Style: font, Size: size, Align: align.Right, Top: 1.5, Right: 2,
			})),
			col.New(2).WithStyle(style).Add(text.New(t.Value, props.Text{
				Style: font, Size: size, Align: align.Right, Top: 1.5, Right: 1,
			})),
		))
	}
	return rows
}

func wordsRow(words string) core.Row {
	return row.New(8).Add(col.New(12).WithStyle(bordered).Add(
		text.New("Amount in words: "+words, props.Text{Style: fontstyle.BoldItalic, Size: 8, Top: 2, Left: 2}),
	))
}

// footerRows: banco y nota (izq), firma y leyenda (der).
func footerRows(f billing.FooterBlock, signature *signatureImage) []core.Row {
	left := col.New(7).WithStyle(bordered)
	top := 1.0
	for _, l := range splitLines(f.BankDetails) {
		left.Add(text.New(l, props.Text{Size: 8, Top: top, Left: 2}))
		top += 4
	}

	right := col.New(5).WithStyle(bordered)
	if signature != nil {
		right.Add(image.NewFromBytes(signature.bytes, signature.ext, props.Rect{Center: true, Percent: 80}))
	}

	captionLeft := col.New(7).WithStyle(bordered)
	if f.Note != "" {
		captionLeft.Add(text.New(f.Note, props.Text{Size: 7, Style: fontstyle.Italic, Top: 2, Left: 2, Color: colorGray}))
	}
	return []core.Row{
		row.New(24).Add(left, right),
		row.New(8).Add(
			captionLeft,
			col.New(5).WithStyle(bordered).Add(text.New(f.SignatureCaption, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 2,
			})),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

// gofpdf toma el orden de catálogos y la fecha de modificación de valores globales al crear
// cada documento; sin orden las fuentes salen en el orden de un map y ModDate es time.Now().
var fpdfDefaults sync.Mutex

// newDocument crea el documento con catálogos ordenados y ModDate = issuedAt.
// En modo secuencial maroto crea su único gofpdf dentro de maroto.New.
func newDocument(cfg *entity.Config, issuedAt time.Time) core.Maroto {
	fpdfDefaults.Lock()
	defer fpdfDefaults.Unlock()
	gofpdf.SetDefaultCatalogSort(true)
	gofpdf.SetDefaultModificationDate(issuedAt)
	return maroto.New(cfg)
}

// splitLines separa texto multilínea; maroto no respeta "\n" dentro de un text.
func splitLines(s string) []string {
	var out []string
	for _, l := range strings.Split(s, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
