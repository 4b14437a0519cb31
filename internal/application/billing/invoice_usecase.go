package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/invorya-gst/internal/application/dto"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
	"github.com/jhoicas/invorya-gst/pkg/gstin"
	"github.com/shopspring/decimal"
)

// DraftNumber se imprime en documentos de facturas no guardadas sin número propio.
const DraftNumber = "DRAFT"

// InvoiceConfig parámetros de facturación que vienen de la configuración.
type InvoiceConfig struct {
	DefaultTaxRateA decimal.Decimal
	DefaultTaxRateB decimal.Decimal
	StrictGSTIN     bool
	Words           WordsRenderer
}

// InvoiceUseCase orquesta el cálculo y la emisión de facturas.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	companyRepo repository.CompanyRepository
	productRepo repository.ProductRepository
	invoiceRepo repository.InvoiceRepository
	cfg         InvoiceConfig
	observer    Observer
	now         func() time.Time
}

// NewInvoiceUseCase construye el caso de uso. observer puede ser nil.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	cfg InvoiceConfig,
	observer Observer,
) *InvoiceUseCase {
	if cfg.Words == nil {
		cfg.Words = gst.AmountInWords
	}
	return &InvoiceUseCase{
		txRunner:    txRunner,
		companyRepo: companyRepo,
		productRepo: productRepo,
		invoiceRepo: invoiceRepo,
		cfg:         cfg,
		observer:    observerOrNop(observer),
		now:         time.Now,
	}
}

// WithClock fija el reloj usado para la fecha por defecto (tests).
func (uc *InvoiceUseCase) WithClock(now func() time.Time) *InvoiceUseCase {
	uc.now = now
	return uc
}

// Preview recalcula los totales de un formulario sin tocar el almacenamiento.
// Cantidades y precios ilegibles ya llegan como cero.
func (uc *InvoiceUseCase) Preview(in dto.PreviewInvoiceRequest) *dto.TotalsResponse {
	rateA, rateB := uc.rates(in.TaxRateA, in.TaxRateB)
	t := gst.Compute(previewLines(in.Items), rateA, rateB, in.AdvanceAmount.Decimal)
	return uc.totalsResponse(t, rateA, rateB)
}

// Create valida, numera y guarda la factura con sus líneas en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la factura necesita al menos una línea", domain.ErrInvalidInput)
	}
	date, err := parseDate(in.Date, uc.now())
	if err != nil {
		return nil, err
	}
	signature, err := signaturePath(in.SignaturePath)
	if err != nil {
		return nil, err
	}
	rateA, rateB := uc.rates(in.TaxRateA, in.TaxRateB)

	var (
		inv   *entity.Invoice
		lines []*entity.InvoiceLine
	)
	err = uc.txRunner.RunBilling(ctx, func(companyRepo repository.CompanyRepository, productRepo repository.ProductRepository, invoiceRepo repository.InvoiceRepository) error {
		billTo, err := uc.resolveParty(ctx, companyRepo, entity.PartyBillTo, in.BillTo, true)
		if err != nil {
			return err
		}
		shipFrom, err := uc.resolveParty(ctx, companyRepo, entity.PartyShipFrom, in.ShipFrom, true)
		if err != nil {
			return err
		}
		shipTo, err := uc.resolveParty(ctx, companyRepo, entity.PartyShipTo, in.ShipTo, true)
		if err != nil {
			return err
		}

		lines, err = resolveLines(ctx, productRepo, in.Items)
		if err != nil {
			return err
		}
		totals := computeLines(lines, rateA, rateB, in.AdvanceAmount.Decimal)

		prefix := gst.DayPrefix(date)
		last, err := invoiceRepo.LastNumber(ctx, prefix)
		if err != nil {
			return err
		}
		number, err := gst.FormatInvoiceNumber(date, gst.NextSequence(prefix, last))
		if err != nil {
			return err
		}

		now := uc.now()
		inv = &entity.Invoice{
			ID:            uuid.New().String(),
			Number:        number,
			Date:          date,
			BillTo:        billTo,
			ShipFrom:      shipFrom,
			ShipTo:        shipTo,
			AdvanceAmount: totals.Advance,
			SignaturePath: signature,
			TaxRateA:      rateA,
			TaxRateB:      rateB,
			Subtotal:      totals.Subtotal,
			TaxAmountA:    totals.TaxAmountA,
			TaxAmountB:    totals.TaxAmountB,
			GrandTotal:    totals.GrandTotal,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := gst.ValidateTotals(inv, lines); err != nil {
			return err
		}
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, l := range lines {
			l.InvoiceID = inv.ID
			if err := invoiceRepo.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.observer.InvoiceCreated()
	return uc.toInvoiceResponse(inv, lines), nil
}

// Get devuelve la factura con sus líneas.
func (uc *InvoiceUseCase) Get(ctx context.Context, number string) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.Load(ctx, number)
	if err != nil {
		return nil, err
	}
	return uc.toInvoiceResponse(inv, lines), nil
}

// Load devuelve la entidad y sus líneas; domain.ErrNotFound si el número no existe.
func (uc *InvoiceUseCase) Load(ctx context.Context, number string) (*entity.Invoice, []*entity.InvoiceLine, error) {
	inv, err := uc.invoiceRepo.GetByNumber(ctx, strings.TrimSpace(number))
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, fmt.Errorf("%w: factura %s", domain.ErrNotFound, number)
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, inv.ID)
	if err != nil {
		return nil, nil, err
	}
	return inv, lines, nil
}

// List lista facturas, las más recientes primero.
func (uc *InvoiceUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	list, err := uc.invoiceRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceSummaryResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, dto.InvoiceSummaryResponse{
			Number:     inv.Number,
			Date:       inv.Date.Format(dateLayout),
			BillTo:     inv.BillTo.Name,
			GrandTotal: inv.GrandTotal,
			AmountDue:  inv.AmountDue(),
		})
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update cambia fecha y/o anticipo. El número y los totales no cambian.
func (uc *InvoiceUseCase) Update(ctx context.Context, number string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, lines, err := uc.Load(ctx, number)
	if err != nil {
		return nil, err
	}
	if in.Date != nil {
		date, err := parseDate(*in.Date, inv.Date)
		if err != nil {
			return nil, err
		}
		inv.Date = date
	}
	if in.AdvanceAmount != nil {
		inv.AdvanceAmount = gst.Compute(nil, decimal.Zero, decimal.Zero, in.AdvanceAmount.Decimal).Advance
	}
	inv.UpdatedAt = uc.now()
	if err := uc.invoiceRepo.UpdateDateAndAdvance(ctx, inv); err != nil {
		return nil, err
	}
	return uc.toInvoiceResponse(inv, lines), nil
}

// Delete elimina la factura y sus líneas juntas.
func (uc *InvoiceUseCase) Delete(ctx context.Context, number string) error {
	return uc.txRunner.RunBilling(ctx, func(_ repository.CompanyRepository, _ repository.ProductRepository, invoiceRepo repository.InvoiceRepository) error {
		inv, err := invoiceRepo.GetByNumber(ctx, strings.TrimSpace(number))
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("%w: factura %s", domain.ErrNotFound, number)
		}
		return invoiceRepo.Delete(ctx, inv.ID)
	})
}

// Draft arma una factura sin guardarla, tal como está en el formulario.
// Se permiten cero líneas y partes sin registrar; nada se escribe en el almacenamiento.
func (uc *InvoiceUseCase) Draft(ctx context.Context, in dto.DraftDocumentRequest) (*entity.Invoice, []*entity.InvoiceLine, error) {
	date, err := parseDate(in.Date, uc.now())
	if err != nil {
		return nil, nil, err
	}
	signature, err := signaturePath(in.SignaturePath)
	if err != nil {
		return nil, nil, err
	}
	rateA, rateB := uc.rates(in.TaxRateA, in.TaxRateB)

	parties := make([]entity.PartySnapshot, 3)
	for i, p := range []struct {
		role entity.PartyRole
		req  dto.PartyRequest
	}{
		{entity.PartyBillTo, in.BillTo},
		{entity.PartyShipFrom, in.ShipFrom},
		{entity.PartyShipTo, in.ShipTo},
	} {
		parties[i], err = uc.resolveParty(ctx, uc.companyRepo, p.role, p.req, false)
		if err != nil {
			return nil, nil, err
		}
	}

	lines, err := resolveLines(ctx, uc.productRepo, in.Items)
	if err != nil {
		return nil, nil, err
	}
	totals := computeLines(lines, rateA, rateB, in.AdvanceAmount.Decimal)

	inv := &entity.Invoice{
		Number:        firstNonEmpty(strings.TrimSpace(in.Number), DraftNumber),
		Date:          date,
		BillTo:        parties[0],
		ShipFrom:      parties[1],
		ShipTo:        parties[2],
		AdvanceAmount: totals.Advance,
		SignaturePath: signature,
		TaxRateA:      rateA,
		TaxRateB:      rateB,
		Subtotal:      totals.Subtotal,
		TaxAmountA:    totals.TaxAmountA,
		TaxAmountB:    totals.TaxAmountB,
		GrandTotal:    totals.GrandTotal,
	}
	return inv, lines, nil
}

// resolveParty busca la parte por GSTIN y copia sus datos.
// Con register, un GSTIN desconocido con nombre se da de alta; sin nombre es domain.ErrNotFound.
// Un nombre distinto al registrado es domain.ErrDuplicate: el GSTIN pertenece a otra empresa.
// Sin register (borradores) se aceptan partes sin GSTIN o sin registrar con los datos del formulario.
func (uc *InvoiceUseCase) resolveParty(ctx context.Context, repo repository.CompanyRepository, role entity.PartyRole, req dto.PartyRequest, register bool) (entity.PartySnapshot, error) {
	code := gstin.Normalize(req.GSTIN)
	name := strings.TrimSpace(req.Name)
	address := strings.TrimSpace(req.Address)

	if code == "" {
		if register {
			return entity.PartySnapshot{}, fmt.Errorf("%w: falta el GSTIN de %s", domain.ErrInvalidInput, role)
		}
		return entity.PartySnapshot{Role: role, Name: name, Address: address}, nil
	}
	if err := gstin.Check(code, uc.cfg.StrictGSTIN); err != nil {
		return entity.PartySnapshot{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, role, err)
	}

	company, err := repo.GetByGSTIN(ctx, code)
	if err != nil {
		return entity.PartySnapshot{}, err
	}
	if company != nil {
		if name != "" && !strings.EqualFold(name, company.Name) {
			return entity.PartySnapshot{}, fmt.Errorf("%w: GSTIN %s ya registrado a nombre de %q", domain.ErrDuplicate, code, company.Name)
		}
		return company.Snapshot(role), nil
	}

	if !register {
		return entity.PartySnapshot{Role: role, GSTIN: code, Name: name, Address: address}, nil
	}
	if name == "" {
		return entity.PartySnapshot{}, fmt.Errorf("%w: empresa %s (%s)", domain.ErrNotFound, code, role)
	}
	now := uc.now()
	company = &entity.Company{ID: uuid.New().String(), GSTIN: code, Name: name, Address: address, CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(ctx, company); err != nil {
		return entity.PartySnapshot{}, err
	}
	return company.Snapshot(role), nil
}

func (uc *InvoiceUseCase) rates(a, b *gst.Lenient) (decimal.Decimal, decimal.Decimal) {
	rateA, rateB := uc.cfg.DefaultTaxRateA, uc.cfg.DefaultTaxRateB
	if a != nil {
		rateA = a.Decimal
	}
	if b != nil {
		rateB = b.Decimal
	}
	return rateA, rateB
}

func (uc *InvoiceUseCase) totalsResponse(t gst.Totals, rateA, rateB decimal.Decimal) *dto.TotalsResponse {
	return &dto.TotalsResponse{
		LineAmounts:   t.LineAmounts,
		Subtotal:      t.Subtotal,
		TaxRateA:      rateA,
		TaxRateB:      rateB,
		TaxAmountA:    t.TaxAmountA,
		TaxAmountB:    t.TaxAmountB,
		GrandTotal:    t.GrandTotal,
		AdvanceAmount: t.Advance,
		AmountDue:     t.AmountDue,
		AmountInWords: uc.cfg.Words(t.GrandTotal),
	}
}

func (uc *InvoiceUseCase) toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	out := &dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		Date:          inv.Date.Format(dateLayout),
		BillTo:        partyResponse(inv.BillTo),
		ShipFrom:      partyResponse(inv.ShipFrom),
		ShipTo:        partyResponse(inv.ShipTo),
		SignaturePath: inv.SignaturePath,
		Lines:         make([]dto.InvoiceLineResponse, 0, len(lines)),
	}
	amounts := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		amounts = append(amounts, l.Amount)
		out.Lines = append(out.Lines, dto.InvoiceLineResponse{
			Position:    l.Position,
			SKU:         l.SKU,
			Description: l.Description,
			HSNCode:     l.HSNCode,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	out.Totals = *uc.totalsResponse(gst.Totals{
		LineAmounts: amounts,
		Subtotal:    inv.Subtotal,
		TaxAmountA:  inv.TaxAmountA,
		TaxAmountB:  inv.TaxAmountB,
		GrandTotal:  inv.GrandTotal,
		Advance:     inv.AdvanceAmount,
		AmountDue:   inv.AmountDue(),
	}, inv.TaxRateA, inv.TaxRateB)
	return out
}

func partyResponse(p entity.PartySnapshot) dto.PartyResponse {
	return dto.PartyResponse{GSTIN: p.GSTIN, Name: p.Name, Address: p.Address}
}
