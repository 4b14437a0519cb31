package usecase_test

import (
	"context"
	"testing"

	"github.com/jhoicas/invorya-gst/internal/application/dto"
	"github.com/jhoicas/invorya-gst/internal/application/usecase"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
	"github.com/jhoicas/invorya-gst/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	gstinAcme = "27AAPFU0939F1ZV"
	gstinBeta = "29AAGCB7383J1Z4"
)

func newCompanyUC(s *memory.Store, strict bool) *usecase.CompanyUseCase {
	return usecase.NewCompanyUseCase(s.Companies(), s.Invoices(), strict)
}

func TestCompanyUseCase_GSTINDuplicadoRechazado(t *testing.T) {
	s := memory.NewStore()
	uc := newCompanyUC(s, false)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCompanyRequest{GSTIN: gstinAcme, Name: "Acme Traders", Address: "Pune"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateCompanyRequest{GSTIN: gstinAcme, Name: "Otra Razón Social"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := uc.Get(ctx, gstinAcme)
	require.NoError(t, err)
	assert.Equal(t, "Acme Traders", got.Name, "el primer registro no cambia")
	assert.Equal(t, "Pune", got.Address)
}

func TestCompanyUseCase_ValidaFormatoYControl(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	_, err := newCompanyUC(s, false).Create(ctx, dto.CreateCompanyRequest{GSTIN: "21EQQS1807D1Z", Name: "Corto"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "14 caracteres no es un GSTIN")

	_, err = newCompanyUC(s, true).Create(ctx, dto.CreateCompanyRequest{GSTIN: "27AAPFU0939F1ZA", Name: "Control malo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "en modo estricto se verifica el carácter de control")

	created, err := newCompanyUC(s, false).Create(ctx, dto.CreateCompanyRequest{GSTIN: " 27aapfu0939f1za ", Name: "Laxo"})
	require.NoError(t, err, "sin modo estricto basta el formato")
	assert.Equal(t, "27AAPFU0939F1ZA", created.GSTIN, "se normaliza a mayúsculas")
}

func TestCompanyUseCase_UpdateYDelete(t *testing.T) {
	s := memory.NewStore()
	uc := newCompanyUC(s, false)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateCompanyRequest{GSTIN: gstinBeta, Name: "Beta"})
	require.NoError(t, err)

	addr := "Bengaluru"
	updated, err := uc.Update(ctx, gstinBeta, dto.UpdateCompanyRequest{Address: &addr})
	require.NoError(t, err)
	assert.Equal(t, "Beta", updated.Name)
	assert.Equal(t, "Bengaluru", updated.Address)

	require.NoError(t, uc.Delete(ctx, gstinBeta))
	_, err = uc.Get(ctx, gstinBeta)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, gstinBeta), domain.ErrNotFound)
}

func TestCompanyUseCase_List(t *testing.T) {
	s := memory.NewStore()
	uc := newCompanyUC(s, false)
	ctx := context.Background()
	for _, c := range []dto.CreateCompanyRequest{{GSTIN: gstinBeta, Name: "Beta"}, {GSTIN: gstinAcme, Name: "Acme"}} {
		_, err := uc.Create(ctx, c)
		require.NoError(t, err)
	}

	page, err := uc.List(ctx, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Acme", page.Items[0].Name, "ordenado por nombre")
	assert.Equal(t, 1, page.Page.Limit)
}

func TestProductUseCase_SKUDuplicado(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewProductUseCase(s.Products(), s.Invoices())
	ctx := context.Background()

	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "VFD-01", Name: "VFD PANEL", HSNCode: "8537", UnitPrice: gst.NewLenient(decimal.RequireFromString("112000.004"))})
	require.NoError(t, err)
	assert.Equal(t, "112000.00", p.UnitPrice.StringFixed(2))

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "VFD-01", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: " ", Name: "Sin SKU"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUseCase_BorradoReferenciadoRechazado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	products := usecase.NewProductUseCase(s.Products(), s.Invoices())
	companies := newCompanyUC(s, false)

	_, err := products.Create(ctx, dto.CreateProductRequest{SKU: "VFD-01", Name: "VFD PANEL", UnitPrice: gst.NewLenient(decimal.NewFromInt(100))})
	require.NoError(t, err)
	acme, err := companies.Create(ctx, dto.CreateCompanyRequest{GSTIN: gstinAcme, Name: "Acme"})
	require.NoError(t, err)

	snap := entity.PartySnapshot{GSTIN: acme.GSTIN, Name: acme.Name}
	err = s.RunBilling(ctx, func(_ repository.CompanyRepository, _ repository.ProductRepository, invoices repository.InvoiceRepository) error {
		inv := &entity.Invoice{ID: "inv-1", Number: "INV-20240315-0001", BillTo: snap, ShipFrom: snap, ShipTo: snap}
		if err := invoices.Create(ctx, inv); err != nil {
			return err
		}
		return invoices.CreateLine(ctx, &entity.InvoiceLine{ID: "l1", InvoiceID: inv.ID, Position: 1, SKU: "VFD-01"})
	})
	require.NoError(t, err)

	assert.ErrorIs(t, products.Delete(ctx, "VFD-01"), domain.ErrReferenced)
	still, err := products.Get(ctx, "VFD-01")
	require.NoError(t, err)
	assert.Equal(t, "VFD PANEL", still.Name, "el producto sigue almacenado")

	assert.ErrorIs(t, companies.Delete(ctx, gstinAcme), domain.ErrReferenced)
}

func TestProductUseCase_Update(t *testing.T) {
	s := memory.NewStore()
	uc := usecase.NewProductUseCase(s.Products(), s.Invoices())
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "CBL-2", Name: "Cable"})
	require.NoError(t, err)

	price := gst.NewLenient(decimal.RequireFromString("45.5"))
	updated, err := uc.Update(ctx, "CBL-2", dto.UpdateProductRequest{UnitPrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "45.50", updated.UnitPrice.StringFixed(2))

	_, err = uc.Update(ctx, "NOPE", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
