package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/invorya-gst/internal/application/dto"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
	"github.com/jhoicas/invorya-gst/pkg/gstin"
)

// CompanyUseCase aplica reglas de negocio para empresas (partes de la factura).
type CompanyUseCase struct {
	repo        repository.CompanyRepository
	invoiceRepo repository.InvoiceRepository
	strictGSTIN bool
}

// NewCompanyUseCase construye el caso de uso. strictGSTIN exige además el carácter de control.
func NewCompanyUseCase(repo repository.CompanyRepository, invoiceRepo repository.InvoiceRepository, strictGSTIN bool) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, invoiceRepo: invoiceRepo, strictGSTIN: strictGSTIN}
}

// Create registra una empresa. Devuelve domain.ErrDuplicate si el GSTIN ya existe, aunque el nombre coincida.
func (uc *CompanyUseCase) Create(ctx context.Context, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	code := gstin.Normalize(in.GSTIN)
	if err := gstin.Check(code, uc.strictGSTIN); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetByGSTIN(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: GSTIN %s ya registrado a nombre de %q", domain.ErrDuplicate, code, existing.Name)
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		GSTIN:     code,
		Name:      name,
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// Get obtiene una empresa por GSTIN.
func (uc *CompanyUseCase) Get(ctx context.Context, code string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByGSTIN(ctx, gstin.Normalize(code))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.CompanyListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica nombre y datos de contacto. Las facturas ya emitidas conservan su copia.
func (uc *CompanyUseCase) Update(ctx context.Context, code string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByGSTIN(ctx, gstin.Normalize(code))
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		company.Name = name
	}
	if in.Address != nil {
		company.Address = strings.TrimSpace(*in.Address)
	}
	if in.Phone != nil {
		company.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Email != nil {
		company.Email = strings.TrimSpace(*in.Email)
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// Delete elimina la empresa si ninguna factura la referencia (domain.ErrReferenced en caso contrario).
func (uc *CompanyUseCase) Delete(ctx context.Context, code string) error {
	code = gstin.Normalize(code)
	referenced, err := uc.invoiceRepo.ExistsForCompany(ctx, code)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: la empresa %s aparece en facturas emitidas", domain.ErrReferenced, code)
	}
	return uc.repo.Delete(ctx, code)
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	return &dto.CompanyResponse{
		ID:      c.ID,
		GSTIN:   c.GSTIN,
		Name:    c.Name,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
	}
}
