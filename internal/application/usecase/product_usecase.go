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
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
)

// ProductUseCase aplica reglas de negocio para el catálogo.
type ProductUseCase struct {
	repo        repository.ProductRepository
	invoiceRepo repository.InvoiceRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, invoiceRepo repository.InvoiceRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, invoiceRepo: invoiceRepo}
}

// Create crea un producto. Devuelve domain.ErrDuplicate si el SKU ya existe.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku y nombre son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: SKU %s ya existe", domain.ErrDuplicate, sku)
	}
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      name,
		HSNCode:   strings.TrimSpace(in.HSNCode),
		UnitPrice: in.UnitPrice.Round(gst.MoneyPlaces),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return entityToProductResponse(product), nil
}

// Get obtiene un producto por SKU.
func (uc *ProductUseCase) Get(ctx context.Context, sku string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return entityToProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *entityToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update actualiza nombre, HSN o precio. No afecta a facturas ya emitidas.
func (uc *ProductUseCase) Update(ctx context.Context, sku string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetBySKU(ctx, strings.TrimSpace(sku))
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: el nombre es obligatorio", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.HSNCode != nil {
		product.HSNCode = strings.TrimSpace(*in.HSNCode)
	}
	if in.UnitPrice != nil {
		product.UnitPrice = in.UnitPrice.Round(gst.MoneyPlaces)
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return entityToProductResponse(product), nil
}

// Delete elimina el producto si ninguna línea de factura lo referencia.
func (uc *ProductUseCase) Delete(ctx context.Context, sku string) error {
	sku = strings.TrimSpace(sku)
	referenced, err := uc.invoiceRepo.ExistsForProduct(ctx, sku)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("%w: el producto %s aparece en facturas emitidas", domain.ErrReferenced, sku)
	}
	return uc.repo.Delete(ctx, sku)
}

func entityToProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		HSNCode:   p.HSNCode,
		UnitPrice: p.UnitPrice,
	}
}
