package dto

import (
	"github.com/jhoicas/invorya-gst/internal/domain/gst"
	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU       string      `json:"sku"`
	Name      string      `json:"name"`
	HSNCode   string      `json:"hsn_code"`
	UnitPrice gst.Lenient `json:"unit_price"`
}

// UpdateProductRequest body para PUT /api/products/:sku. Campos nil no se modifican.
type UpdateProductRequest struct {
	Name      *string      `json:"name,omitempty"`
	HSNCode   *string      `json:"hsn_code,omitempty"`
	UnitPrice *gst.Lenient `json:"unit_price,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID        string          `json:"id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	HSNCode   string          `json:"hsn_code"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// ProductListResponse listado paginado.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
