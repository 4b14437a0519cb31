package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product es un ítem del catálogo identificado por SKU.
type Product struct {
	ID        string
	SKU       string
	Name      string
	HSNCode   string // Harmonized System of Nomenclature
	UnitPrice decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
