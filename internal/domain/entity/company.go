package entity

import "time"

// Company es una parte comercial registrada, identificada por su GSTIN.
// El GSTIN es la clave natural: no se permiten dos registros con el mismo valor.
type Company struct {
	ID        string
	GSTIN     string
	Name      string
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot copia los datos de la empresa para el rol indicado dentro de una factura.
func (c *Company) Snapshot(role PartyRole) PartySnapshot {
	return PartySnapshot{
		Role:    role,
		GSTIN:   c.GSTIN,
		Name:    c.Name,
		Address: c.Address,
	}
}
