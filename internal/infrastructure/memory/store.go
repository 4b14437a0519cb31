// Package memory implementa los repositorios en memoria del proceso.
// Se usa con STORAGE_DRIVER=memory y en los tests de casos de uso y HTTP.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
)

// Store guarda empresas, productos y facturas protegidos por un único mutex.
// RunBilling trabaja sobre una copia y la publica solo si la función termina sin error.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

type dataset struct {
	companies map[string]*entity.Company       // por GSTIN
	products  map[string]*entity.Product       // por SKU
	invoices  map[string]*entity.Invoice       // por ID
	lines     map[string][]*entity.InvoiceLine // por InvoiceID
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: &dataset{
		companies: map[string]*entity.Company{},
		products:  map[string]*entity.Product{},
		invoices:  map[string]*entity.Invoice{},
		lines:     map[string][]*entity.InvoiceLine{},
	}}
}

// Companies, Products e Invoices devuelven repositorios fuera de transacción.
func (s *Store) Companies() *CompanyRepository { return &CompanyRepository{store: s} }
func (s *Store) Products() *ProductRepository  { return &ProductRepository{store: s} }
func (s *Store) Invoices() *InvoiceRepository  { return &InvoiceRepository{store: s} }

// RunBilling ejecuta fn con repositorios ligados a una copia del almacén.
// Si fn retorna error, la copia se descarta (rollback); si no, reemplaza al original (commit).
func (s *Store) RunBilling(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.data.clone()
	if err := fn(
		&CompanyRepository{store: s, tx: tx},
		&ProductRepository{store: s, tx: tx},
		&InvoiceRepository{store: s, tx: tx},
	); err != nil {
		return err
	}
	s.data = tx
	return nil
}

// with da acceso al dataset: el de la transacción si existe, si no el actual bajo el mutex.
func (s *Store) with(tx *dataset, fn func(d *dataset) error) error {
	if tx != nil {
		return fn(tx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		companies: make(map[string]*entity.Company, len(d.companies)),
		products:  make(map[string]*entity.Product, len(d.products)),
		invoices:  make(map[string]*entity.Invoice, len(d.invoices)),
		lines:     make(map[string][]*entity.InvoiceLine, len(d.lines)),
	}
	for k, v := range d.companies {
		c.companies[k] = copyCompany(v)
	}
	for k, v := range d.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range d.invoices {
		c.invoices[k] = copyInvoice(v)
	}
	for k, v := range d.lines {
		c.lines[k] = copyLines(v)
	}
	return c
}

// Las entidades se copian al entrar y al salir para que el llamador no mute el almacén.
func copyCompany(c *entity.Company) *entity.Company {
	cp := *c
	return &cp
}

func copyProduct(p *entity.Product) *entity.Product {
	cp := *p
	return &cp
}

func copyInvoice(i *entity.Invoice) *entity.Invoice {
	cp := *i
	return &cp
}

func copyLines(lines []*entity.InvoiceLine) []*entity.InvoiceLine {
	out := make([]*entity.InvoiceLine, len(lines))
	for i, l := range lines {
		cp := *l
		out[i] = &cp
	}
	return out
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
