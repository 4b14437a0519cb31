package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
)

// InvoiceRepository implementa repository.InvoiceRepository en memoria.
type InvoiceRepository struct {
	store *Store
	tx    *dataset
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	return r.store.with(r.tx, func(d *dataset) error {
		for _, existing := range d.invoices {
			if existing.Number == inv.Number {
				return domain.ErrDuplicate
			}
		}
		for _, p := range inv.Parties() {
			if _, ok := d.companies[p.GSTIN]; !ok {
				return domain.ErrNotFound
			}
		}
		d.invoices[inv.ID] = copyInvoice(inv)
		return nil
	})
}

func (r *InvoiceRepository) CreateLine(ctx context.Context, line *entity.InvoiceLine) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.invoices[line.InvoiceID]; !ok {
			return domain.ErrNotFound
		}
		if line.SKU != "" {
			if _, ok := d.products[line.SKU]; !ok {
				return domain.ErrNotFound
			}
		}
		for _, l := range d.lines[line.InvoiceID] {
			if l.Position == line.Position {
				return domain.ErrDuplicate
			}
		}
		cp := *line
		d.lines[line.InvoiceID] = append(d.lines[line.InvoiceID], &cp)
		return nil
	})
}

func (r *InvoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.store.with(r.tx, func(d *dataset) error {
		for _, inv := range d.invoices {
			if inv.Number == number {
				out = copyInvoice(inv)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InvoiceRepository) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	var out []*entity.InvoiceLine
	err := r.store.with(r.tx, func(d *dataset) error {
		out = copyLines(d.lines[invoiceID])
		sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
		return nil
	})
	return out, err
}

// List ordena por fecha descendente y número descendente, igual que el adaptador SQL.
func (r *InvoiceRepository) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.store.with(r.tx, func(d *dataset) error {
		all := make([]*entity.Invoice, 0, len(d.invoices))
		for _, inv := range d.invoices {
			all = append(all, copyInvoice(inv))
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].Date.Equal(all[j].Date) {
				return all[i].Date.After(all[j].Date)
			}
			return all[i].Number > all[j].Number
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *InvoiceRepository) UpdateDateAndAdvance(ctx context.Context, inv *entity.Invoice) error {
	return r.store.with(r.tx, func(d *dataset) error {
		stored, ok := d.invoices[inv.ID]
		if !ok {
			return domain.ErrNotFound
		}
		stored.Date = inv.Date
		stored.AdvanceAmount = inv.AdvanceAmount
		stored.UpdatedAt = inv.UpdatedAt
		return nil
	})
}

func (r *InvoiceRepository) Delete(ctx context.Context, id string) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.invoices[id]; !ok {
			return domain.ErrNotFound
		}
		delete(d.lines, id)
		delete(d.invoices, id)
		return nil
	})
}

func (r *InvoiceRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	var last string
	err := r.store.with(r.tx, func(d *dataset) error {
		for _, inv := range d.invoices {
			if strings.HasPrefix(inv.Number, prefix) && numberAfter(inv.Number, last) {
				last = inv.Number
			}
		}
		return nil
	})
	return last, err
}

func (r *InvoiceRepository) ExistsForCompany(ctx context.Context, gstin string) (bool, error) {
	var found bool
	err := r.store.with(r.tx, func(d *dataset) error {
		found = d.companyReferenced(gstin)
		return nil
	})
	return found, err
}

func (r *InvoiceRepository) ExistsForProduct(ctx context.Context, sku string) (bool, error) {
	var found bool
	err := r.store.with(r.tx, func(d *dataset) error {
		found = d.productReferenced(sku)
		return nil
	})
	return found, err
}

// numberAfter compara primero por longitud: la secuencia puede superar 4 dígitos.
func numberAfter(a, b string) bool {
	if len(a) != len(b) {
		return len(a) > len(b)
	}
	return a > b
}
