package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
)

// CompanyRepository implementa repository.CompanyRepository en memoria.
type CompanyRepository struct {
	store *Store
	tx    *dataset
}

func (r *CompanyRepository) Create(ctx context.Context, c *entity.Company) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.companies[c.GSTIN]; ok {
			return domain.ErrDuplicate
		}
		d.companies[c.GSTIN] = copyCompany(c)
		return nil
	})
}

func (r *CompanyRepository) GetByGSTIN(ctx context.Context, gstin string) (*entity.Company, error) {
	var out *entity.Company
	err := r.store.with(r.tx, func(d *dataset) error {
		if c, ok := d.companies[gstin]; ok {
			out = copyCompany(c)
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepository) List(ctx context.Context, limit, offset int) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.store.with(r.tx, func(d *dataset) error {
		all := make([]*entity.Company, 0, len(d.companies))
		for _, c := range d.companies {
			all = append(all, copyCompany(c))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *CompanyRepository) Update(ctx context.Context, c *entity.Company) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.companies[c.GSTIN]; !ok {
			return domain.ErrNotFound
		}
		d.companies[c.GSTIN] = copyCompany(c)
		return nil
	})
}

// Delete replica la restricción ON DELETE RESTRICT de PostgreSQL.
func (r *CompanyRepository) Delete(ctx context.Context, gstin string) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.companies[gstin]; !ok {
			return domain.ErrNotFound
		}
		if d.companyReferenced(gstin) {
			return domain.ErrReferenced
		}
		delete(d.companies, gstin)
		return nil
	})
}

func (d *dataset) companyReferenced(gstin string) bool {
	for _, inv := range d.invoices {
		for _, p := range inv.Parties() {
			if p.GSTIN == gstin {
				return true
			}
		}
	}
	return false
}
