package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
)

// ProductRepository implementa repository.ProductRepository en memoria.
type ProductRepository struct {
	store *Store
	tx    *dataset
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.products[p.SKU]; ok {
			return domain.ErrDuplicate
		}
		d.products[p.SKU] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	var out *entity.Product
	err := r.store.with(r.tx, func(d *dataset) error {
		if p, ok := d.products[sku]; ok {
			out = copyProduct(p)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.store.with(r.tx, func(d *dataset) error {
		all := make([]*entity.Product, 0, len(d.products))
		for _, p := range d.products {
			all = append(all, copyProduct(p))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.products[p.SKU]; !ok {
			return domain.ErrNotFound
		}
		d.products[p.SKU] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, sku string) error {
	return r.store.with(r.tx, func(d *dataset) error {
		if _, ok := d.products[sku]; !ok {
			return domain.ErrNotFound
		}
		if d.productReferenced(sku) {
			return domain.ErrReferenced
		}
		delete(d.products, sku)
		return nil
	})
}

func (d *dataset) productReferenced(sku string) bool {
	for _, lines := range d.lines {
		for _, l := range lines {
			if l.SKU == sku {
				return true
			}
		}
	}
	return false
}
