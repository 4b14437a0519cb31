package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/invorya-gst/internal/domain"
	"github.com/jhoicas/invorya-gst/internal/domain/entity"
	"github.com/jhoicas/invorya-gst/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, number, invoice_date,
	bill_to_gstin, bill_to_name, bill_to_address,
	ship_from_gstin, ship_from_name, ship_from_address,
	ship_to_gstin, ship_to_name, ship_to_address,
	advance_amount, signature_path, tax_rate_a, tax_rate_b,
	subtotal, tax_amount_a, tax_amount_b, grand_total, created_at, updated_at`

// Create persiste la cabecera con la copia de las tres partes.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	query := `INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.Number, inv.Date,
		inv.BillTo.GSTIN, inv.BillTo.Name, inv.BillTo.Address,
		inv.ShipFrom.GSTIN, inv.ShipFrom.Name, inv.ShipFrom.Address,
		inv.ShipTo.GSTIN, inv.ShipTo.Name, inv.ShipTo.Address,
		inv.AdvanceAmount, inv.SignaturePath, inv.TaxRateA, inv.TaxRateB,
		inv.Subtotal, inv.TaxAmountA, inv.TaxAmountB, inv.GrandTotal, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert invoice", err)
	}
	return nil
}

// CreateLine persiste una línea; sku NULL para ítems libres.
func (r *InvoiceRepo) CreateLine(ctx context.Context, l *entity.InvoiceLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, position, sku, description, hsn_code, quantity, unit_price, amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.InvoiceID, l.Position, nullIfEmpty(l.SKU), l.Description, l.HSNCode,
		l.Quantity, l.UnitPrice, l.Amount,
	)
	if err != nil {
		return mapWriteError("insert invoice line", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE number = $1`
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice by number: %w", err)
	}
	return inv, nil
}

func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, position, COALESCE(sku, ''), description, hsn_code, quantity, unit_price, amount
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.Position, &l.SKU, &l.Description, &l.HSNCode, &l.Quantity, &l.UnitPrice, &l.Amount); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

func (r *InvoiceRepo) List(ctx context.Context, limit, offset int) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		ORDER BY invoice_date DESC, length(number) DESC, number DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limitOrAll(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateDateAndAdvance es la única edición permitida tras la emisión.
func (r *InvoiceRepo) UpdateDateAndAdvance(ctx context.Context, inv *entity.Invoice) error {
	query := `UPDATE invoices SET invoice_date = $2, advance_amount = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, inv.Date, inv.AdvanceAmount, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete borra líneas y cabecera; llamar dentro de RunBilling para que sea atómico.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice lines: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LastNumber ordena por longitud primero: la secuencia puede superar 4 dígitos.
func (r *InvoiceRepo) LastNumber(ctx context.Context, prefix string) (string, error) {
	query := `
		SELECT number FROM invoices WHERE number LIKE $1 || '%'
		ORDER BY length(number) DESC, number DESC LIMIT 1`
	var number string
	err := r.q.QueryRow(ctx, query, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last invoice number: %w", err)
	}
	return number, nil
}

func (r *InvoiceRepo) ExistsForCompany(ctx context.Context, gstin string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE bill_to_gstin = $1 OR ship_from_gstin = $1 OR ship_to_gstin = $1
		)`
	var exists bool
	if err := r.q.QueryRow(ctx, query, gstin).Scan(&exists); err != nil {
		return false, fmt.Errorf("company referenced: %w", err)
	}
	return exists, nil
}

func (r *InvoiceRepo) ExistsForProduct(ctx context.Context, sku string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoice_lines WHERE sku = $1)`, sku).Scan(&exists); err != nil {
		return false, fmt.Errorf("product referenced: %w", err)
	}
	return exists, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.Number, &inv.Date,
		&inv.BillTo.GSTIN, &inv.BillTo.Name, &inv.BillTo.Address,
		&inv.ShipFrom.GSTIN, &inv.ShipFrom.Name, &inv.ShipFrom.Address,
		&inv.ShipTo.GSTIN, &inv.ShipTo.Name, &inv.ShipTo.Address,
		&inv.AdvanceAmount, &inv.SignaturePath, &inv.TaxRateA, &inv.TaxRateB,
		&inv.Subtotal, &inv.TaxAmountA, &inv.TaxAmountB, &inv.GrandTotal, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	inv.BillTo.Role = entity.PartyBillTo
	inv.ShipFrom.Role = entity.PartyShipFrom
	inv.ShipTo.Role = entity.PartyShipTo
	return &inv, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
