package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bukubesar/bukubesar/internal/apperrors"
	"github.com/bukubesar/bukubesar/internal/core/domain"
	portsrepo "github.com/bukubesar/bukubesar/internal/core/ports/repositories"
)

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for contacts, invoices,
// bills and payments.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepository = (*PgxDocumentRepository)(nil)

const contactColumns = `contact_id, name, type, email, phone, created_at, created_by, last_updated_at, last_updated_by`

const invoiceColumns = `invoice_id, invoice_number, contact_id, issue_date, due_date, subtotal, tax_amount, total_amount, paid_amount, status, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const billColumns = `bill_id, bill_number, contact_id, issue_date, due_date, subtotal, tax_amount, total_amount, paid_amount, status, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const paymentColumns = `payment_id, payment_number, direction, contact_id, invoice_id, bill_id, payment_date, amount, journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

func scanContact(row pgx.Row) (*domain.Contact, error) {
	var c domain.Contact
	err := row.Scan(
		&c.ContactID,
		&c.Name,
		&c.Type,
		&c.Email,
		&c.Phone,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan contact", err)
	}
	return &c, nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.InvoiceID,
		&inv.InvoiceNumber,
		&inv.ContactID,
		&inv.IssueDate,
		&inv.DueDate,
		&inv.Subtotal,
		&inv.TaxAmount,
		&inv.TotalAmount,
		&inv.PaidAmount,
		&inv.Status,
		&inv.JournalEntryID,
		&inv.CreatedAt,
		&inv.CreatedBy,
		&inv.LastUpdatedAt,
		&inv.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan invoice", err)
	}
	return &inv, nil
}

func scanBill(row pgx.Row) (*domain.Bill, error) {
	var b domain.Bill
	err := row.Scan(
		&b.BillID,
		&b.BillNumber,
		&b.ContactID,
		&b.IssueDate,
		&b.DueDate,
		&b.Subtotal,
		&b.TaxAmount,
		&b.TotalAmount,
		&b.PaidAmount,
		&b.Status,
		&b.JournalEntryID,
		&b.CreatedAt,
		&b.CreatedBy,
		&b.LastUpdatedAt,
		&b.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan bill", err)
	}
	return &b, nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.PaymentID,
		&p.PaymentNumber,
		&p.Direction,
		&p.ContactID,
		&p.InvoiceID,
		&p.BillID,
		&p.PaymentDate,
		&p.Amount,
		&p.JournalEntryID,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan payment", err)
	}
	return &p, nil
}

// SaveContact inserts a new contact.
func (r *PgxDocumentRepository) SaveContact(ctx context.Context, contact domain.Contact) error {
	query := `INSERT INTO contacts (` + contactColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`
	_, err := r.Pool.Exec(ctx, query,
		contact.ContactID,
		contact.Name,
		contact.Type,
		contact.Email,
		contact.Phone,
		contact.CreatedAt,
		contact.CreatedBy,
		contact.LastUpdatedAt,
		contact.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert contact "+contact.ContactID, err)
	}
	return nil
}

// FindContactByID retrieves a contact.
func (r *PgxDocumentRepository) FindContactByID(ctx context.Context, contactID string) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = $1;`
	return scanContact(r.Pool.QueryRow(ctx, query, contactID))
}

// FindContactsByIDs retrieves a batch of contacts keyed by ID.
func (r *PgxDocumentRepository) FindContactsByIDs(ctx context.Context, contactIDs []string) (map[string]domain.Contact, error) {
	if len(contactIDs) == 0 {
		return map[string]domain.Contact{}, nil
	}
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE contact_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, contactIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query contacts", err)
	}
	defer rows.Close()

	contacts := make(map[string]domain.Contact, len(contactIDs))
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts[contact.ContactID] = *contact
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate contacts", err)
	}
	return contacts, nil
}

// SaveInvoice inserts a new invoice.
func (r *PgxDocumentRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	query := `INSERT INTO invoices (` + invoiceColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.Pool.Exec(ctx, query,
		invoice.InvoiceID,
		invoice.InvoiceNumber,
		invoice.ContactID,
		invoice.IssueDate,
		invoice.DueDate,
		invoice.Subtotal,
		invoice.TaxAmount,
		invoice.TotalAmount,
		invoice.PaidAmount,
		invoice.Status,
		invoice.JournalEntryID,
		invoice.CreatedAt,
		invoice.CreatedBy,
		invoice.LastUpdatedAt,
		invoice.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice number %s", apperrors.ErrDuplicate, invoice.InvoiceNumber)
		}
		return apperrors.NewAppError(500, "failed to insert invoice "+invoice.InvoiceID, err)
	}
	return nil
}

// FindInvoiceByID retrieves an invoice.
func (r *PgxDocumentRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE invoice_id = $1;`
	return scanInvoice(r.Pool.QueryRow(ctx, query, invoiceID))
}

// ListOpenInvoices returns posted, not fully paid invoices issued on or
// before the as-of date.
func (r *PgxDocumentRepository) ListOpenInvoices(ctx context.Context, asOf time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE journal_entry_id IS NOT NULL
		  AND status NOT IN ('PAID', 'VOID')
		  AND issue_date <= $1
		ORDER BY due_date;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query open invoices", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *invoice)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate open invoices", err)
	}
	return invoices, nil
}

// SaveBill inserts a new bill.
func (r *PgxDocumentRepository) SaveBill(ctx context.Context, bill domain.Bill) error {
	query := `INSERT INTO bills (` + billColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`
	_, err := r.Pool.Exec(ctx, query,
		bill.BillID,
		bill.BillNumber,
		bill.ContactID,
		bill.IssueDate,
		bill.DueDate,
		bill.Subtotal,
		bill.TaxAmount,
		bill.TotalAmount,
		bill.PaidAmount,
		bill.Status,
		bill.JournalEntryID,
		bill.CreatedAt,
		bill.CreatedBy,
		bill.LastUpdatedAt,
		bill.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: bill number %s", apperrors.ErrDuplicate, bill.BillNumber)
		}
		return apperrors.NewAppError(500, "failed to insert bill "+bill.BillID, err)
	}
	return nil
}

// FindBillByID retrieves a bill.
func (r *PgxDocumentRepository) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = $1;`
	return scanBill(r.Pool.QueryRow(ctx, query, billID))
}

// ListOpenBills returns posted, not fully paid bills issued on or before
// the as-of date.
func (r *PgxDocumentRepository) ListOpenBills(ctx context.Context, asOf time.Time) ([]domain.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE journal_entry_id IS NOT NULL
		  AND status NOT IN ('PAID', 'VOID')
		  AND issue_date <= $1
		ORDER BY due_date;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query open bills", err)
	}
	defer rows.Close()

	var bills []domain.Bill
	for rows.Next() {
		bill, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, *bill)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate open bills", err)
	}
	return bills, nil
}

// SavePayment inserts a new payment.
func (r *PgxDocumentRepository) SavePayment(ctx context.Context, payment domain.Payment) error {
	query := `INSERT INTO payments (` + paymentColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);`
	_, err := r.Pool.Exec(ctx, query,
		payment.PaymentID,
		payment.PaymentNumber,
		payment.Direction,
		payment.ContactID,
		payment.InvoiceID,
		payment.BillID,
		payment.PaymentDate,
		payment.Amount,
		payment.JournalEntryID,
		payment.CreatedAt,
		payment.CreatedBy,
		payment.LastUpdatedAt,
		payment.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert payment "+payment.PaymentID, err)
	}
	return nil
}

// FindPaymentByID retrieves a payment.
func (r *PgxDocumentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE payment_id = $1;`
	return scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
}

// SumPaymentFlows totals posted RECEIVE and PAY payment amounts dated
// inside the range.
func (r *PgxDocumentRepository) SumPaymentFlows(ctx context.Context, start, end time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE direction = 'RECEIVE'), 0),
			COALESCE(SUM(amount) FILTER (WHERE direction = 'PAY'), 0)
		FROM payments
		WHERE journal_entry_id IS NOT NULL
		  AND payment_date >= $1 AND payment_date <= $2;
	`
	var receipts, disbursements decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, start, end).Scan(&receipts, &disbursements); err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum payment flows", err)
	}
	return receipts, disbursements, nil
}

// insertPostedEntry writes a posted journal entry with its lines inside the
// caller's transaction and returns the assigned entry number.
func insertPostedEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) (string, error) {
	var entryNumber string
	err := tx.QueryRow(ctx, insertEntryQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Description,
		entry.Reference,
		entry.IsPosted,
		entry.IsReversed,
		entry.OriginalEntryID,
		entry.ReversingEntryID,
		entry.FiscalPeriodID,
		entry.CreatedAt,
		entry.CreatedBy,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	).Scan(&entryNumber)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to insert journal entry "+entry.EntryID, err)
	}
	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// PostInvoiceJournal writes the posted entry, links it to the invoice and
// flips the status, all in one transaction. The invoice update is guarded
// on journal_entry_id IS NULL so a concurrent poster fails with
// apperrors.ErrAlreadyPosted.
func (r *PgxDocumentRepository) PostInvoiceJournal(ctx context.Context, invoice domain.Invoice, entry domain.JournalEntry) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	entryNumber, err := insertPostedEntry(ctx, tx, entry)
	if err != nil {
		return "", err
	}

	query := `
		UPDATE invoices
		SET journal_entry_id = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE invoice_id = $1 AND journal_entry_id IS NULL;
	`
	tag, err := tx.Exec(ctx, query, invoice.InvoiceID, entry.EntryID, domain.StatusSent, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to link journal entry to invoice "+invoice.InvoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.ErrAlreadyPosted
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// PostBillJournal is the payable mirror of PostInvoiceJournal.
func (r *PgxDocumentRepository) PostBillJournal(ctx context.Context, bill domain.Bill, entry domain.JournalEntry) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	entryNumber, err := insertPostedEntry(ctx, tx, entry)
	if err != nil {
		return "", err
	}

	query := `
		UPDATE bills
		SET journal_entry_id = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE bill_id = $1 AND journal_entry_id IS NULL;
	`
	tag, err := tx.Exec(ctx, query, bill.BillID, entry.EntryID, domain.StatusReceived, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to link journal entry to bill "+bill.BillID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.ErrAlreadyPosted
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// PostPaymentJournal writes the posted entry, links it to the payment, and
// increments the settled document's paid amount, all in one transaction.
// The increment is guarded on paid_amount + amount <= total_amount against
// the current row, so a concurrent settlement that would overpay fails with
// apperrors.ErrOverpayment and rolls back the entry. Status derives from
// the post-increment amount: PAID on full settlement, PARTIAL otherwise.
func (r *PgxDocumentRepository) PostPaymentJournal(ctx context.Context, payment domain.Payment, entry domain.JournalEntry, invoice *domain.Invoice, bill *domain.Bill) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	entryNumber, err := insertPostedEntry(ctx, tx, entry)
	if err != nil {
		return "", err
	}

	paymentQuery := `
		UPDATE payments
		SET journal_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE payment_id = $1 AND journal_entry_id IS NULL;
	`
	tag, err := tx.Exec(ctx, paymentQuery, payment.PaymentID, entry.EntryID, entry.LastUpdatedAt, entry.LastUpdatedBy)
	if err != nil {
		return "", apperrors.NewAppError(500, "failed to link journal entry to payment "+payment.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return "", apperrors.ErrAlreadyPosted
	}

	switch {
	case invoice != nil:
		query := `
			UPDATE invoices
			SET paid_amount = paid_amount + $2,
			    status = CASE WHEN paid_amount + $2 = total_amount THEN $3 ELSE $4 END,
			    last_updated_at = $5, last_updated_by = $6
			WHERE invoice_id = $1 AND paid_amount + $2 <= total_amount;
		`
		tag, err := tx.Exec(ctx, query, invoice.InvoiceID, payment.Amount, domain.StatusPaid, domain.StatusPartial, entry.LastUpdatedAt, entry.LastUpdatedBy)
		if err != nil {
			return "", apperrors.NewAppError(500, "failed to update invoice "+invoice.InvoiceID, err)
		}
		if tag.RowsAffected() == 0 {
			return "", fmt.Errorf("%w: invoice %s", apperrors.ErrOverpayment, invoice.InvoiceNumber)
		}
	case bill != nil:
		query := `
			UPDATE bills
			SET paid_amount = paid_amount + $2,
			    status = CASE WHEN paid_amount + $2 = total_amount THEN $3 ELSE $4 END,
			    last_updated_at = $5, last_updated_by = $6
			WHERE bill_id = $1 AND paid_amount + $2 <= total_amount;
		`
		tag, err := tx.Exec(ctx, query, bill.BillID, payment.Amount, domain.StatusPaid, domain.StatusPartial, entry.LastUpdatedAt, entry.LastUpdatedBy)
		if err != nil {
			return "", apperrors.NewAppError(500, "failed to update bill "+bill.BillID, err)
		}
		if tag.RowsAffected() == 0 {
			return "", fmt.Errorf("%w: bill %s", apperrors.ErrOverpayment, bill.BillNumber)
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}
