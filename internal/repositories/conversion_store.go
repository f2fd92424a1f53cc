package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/models"
	"atlascrm/internal/services"
)

// ConversionStore runs conversions inside a single database transaction.
// The source row is taken with FOR UPDATE so two concurrent conversions of
// the same record serialize: the loser re-reads the already-advanced stage
// and fails its precondition instead of creating a second downstream row.
type ConversionStore struct {
	db *sql.DB
}

func NewConversionStore(db *sql.DB) *ConversionStore {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &ConversionStore{db: db}
}

func (s *ConversionStore) WithinTx(ctx context.Context, fn func(tx services.ConversionTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting conversion tx: %w", err)
	}
	if err := fn(&conversionTx{tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return translatePQ(err)
	}
	return nil
}

type conversionTx struct {
	tx *sql.Tx
}

// translatePQ maps a Postgres unique violation (duplicate quotation/order
// number or a second conversion racing past the row lock) to the typed
// conflict error.
func translatePQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", apperrors.ErrConflictOnConvert, pqErr.Constraint)
	}
	return err
}

func (t *conversionTx) LockLead(id int) (*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id=$1 FOR UPDATE`, leadColumns)
	lead, err := scanLead(t.tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locking lead: %w", err)
	}
	return lead, nil
}

func (t *conversionTx) StampLeadStatus(id int, to string) error {
	if _, err := t.tx.Exec(`UPDATE leads SET status=$1 WHERE id=$2`, to, id); err != nil {
		return fmt.Errorf("stamping lead status: %w", err)
	}
	return nil
}

func (t *conversionTx) CreateQuotation(q *models.Quotation) error {
	const query = `
		INSERT INTO quotations (number, lead_id, customer_id, id_user, assigned_to, total, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id
	`
	err := t.tx.QueryRow(query,
		q.Number, q.LeadID, q.CustomerID, q.OwnerID, q.AssignedTo,
		q.Total, q.Status, q.CreatedAt,
	).Scan(&q.ID)
	if err != nil {
		return translatePQ(fmt.Errorf("creating quotation: %w", err))
	}
	return nil
}

func (t *conversionTx) LockQuotation(id int) (*models.Quotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotations WHERE id=$1 FOR UPDATE`, quotationColumns)
	q, err := scanQuotation(t.tx.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locking quotation: %w", err)
	}
	return q, nil
}

func (t *conversionTx) StampQuotationStatus(id int, to string) error {
	if _, err := t.tx.Exec(`UPDATE quotations SET status=$1 WHERE id=$2`, to, id); err != nil {
		return fmt.Errorf("stamping quotation status: %w", err)
	}
	return nil
}

func (t *conversionTx) CreateSalesOrder(o *models.SalesOrder) error {
	const query = `
		INSERT INTO sales_orders (number, quotation_id, customer_id, id_user, assigned_to, total, status, payment_status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING id
	`
	err := t.tx.QueryRow(query,
		o.Number, o.QuotationID, o.CustomerID, o.OwnerID, o.AssignedTo,
		o.Total, o.Status, o.PaymentStatus, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return translatePQ(fmt.Errorf("creating sales order: %w", err))
	}
	return nil
}

func (t *conversionTx) PricesByNames(names []string) (map[string]float64, error) {
	out := make(map[string]float64, len(names))
	if len(names) == 0 {
		return out, nil
	}
	rows, err := t.tx.Query(`SELECT name, price FROM products WHERE name = ANY($1)`, pq.Array(names))
	if err != nil {
		return nil, fmt.Errorf("loading catalog prices: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var price float64
		if err := rows.Scan(&name, &price); err != nil {
			return nil, err
		}
		out[name] = price
	}
	return out, rows.Err()
}
