package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"atlascrm/internal/authz"
	"atlascrm/internal/models"
)

const quotationColumns = `id, number, lead_id, customer_id, id_user, assigned_to, total, status, created_at`

type QuotationRepository struct {
	db *sql.DB
}

func NewQuotationRepository(db *sql.DB) *QuotationRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &QuotationRepository{db: db}
}

func scanQuotation(row leadScanner) (*models.Quotation, error) {
	q := &models.Quotation{}
	err := row.Scan(
		&q.ID, &q.Number, &q.LeadID, &q.CustomerID, &q.OwnerID,
		&q.AssignedTo, &q.Total, &q.Status, &q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func (r *QuotationRepository) GetByID(id int) (*models.Quotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotations WHERE id=$1`, quotationColumns)
	q, err := scanQuotation(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading quotation: %w", err)
	}
	return q, nil
}

// GetByLeadID returns the latest quotation created from a lead, or nil.
func (r *QuotationRepository) GetByLeadID(leadID int) (*models.Quotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotations WHERE lead_id=$1 ORDER BY created_at DESC LIMIT 1`, quotationColumns)
	q, err := scanQuotation(r.db.QueryRow(query, leadID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading quotation by lead: %w", err)
	}
	return q, nil
}

func (r *QuotationRepository) UpdateStatus(id int, to string) error {
	if _, err := r.db.Exec(`UPDATE quotations SET status=$1 WHERE id=$2`, to, id); err != nil {
		return fmt.Errorf("updating quotation status: %w", err)
	}
	return nil
}

func (r *QuotationRepository) List(f authz.Filter, limit, offset int) ([]*models.Quotation, error) {
	query := fmt.Sprintf(`SELECT %s FROM quotations`, quotationColumns)
	args := []interface{}{}
	i := 1

	if !f.Unrestricted() {
		query += fmt.Sprintf(" WHERE (id_user = $%d OR assigned_to = $%d)", i, i)
		args = append(args, f.OwnerOrAssignee)
		i++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing quotations: %w", err)
	}
	defer rows.Close()

	var out []*models.Quotation
	for rows.Next() {
		q, err := scanQuotation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
