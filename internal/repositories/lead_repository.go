package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/lib/pq"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/status"
)

const leadColumns = `id, ref_number, customer_name, lead_name, contact, email, phone,
	type, company, location, source, product_interest, note, status,
	customer_id, id_user, assigned_to, created_at`

type LeadRepository struct {
	db *sql.DB
}

func NewLeadRepository(db *sql.DB) *LeadRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &LeadRepository{db: db}
}

type leadScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(row leadScanner) (*models.Lead, error) {
	l := &models.Lead{}
	err := row.Scan(
		&l.ID, &l.RefNumber, &l.CustomerName, &l.LeadName, &l.Contact,
		&l.Email, &l.Phone, &l.Type, &l.Company, &l.Location, &l.Source,
		&l.ProductInterest, &l.Note, &l.Status, &l.CustomerID,
		&l.OwnerID, &l.AssignedTo, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LeadRepository) Create(lead *models.Lead) error {
	const query = `
		INSERT INTO leads (ref_number, customer_name, lead_name, contact, email, phone,
			type, company, location, source, product_interest, note, status,
			customer_id, id_user, assigned_to, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id
	`
	err := r.db.QueryRow(query,
		lead.RefNumber, lead.CustomerName, lead.LeadName, lead.Contact,
		lead.Email, lead.Phone, lead.Type, lead.Company, lead.Location,
		lead.Source, lead.ProductInterest, lead.Note, lead.Status,
		lead.CustomerID, lead.OwnerID, lead.AssignedTo, lead.CreatedAt,
	).Scan(&lead.ID)
	if err != nil {
		return fmt.Errorf("creating lead: %w", err)
	}
	return nil
}

func (r *LeadRepository) GetByID(id int) (*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE id=$1`, leadColumns)
	lead, err := scanLead(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading lead: %w", err)
	}
	return lead, nil
}

// mutableColumns whitelists the columns UpdateField may touch. The policy
// layer decides permission; this guards against SQL injection through the
// field name the same way the sort whitelist does in list queries.
var mutableColumns = map[string]bool{
	"status":           true,
	"assigned_to":      true,
	"note":             true,
	"product_interest": true,
	"customer_id":      true,
}

func (r *LeadRepository) UpdateField(id int, column string, value interface{}) error {
	if !mutableColumns[column] {
		return apperrors.Validation(fmt.Sprintf("field %q is not updatable", column))
	}
	query := fmt.Sprintf(`UPDATE leads SET %s=$1 WHERE id=$2`, column)
	if _, err := r.db.Exec(query, value, id); err != nil {
		return fmt.Errorf("updating lead %s: %w", column, err)
	}
	return nil
}

func (r *LeadRepository) Delete(id int) error {
	if _, err := r.db.Exec(`DELETE FROM leads WHERE id=$1`, id); err != nil {
		return fmt.Errorf("deleting lead: %w", err)
	}
	return nil
}

// List returns the records of one pipeline phase, with the visibility
// filter compiled into the WHERE clause. Rows are matched against every
// accepted spelling of the phase's stages so legacy data stays visible.
func (r *LeadRepository) List(f authz.Filter, phase status.Phase, limit, offset int) ([]*models.Lead, error) {
	query := fmt.Sprintf(`SELECT %s FROM leads WHERE LOWER(status) = ANY($1)`, leadColumns)
	args := []interface{}{pq.Array(status.PipelineRawValues(phase))}
	i := 2

	if !f.Unrestricted() {
		query += fmt.Sprintf(" AND (id_user = $%d OR assigned_to = $%d)", i, i)
		args = append(args, f.OwnerOrAssignee)
		i++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", i, i+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var out []*models.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
