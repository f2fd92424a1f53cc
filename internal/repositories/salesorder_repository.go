package repositories

import (
	"database/sql"
	"fmt"
	"log"

	"atlascrm/internal/authz"
	"atlascrm/internal/models"
)

const orderColumns = `id, number, quotation_id, customer_id, id_user, assigned_to, total, status, payment_status, created_at`

type SalesOrderRepository struct {
	db *sql.DB
}

func NewSalesOrderRepository(db *sql.DB) *SalesOrderRepository {
	if db == nil {
		log.Fatalf("received nil database connection")
	}
	return &SalesOrderRepository{db: db}
}

func scanOrder(row leadScanner) (*models.SalesOrder, error) {
	o := &models.SalesOrder{}
	err := row.Scan(
		&o.ID, &o.Number, &o.QuotationID, &o.CustomerID, &o.OwnerID,
		&o.AssignedTo, &o.Total, &o.Status, &o.PaymentStatus, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *SalesOrderRepository) GetByID(id int) (*models.SalesOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales_orders WHERE id=$1`, orderColumns)
	o, err := scanOrder(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading sales order: %w", err)
	}
	return o, nil
}

func (r *SalesOrderRepository) UpdateStatus(id int, to string) error {
	if _, err := r.db.Exec(`UPDATE sales_orders SET status=$1 WHERE id=$2`, to, id); err != nil {
		return fmt.Errorf("updating sales order status: %w", err)
	}
	return nil
}

func (r *SalesOrderRepository) UpdatePaymentStatus(id int, to string) error {
	if _, err := r.db.Exec(`UPDATE sales_orders SET payment_status=$1 WHERE id=$2`, to, id); err != nil {
		return fmt.Errorf("updating payment status: %w", err)
	}
	return nil
}

func (r *SalesOrderRepository) List(f authz.Filter, limit, offset int) ([]*models.SalesOrder, error) {
	query := fmt.Sprintf(`SELECT %s FROM sales_orders`, orderColumns)
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
		return nil, fmt.Errorf("listing sales orders: %w", err)
	}
	defer rows.Close()

	var out []*models.SalesOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
