package models

import "time"

// SalesOrder is created only by converting an approved quotation, never
// directly. Status and PaymentStatus are independent axes.
type SalesOrder struct {
	ID            int       `json:"id"`
	Number        string    `json:"number"`
	QuotationID   int       `json:"quotation_id"`
	CustomerID    int       `json:"customer_id"`
	OwnerID       int       `json:"id_user"`
	AssignedTo    int       `json:"assigned_to"`
	Total         float64   `json:"total"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedAt     time.Time `json:"created_at"`
}
