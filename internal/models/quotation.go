package models

import "time"

// Quotation is created only by converting a Prospecting opportunity.
type Quotation struct {
	ID         int       `json:"id"`
	Number     string    `json:"number"`
	LeadID     int       `json:"lead_id"`
	CustomerID int       `json:"customer_id"`
	OwnerID    int       `json:"id_user"`
	AssignedTo int       `json:"assigned_to"`
	Total      float64   `json:"total"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}
