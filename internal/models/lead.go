package models

import "time"

// Lead is the pipeline record. One table backs the whole pipeline: the same
// row is a lead, then an opportunity, depending on its status. Customer info
// fields are set once at creation and locked afterwards.
type Lead struct {
	ID              int       `json:"id"`
	RefNumber       string    `json:"ref_number"`
	CustomerName    string    `json:"customer_name"`
	LeadName        string    `json:"lead_name"`
	Contact         string    `json:"contact"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Type            string    `json:"type"`
	Company         string    `json:"company"`
	Location        string    `json:"location"`
	Source          string    `json:"source"`
	ProductInterest string    `json:"product_interest"`
	Note            string    `json:"note"`
	Status          string    `json:"status"`
	CustomerID      int       `json:"customer_id"`
	OwnerID         int       `json:"id_user"`
	AssignedTo      int       `json:"assigned_to"` // 0 = unassigned
	CreatedAt       time.Time `json:"created_at"`
}
