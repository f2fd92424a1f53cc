package services

import (
	"context"

	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/status"
)

// Persistence collaborators consumed by the services. The SQL
// implementations live in internal/repositories; tests substitute fakes.

type LeadStore interface {
	Create(lead *models.Lead) error
	GetByID(id int) (*models.Lead, error)
	UpdateField(id int, column string, value interface{}) error
	Delete(id int) error
	List(f authz.Filter, phase status.Phase, limit, offset int) ([]*models.Lead, error)
}

type QuotationStore interface {
	GetByID(id int) (*models.Quotation, error)
	GetByLeadID(leadID int) (*models.Quotation, error)
	UpdateStatus(id int, to string) error
	List(f authz.Filter, limit, offset int) ([]*models.Quotation, error)
}

type SalesOrderStore interface {
	GetByID(id int) (*models.SalesOrder, error)
	UpdateStatus(id int, to string) error
	UpdatePaymentStatus(id int, to string) error
	List(f authz.Filter, limit, offset int) ([]*models.SalesOrder, error)
}

// ConversionTx is the unit of work for one conversion. Lock* methods take
// the source row FOR UPDATE; everything inside the function passed to
// WithinTx commits together or not at all.
type ConversionTx interface {
	LockLead(id int) (*models.Lead, error)
	StampLeadStatus(id int, to string) error
	CreateQuotation(q *models.Quotation) error
	LockQuotation(id int) (*models.Quotation, error)
	StampQuotationStatus(id int, to string) error
	CreateSalesOrder(o *models.SalesOrder) error
	PricesByNames(names []string) (map[string]float64, error)
}

type ConversionStore interface {
	WithinTx(ctx context.Context, fn func(tx ConversionTx) error) error
}
