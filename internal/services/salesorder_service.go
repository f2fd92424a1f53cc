package services

import (
	"fmt"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/status"
)

// SalesOrderService serves fulfilment-status and payment-status moves. It
// has no create operation: sales orders exist only through quotation
// conversion.
type SalesOrderService struct {
	Repo SalesOrderStore
}

func NewSalesOrderService(repo SalesOrderStore) *SalesOrderService {
	return &SalesOrderService{Repo: repo}
}

func (s *SalesOrderService) List(p authz.Principal, limit, offset int) ([]*models.SalesOrder, error) {
	f, err := authz.ScopeFor(p, authz.DomainSalesOrders)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(f, limit, offset)
}

func (s *SalesOrderService) Get(p authz.Principal, id int) (*models.SalesOrder, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	o, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperrors.ErrNotFound
	}
	if !set.Superuser() && !set.IsManager(authz.DomainSalesOrders) && !ownsOrAssigned(p, o.OwnerID, o.AssignedTo) {
		return nil, apperrors.Forbidden("only the owner or assignee may view this order")
	}
	return o, nil
}

// UpdateStatus moves the fulfilment axis along the order machine.
func (s *SalesOrderService) UpdateStatus(p authz.Principal, id int, to string) (*models.SalesOrder, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	o, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperrors.ErrNotFound
	}
	if !set.Superuser() && !set.IsManager(authz.DomainSalesOrders) && !ownsOrAssigned(p, o.OwnerID, o.AssignedTo) {
		return nil, apperrors.Forbidden("only the owner or assignee may update this order")
	}
	from, err := status.CanonicalOrder(o.Status)
	if err != nil {
		return nil, err
	}
	target, err := status.CanonicalOrder(to)
	if err != nil {
		return nil, apperrors.Validation(fmt.Sprintf("unknown order status %q", to))
	}
	if !status.CanTransitionOrder(from, target) {
		return nil, apperrors.InvalidTransition(fmt.Sprintf("cannot move %s to %s", from, target))
	}
	if err := s.Repo.UpdateStatus(id, string(target)); err != nil {
		return nil, err
	}
	o.Status = string(target)
	return o, nil
}

// MarkPaid flips the payment axis. Payment authority belongs to finance;
// the axis is independent of fulfilment except that a cancelled order is
// frozen.
func (s *SalesOrderService) MarkPaid(p authz.Principal, id int) (*models.SalesOrder, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	if !set.Has(authz.RoleFinance) && !set.Has(authz.RoleManagerFinance) {
		return nil, apperrors.Forbidden("only finance may change payment status")
	}
	o, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperrors.ErrNotFound
	}
	orderSt, err := status.CanonicalOrder(o.Status)
	if err != nil {
		return nil, err
	}
	paySt, err := status.CanonicalPayment(o.PaymentStatus)
	if err != nil {
		return nil, err
	}
	if !status.CanChangePayment(orderSt, paySt, status.PaymentPaid) {
		if orderSt == status.OrderCancelled {
			return nil, apperrors.InvalidTransition("cancelled order cannot change payment status")
		}
		return nil, apperrors.InvalidTransition("order is already paid")
	}
	if err := s.Repo.UpdatePaymentStatus(id, string(status.PaymentPaid)); err != nil {
		return nil, err
	}
	o.PaymentStatus = string(status.PaymentPaid)
	return o, nil
}
