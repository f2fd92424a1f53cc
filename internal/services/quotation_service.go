package services

import (
	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/status"
)

// QuotationService serves the quotation sub-machine: draft → submitted →
// approved/rejected. The approved → converted move belongs to the
// conversion engine.
type QuotationService struct {
	Repo QuotationStore
}

func NewQuotationService(repo QuotationStore) *QuotationService {
	return &QuotationService{Repo: repo}
}

func (s *QuotationService) List(p authz.Principal, limit, offset int) ([]*models.Quotation, error) {
	f, err := authz.ScopeFor(p, authz.DomainQuotations)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(f, limit, offset)
}

func (s *QuotationService) Get(p authz.Principal, id int) (*models.Quotation, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	q, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperrors.ErrNotFound
	}
	if !set.Superuser() && !set.IsManager(authz.DomainQuotations) && !ownsOrAssigned(p, q.OwnerID, q.AssignedTo) {
		return nil, apperrors.Forbidden("only the owner or assignee may view this quotation")
	}
	return q, nil
}

// GetByLead returns the quotation created from the given pipeline record,
// the linkage the legacy model used to infer the converted state.
func (s *QuotationService) GetByLead(p authz.Principal, leadID int) (*models.Quotation, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	q, err := s.Repo.GetByLeadID(leadID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperrors.ErrNotFound
	}
	if !set.Superuser() && !set.IsManager(authz.DomainQuotations) && !ownsOrAssigned(p, q.OwnerID, q.AssignedTo) {
		return nil, apperrors.Forbidden("only the owner or assignee may view this quotation")
	}
	return q, nil
}

// Submit moves a draft quotation to submitted for managerial review.
func (s *QuotationService) Submit(p authz.Principal, id int) (*models.Quotation, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	q, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperrors.ErrNotFound
	}
	if !set.Superuser() && !ownsOrAssigned(p, q.OwnerID, q.AssignedTo) {
		return nil, apperrors.Forbidden("only the owner or assignee may submit a quotation")
	}
	st, err := status.CanonicalQuotation(q.Status)
	if err != nil {
		return nil, err
	}
	if !status.CanTransitionQuotation(st, status.QuotationSubmitted) {
		return nil, apperrors.InvalidTransition("only a draft quotation may be submitted")
	}
	if err := s.Repo.UpdateStatus(id, string(status.QuotationSubmitted)); err != nil {
		return nil, err
	}
	q.Status = string(status.QuotationSubmitted)
	return q, nil
}

// Review approves or rejects a submitted quotation. Review authority sits
// with the sales manager (or superuser), never the submitting operator.
func (s *QuotationService) Review(p authz.Principal, id int, approve bool) (*models.Quotation, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	if !set.IsManager(authz.DomainQuotations) {
		return nil, apperrors.Forbidden("only manager-sales may review quotations")
	}
	q, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, apperrors.ErrNotFound
	}
	st, err := status.CanonicalQuotation(q.Status)
	if err != nil {
		return nil, err
	}
	target := status.QuotationApproved
	if !approve {
		target = status.QuotationRejected
	}
	if !status.CanTransitionQuotation(st, target) {
		return nil, apperrors.InvalidTransition("only a submitted quotation may be reviewed")
	}
	if err := s.Repo.UpdateStatus(id, string(target)); err != nil {
		return nil, err
	}
	q.Status = string(target)
	return q, nil
}
