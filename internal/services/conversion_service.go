package services

import (
	"context"
	"time"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/numbering"
	"atlascrm/internal/status"
)

// ConversionService promotes records along the pipeline: qualified lead →
// opportunity, Prospecting opportunity → quotation, approved quotation →
// sales order. Every conversion runs in one transaction on a locked source
// row, so a concurrent attempt observes the advanced stage and fails its
// precondition instead of creating a duplicate downstream record.
type ConversionService struct {
	Store ConversionStore
}

func NewConversionService(store ConversionStore) *ConversionService {
	return &ConversionService{Store: store}
}

// resolve rejects an unresolvable principal before anything is read.
func resolve(p authz.Principal) (authz.RoleSet, error) {
	set := authz.Classify(p)
	if p.ID <= 0 || set.Empty() {
		return authz.RoleSet{}, apperrors.ErrUnauthorized
	}
	return set, nil
}

func ownsOrAssigned(p authz.Principal, ownerID, assignedTo int) bool {
	return ownerID == p.ID || (assignedTo != 0 && assignedTo == p.ID)
}

// checkConvertAuthority applies the shared conversion authorization shape:
// owner, assignee or superuser; the role must be sales or superuser, never a
// manager (managers steer statuses, they do not convert).
func checkConvertAuthority(p authz.Principal, set authz.RoleSet, ownerID, assignedTo int) error {
	if !set.Superuser() && !ownsOrAssigned(p, ownerID, assignedTo) {
		return apperrors.Forbidden("only assigned sales or owner may convert")
	}
	if set.IsManager(authz.DomainOpportunities) && !set.Superuser() {
		return apperrors.Forbidden("manager may not convert")
	}
	if !set.Has(authz.RoleSales) {
		return apperrors.Forbidden("only sales may convert")
	}
	return nil
}

// ConvertLeadToOpportunity stamps a qualified lead into the opportunity
// phase. The record stays in the same table; promotion is the status stamp.
func (s *ConversionService) ConvertLeadToOpportunity(ctx context.Context, p authz.Principal, leadID int) (*models.Lead, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}

	var out *models.Lead
	err = s.Store.WithinTx(ctx, func(tx ConversionTx) error {
		lead, err := tx.LockLead(leadID)
		if err != nil {
			return err
		}
		if lead == nil {
			return apperrors.ErrNotFound
		}
		stage, err := status.CanonicalPipeline(lead.Status)
		if err != nil {
			return err
		}
		if stage != status.LeadQualified {
			return apperrors.InvalidTransition("only a qualified lead may convert to an opportunity")
		}
		if err := checkConvertAuthority(p, set, lead.OwnerID, lead.AssignedTo); err != nil {
			return err
		}
		if err := tx.StampLeadStatus(lead.ID, string(status.OppProspecting)); err != nil {
			return err
		}
		lead.Status = string(status.OppProspecting)
		out = lead
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertToQuotation converts a Prospecting opportunity into a draft
// quotation. The quotation total is a best-effort estimate summed from the
// catalog over the record's product interest. In the same transaction the
// source record is stamped to opp_sq, making the converted state explicit
// rather than inferred from the quotation's existence.
func (s *ConversionService) ConvertToQuotation(ctx context.Context, p authz.Principal, oppID, customerID int) (*models.Quotation, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}

	var out *models.Quotation
	err = s.Store.WithinTx(ctx, func(tx ConversionTx) error {
		lead, err := tx.LockLead(oppID)
		if err != nil {
			return err
		}
		if lead == nil {
			return apperrors.ErrNotFound
		}
		stage, err := status.CanonicalPipeline(lead.Status)
		if err != nil {
			return err
		}
		if stage != status.OppProspecting {
			return apperrors.InvalidTransition("only Prospecting may convert to SQ")
		}
		if err := checkConvertAuthority(p, set, lead.OwnerID, lead.AssignedTo); err != nil {
			return err
		}

		names := ParseProductInterest(lead.ProductInterest)
		prices, err := tx.PricesByNames(names)
		if err != nil {
			return err
		}

		custID := customerID
		if custID == 0 {
			custID = lead.CustomerID
		}

		now := time.Now()
		q := &models.Quotation{
			Number:     numbering.QuotationNumber(now),
			LeadID:     lead.ID,
			CustomerID: custID,
			OwnerID:    lead.OwnerID,
			AssignedTo: lead.AssignedTo,
			Total:      EstimateTotal(names, prices),
			Status:     string(status.QuotationDraft),
			CreatedAt:  now,
		}
		if err := tx.CreateQuotation(q); err != nil {
			return err
		}
		if err := tx.StampLeadStatus(lead.ID, string(status.OppSQ)); err != nil {
			return err
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ConvertToSalesOrder converts an approved quotation into a sales order.
// Sales orders are never created directly; this is the only path.
func (s *ConversionService) ConvertToSalesOrder(ctx context.Context, p authz.Principal, quotationID int) (*models.SalesOrder, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}

	var out *models.SalesOrder
	err = s.Store.WithinTx(ctx, func(tx ConversionTx) error {
		q, err := tx.LockQuotation(quotationID)
		if err != nil {
			return err
		}
		if q == nil {
			return apperrors.ErrNotFound
		}
		st, err := status.CanonicalQuotation(q.Status)
		if err != nil {
			return err
		}
		if st != status.QuotationApproved {
			return apperrors.InvalidTransition("only an approved quotation may convert to a sales order")
		}
		if err := checkConvertAuthority(p, set, q.OwnerID, q.AssignedTo); err != nil {
			return err
		}

		now := time.Now()
		o := &models.SalesOrder{
			Number:        numbering.OrderNumber(now),
			QuotationID:   q.ID,
			CustomerID:    q.CustomerID,
			OwnerID:       q.OwnerID,
			AssignedTo:    q.AssignedTo,
			Total:         q.Total,
			Status:        string(status.OrderDraft),
			PaymentStatus: string(status.PaymentUnpaid),
			CreatedAt:     now,
		}
		if err := tx.CreateSalesOrder(o); err != nil {
			return err
		}
		if err := tx.StampQuotationStatus(q.ID, string(status.QuotationConverted)); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
