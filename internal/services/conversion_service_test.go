package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/status"
)

// fakeConversionStore implements ConversionStore in memory. Mutations are
// recorded so tests can verify that denied conversions leave no trace.
type fakeConversionStore struct {
	leads      map[int]*models.Lead
	quotations map[int]*models.Quotation
	orders     []*models.SalesOrder
	prices     map[string]float64

	createQuotationErr error
	nextID             int
}

func newFakeStore() *fakeConversionStore {
	return &fakeConversionStore{
		leads:      map[int]*models.Lead{},
		quotations: map[int]*models.Quotation{},
		prices:     map[string]float64{},
	}
}

func (s *fakeConversionStore) WithinTx(_ context.Context, fn func(tx ConversionTx) error) error {
	return fn(s)
}

func (s *fakeConversionStore) LockLead(id int) (*models.Lead, error) {
	return s.leads[id], nil
}

func (s *fakeConversionStore) StampLeadStatus(id int, to string) error {
	s.leads[id].Status = to
	return nil
}

func (s *fakeConversionStore) CreateQuotation(q *models.Quotation) error {
	if s.createQuotationErr != nil {
		return s.createQuotationErr
	}
	s.nextID++
	q.ID = s.nextID
	cp := *q
	s.quotations[q.ID] = &cp
	return nil
}

func (s *fakeConversionStore) LockQuotation(id int) (*models.Quotation, error) {
	return s.quotations[id], nil
}

func (s *fakeConversionStore) StampQuotationStatus(id int, to string) error {
	s.quotations[id].Status = to
	return nil
}

func (s *fakeConversionStore) CreateSalesOrder(o *models.SalesOrder) error {
	s.nextID++
	o.ID = s.nextID
	cp := *o
	s.orders = append(s.orders, &cp)
	return nil
}

func (s *fakeConversionStore) PricesByNames(names []string) (map[string]float64, error) {
	out := map[string]float64{}
	for _, n := range names {
		if p, ok := s.prices[n]; ok {
			out[n] = p
		}
	}
	return out, nil
}

func prospectingLead(id, owner int) *models.Lead {
	return &models.Lead{
		ID:              id,
		OwnerID:         owner,
		Status:          string(status.OppProspecting),
		ProductInterest: "Widget A, Widget B",
		CustomerID:      12,
	}
}

func TestConvertToQuotation(t *testing.T) {
	owner := authz.Principal{ID: 10, Role: "sales"}

	t.Run("owner converts and total is derived from catalog", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 10)
		store.prices = map[string]float64{"Widget A": 100, "Widget B": 250}
		svc := NewConversionService(store)

		q, err := svc.ConvertToQuotation(context.Background(), owner, 42, 0)
		require.NoError(t, err)
		assert.Equal(t, 350.0, q.Total)
		assert.Equal(t, 42, q.LeadID)
		assert.Equal(t, 12, q.CustomerID)
		assert.Equal(t, 10, q.OwnerID)
		assert.Equal(t, string(status.QuotationDraft), q.Status)
		assert.NotEmpty(t, q.Number)

		// explicit stamp in the same transaction, not inferred
		assert.Equal(t, string(status.OppSQ), store.leads[42].Status)
		assert.Len(t, store.quotations, 1)
	})

	t.Run("supplied customer id overrides the record's", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 10)
		svc := NewConversionService(store)

		q, err := svc.ConvertToQuotation(context.Background(), owner, 42, 77)
		require.NoError(t, err)
		assert.Equal(t, 77, q.CustomerID)
	})

	t.Run("assignee may convert", func(t *testing.T) {
		store := newFakeStore()
		lead := prospectingLead(42, 10)
		lead.AssignedTo = 20
		store.leads[42] = lead
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), authz.Principal{ID: 20, Role: "sales"}, 42, 0)
		assert.NoError(t, err)
	})

	t.Run("unresolvable principal is unauthorized", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 10)
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), authz.Principal{}, 42, 0)
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		assert.Empty(t, store.quotations)
	})

	t.Run("missing record", func(t *testing.T) {
		svc := NewConversionService(newFakeStore())
		_, err := svc.ConvertToQuotation(context.Background(), owner, 404, 0)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("non-prospecting stage is rejected without mutation", func(t *testing.T) {
		store := newFakeStore()
		lead := prospectingLead(42, 10)
		lead.Status = string(status.LeadQualified)
		store.leads[42] = lead
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), owner, 42, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
		assert.EqualError(t, err, "only Prospecting may convert to SQ")
		assert.Equal(t, string(status.LeadQualified), store.leads[42].Status)
		assert.Empty(t, store.quotations)
	})

	t.Run("stranger sales may not convert", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 10)
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), authz.Principal{ID: 99, Role: "sales"}, 42, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		assert.EqualError(t, err, "only assigned sales or owner may convert")
		assert.Empty(t, store.quotations)
	})

	t.Run("manager may not convert even as owner", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 30)
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), authz.Principal{ID: 30, Role: "manager-sales"}, 42, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		assert.EqualError(t, err, "manager may not convert")
		assert.Empty(t, store.quotations)
	})

	t.Run("superuser may convert anyone's record", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 10)
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), authz.Principal{ID: 1, Role: "superuser"}, 42, 0)
		assert.NoError(t, err)
	})

	t.Run("second conversion observes the advanced stage", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 10)
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), owner, 42, 0)
		require.NoError(t, err)

		// the row lock serializes the race; the loser re-reads opp_sq
		_, err = svc.ConvertToQuotation(context.Background(), owner, 42, 0)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
		assert.Len(t, store.quotations, 1)
	})

	t.Run("duplicate number surfaces as conversion conflict", func(t *testing.T) {
		store := newFakeStore()
		store.leads[42] = prospectingLead(42, 10)
		store.createQuotationErr = apperrors.ErrConflictOnConvert
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), owner, 42, 0)
		assert.ErrorIs(t, err, apperrors.ErrConflictOnConvert)
	})

	t.Run("unknown stored stage is surfaced, never coerced", func(t *testing.T) {
		store := newFakeStore()
		lead := prospectingLead(42, 10)
		lead.Status = "garbage"
		store.leads[42] = lead
		svc := NewConversionService(store)

		_, err := svc.ConvertToQuotation(context.Background(), owner, 42, 0)
		assert.ErrorIs(t, err, apperrors.ErrUnknownStage)
	})
}

func TestConvertLeadToOpportunity(t *testing.T) {
	owner := authz.Principal{ID: 10, Role: "sales"}

	t.Run("qualified lead becomes prospecting", func(t *testing.T) {
		store := newFakeStore()
		store.leads[7] = &models.Lead{ID: 7, OwnerID: 10, Status: string(status.LeadQualified)}
		svc := NewConversionService(store)

		lead, err := svc.ConvertLeadToOpportunity(context.Background(), owner, 7)
		require.NoError(t, err)
		assert.Equal(t, string(status.OppProspecting), lead.Status)
		assert.Equal(t, string(status.OppProspecting), store.leads[7].Status)
	})

	t.Run("unqualified lead may not convert", func(t *testing.T) {
		store := newFakeStore()
		store.leads[7] = &models.Lead{ID: 7, OwnerID: 10, Status: string(status.LeadNew)}
		svc := NewConversionService(store)

		_, err := svc.ConvertLeadToOpportunity(context.Background(), owner, 7)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
		assert.Equal(t, string(status.LeadNew), store.leads[7].Status)
	})
}

func TestConvertToSalesOrder(t *testing.T) {
	owner := authz.Principal{ID: 10, Role: "sales"}

	approved := func() *models.Quotation {
		return &models.Quotation{
			ID: 5, Number: "SQ-1", LeadID: 42, CustomerID: 12,
			OwnerID: 10, Total: 350, Status: string(status.QuotationApproved),
		}
	}

	t.Run("approved quotation converts", func(t *testing.T) {
		store := newFakeStore()
		store.quotations[5] = approved()
		svc := NewConversionService(store)

		o, err := svc.ConvertToSalesOrder(context.Background(), owner, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, o.QuotationID)
		assert.Equal(t, 350.0, o.Total)
		assert.Equal(t, string(status.OrderDraft), o.Status)
		assert.Equal(t, string(status.PaymentUnpaid), o.PaymentStatus)
		assert.Equal(t, string(status.QuotationConverted), store.quotations[5].Status)
		assert.Len(t, store.orders, 1)
	})

	t.Run("draft quotation may not convert", func(t *testing.T) {
		store := newFakeStore()
		q := approved()
		q.Status = string(status.QuotationDraft)
		store.quotations[5] = q
		svc := NewConversionService(store)

		_, err := svc.ConvertToSalesOrder(context.Background(), owner, 5)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
		assert.Empty(t, store.orders)
		assert.Equal(t, string(status.QuotationDraft), store.quotations[5].Status)
	})

	t.Run("manager may not convert", func(t *testing.T) {
		store := newFakeStore()
		store.quotations[5] = approved()
		svc := NewConversionService(store)

		_, err := svc.ConvertToSalesOrder(context.Background(), authz.Principal{ID: 30, Role: "manager-sales"}, 5)
		require.Error(t, err)
		assert.EqualError(t, err, "manager may not convert")
		assert.Empty(t, store.orders)
	})

	t.Run("second conversion fails, exactly one order", func(t *testing.T) {
		store := newFakeStore()
		store.quotations[5] = approved()
		svc := NewConversionService(store)

		_, err := svc.ConvertToSalesOrder(context.Background(), owner, 5)
		require.NoError(t, err)
		_, err = svc.ConvertToSalesOrder(context.Background(), owner, 5)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
		assert.Len(t, store.orders, 1)
	})
}
