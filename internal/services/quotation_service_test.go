package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/status"
)

type fakeQuotationStore struct {
	quotations map[int]*models.Quotation
	lastFilter authz.Filter
}

func (s *fakeQuotationStore) GetByID(id int) (*models.Quotation, error) {
	q, ok := s.quotations[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (s *fakeQuotationStore) GetByLeadID(leadID int) (*models.Quotation, error) {
	for _, q := range s.quotations {
		if q.LeadID == leadID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeQuotationStore) UpdateStatus(id int, to string) error {
	s.quotations[id].Status = to
	return nil
}

func (s *fakeQuotationStore) List(f authz.Filter, _, _ int) ([]*models.Quotation, error) {
	s.lastFilter = f
	var out []*models.Quotation
	for _, q := range s.quotations {
		if !f.Unrestricted() && q.OwnerID != f.OwnerOrAssignee && q.AssignedTo != f.OwnerOrAssignee {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func seedQuotations(st string) (*fakeQuotationStore, *QuotationService) {
	store := &fakeQuotationStore{quotations: map[int]*models.Quotation{
		5: {ID: 5, Number: "SQ-1", LeadID: 42, OwnerID: 10, Status: st},
	}}
	return store, NewQuotationService(store)
}

func TestQuotationSubmit(t *testing.T) {
	t.Run("owner submits a draft", func(t *testing.T) {
		store, svc := seedQuotations(string(status.QuotationDraft))
		q, err := svc.Submit(authz.Principal{ID: 10, Role: "sales"}, 5)
		require.NoError(t, err)
		assert.Equal(t, string(status.QuotationSubmitted), q.Status)
		assert.Equal(t, string(status.QuotationSubmitted), store.quotations[5].Status)
	})

	t.Run("stranger may not submit", func(t *testing.T) {
		_, svc := seedQuotations(string(status.QuotationDraft))
		_, err := svc.Submit(authz.Principal{ID: 99, Role: "sales"}, 5)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("submitted quotation cannot be resubmitted", func(t *testing.T) {
		_, svc := seedQuotations(string(status.QuotationSubmitted))
		_, err := svc.Submit(authz.Principal{ID: 10, Role: "sales"}, 5)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
		assert.EqualError(t, err, "only a draft quotation may be submitted")
	})
}

func TestQuotationReview(t *testing.T) {
	manager := authz.Principal{ID: 30, Role: "manager-sales"}

	t.Run("manager approves", func(t *testing.T) {
		store, svc := seedQuotations(string(status.QuotationSubmitted))
		q, err := svc.Review(manager, 5, true)
		require.NoError(t, err)
		assert.Equal(t, string(status.QuotationApproved), q.Status)
		assert.Equal(t, string(status.QuotationApproved), store.quotations[5].Status)
	})

	t.Run("manager rejects", func(t *testing.T) {
		_, svc := seedQuotations(string(status.QuotationSubmitted))
		q, err := svc.Review(manager, 5, false)
		require.NoError(t, err)
		assert.Equal(t, string(status.QuotationRejected), q.Status)
	})

	t.Run("owner may not review own quotation", func(t *testing.T) {
		_, svc := seedQuotations(string(status.QuotationSubmitted))
		_, err := svc.Review(authz.Principal{ID: 10, Role: "sales"}, 5, true)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
	})

	t.Run("draft cannot be reviewed", func(t *testing.T) {
		_, svc := seedQuotations(string(status.QuotationDraft))
		_, err := svc.Review(manager, 5, true)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidTransition(err))
	})
}

func TestQuotationGetByLead(t *testing.T) {
	_, svc := seedQuotations(string(status.QuotationDraft))

	q, err := svc.GetByLead(authz.Principal{ID: 10, Role: "sales"}, 42)
	require.NoError(t, err)
	assert.Equal(t, 5, q.ID)

	_, err = svc.GetByLead(authz.Principal{ID: 99, Role: "sales"}, 42)
	assert.True(t, apperrors.IsForbidden(err))

	_, err = svc.GetByLead(authz.Principal{ID: 10, Role: "sales"}, 777)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestQuotationList(t *testing.T) {
	store, svc := seedQuotations(string(status.QuotationDraft))
	store.quotations[6] = &models.Quotation{ID: 6, OwnerID: 99, Status: string(status.QuotationDraft)}

	qs, err := svc.List(authz.Principal{ID: 10, Role: "sales"}, 100, 0)
	require.NoError(t, err)
	assert.Len(t, qs, 1)
	assert.Equal(t, 10, store.lastFilter.OwnerOrAssignee)

	_, err = svc.List(authz.Principal{ID: 50, Role: "warehouse"}, 100, 0)
	assert.True(t, apperrors.IsForbidden(err))
}
