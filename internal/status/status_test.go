package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlascrm/internal/apperrors"
)

func TestCanonicalPipeline(t *testing.T) {
	tests := []struct {
		raw     string
		want    PipelineStage
		wantErr bool
	}{
		{raw: "New Lead", want: LeadNew},
		{raw: "new", want: LeadNew},
		{raw: "  CONTACTED  ", want: LeadContacted},
		{raw: "Qualified", want: LeadQualified},
		{raw: "Unqualified", want: LeadUnqualified},
		{raw: "Prospecting", want: OppProspecting},
		{raw: "SQ", want: OppSQ},
		{raw: "Sales Quotation", want: OppSQ},
		{raw: "Lost", want: OppLost},
		{raw: "converted", want: Converted},
		{raw: "lead_converted", want: LeadConverted},
		{raw: "something else", wantErr: true},
		{raw: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := CanonicalPipeline(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperrors.ErrUnknownStage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Canonicalizing a canonical value must be a fixed point.
func TestCanonicalPipelineIdempotent(t *testing.T) {
	for raw := range pipelineSynonyms {
		first, err := CanonicalPipeline(raw)
		require.NoError(t, err)
		second, err := CanonicalPipeline(string(first))
		require.NoError(t, err)
		assert.Equal(t, first, second, "raw %q", raw)
	}
}

func TestCanonicalQuotationAndOrder(t *testing.T) {
	q, err := CanonicalQuotation("Submitted")
	require.NoError(t, err)
	assert.Equal(t, QuotationSubmitted, q)

	q, err = CanonicalQuotation("approved")
	require.NoError(t, err)
	assert.Equal(t, QuotationApproved, q)

	_, err = CanonicalQuotation("shipped")
	assert.ErrorIs(t, err, apperrors.ErrUnknownStage)

	o, err := CanonicalOrder("Canceled")
	require.NoError(t, err)
	assert.Equal(t, OrderCancelled, o)

	p, err := CanonicalPayment("PAID")
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, p)
}

func TestPhase(t *testing.T) {
	assert.Equal(t, PhaseLead, LeadNew.Phase())
	assert.Equal(t, PhaseLead, LeadConverted.Phase())
	assert.Equal(t, PhaseOpportunity, OppProspecting.Phase())
	assert.Equal(t, PhaseOpportunity, Converted.Phase())
}

func TestPipelineRawValues(t *testing.T) {
	leadRaws := PipelineRawValues(PhaseLead)
	assert.Contains(t, leadRaws, "new lead")
	assert.Contains(t, leadRaws, "lead_qualified")
	assert.NotContains(t, leadRaws, "prospecting")

	oppRaws := PipelineRawValues(PhaseOpportunity)
	assert.Contains(t, oppRaws, "prospecting")
	assert.Contains(t, oppRaws, "sq")
	assert.NotContains(t, oppRaws, "contacted")
}

func TestPipelineTransitions(t *testing.T) {
	tests := []struct {
		name string
		from PipelineStage
		to   PipelineStage
		want bool
	}{
		{"new to contacted", LeadNew, LeadContacted, true},
		{"contacted to qualified", LeadContacted, LeadQualified, true},
		{"qualified to prospecting", LeadQualified, OppProspecting, true},
		{"prospecting to lost", OppProspecting, OppLost, true},
		{"prospecting to sq", OppProspecting, OppSQ, true},
		{"lost reopens to prospecting", OppLost, OppProspecting, true},
		{"sq is terminal", OppSQ, OppProspecting, false},
		{"converted is terminal", Converted, OppProspecting, false},
		{"unqualified is terminal", LeadUnqualified, LeadContacted, false},
		{"no skipping to sq", LeadNew, OppSQ, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionPipeline(tt.from, tt.to))
		})
	}
}

func TestQuotationTransitions(t *testing.T) {
	assert.True(t, CanTransitionQuotation(QuotationDraft, QuotationSubmitted))
	assert.True(t, CanTransitionQuotation(QuotationSubmitted, QuotationApproved))
	assert.True(t, CanTransitionQuotation(QuotationSubmitted, QuotationRejected))
	assert.True(t, CanTransitionQuotation(QuotationApproved, QuotationConverted))
	assert.False(t, CanTransitionQuotation(QuotationDraft, QuotationApproved))
	assert.False(t, CanTransitionQuotation(QuotationRejected, QuotationSubmitted))
	assert.False(t, CanTransitionQuotation(QuotationConverted, QuotationDraft))
}

func TestOrderTransitionsAndPayment(t *testing.T) {
	assert.True(t, CanTransitionOrder(OrderDraft, OrderOpen))
	assert.True(t, CanTransitionOrder(OrderOpen, OrderProcessing))
	assert.True(t, CanTransitionOrder(OrderProcessing, OrderCompleted))
	assert.True(t, CanTransitionOrder(OrderProcessing, OrderCancelled))
	assert.False(t, CanTransitionOrder(OrderCompleted, OrderProcessing))
	assert.False(t, CanTransitionOrder(OrderDraft, OrderCompleted))

	// payment axis is orthogonal except for cancelled orders
	assert.True(t, CanChangePayment(OrderDraft, PaymentUnpaid, PaymentPaid))
	assert.True(t, CanChangePayment(OrderCompleted, PaymentUnpaid, PaymentPaid))
	assert.False(t, CanChangePayment(OrderCancelled, PaymentUnpaid, PaymentPaid))
	assert.False(t, CanChangePayment(OrderOpen, PaymentPaid, PaymentPaid))
}
