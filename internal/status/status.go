package status

import (
	"fmt"
	"strings"

	"atlascrm/internal/apperrors"
)

// PipelineStage is the canonical stage of a pipeline record. The record
// moves through the lead phase first, then the opportunity phase.
type PipelineStage string

const (
	LeadNew         PipelineStage = "lead_new"
	LeadContacted   PipelineStage = "lead_contacted"
	LeadQualified   PipelineStage = "lead_qualified"
	LeadUnqualified PipelineStage = "lead_unqualified"
	LeadConverted   PipelineStage = "lead_converted"
	OppProspecting  PipelineStage = "opp_prospecting"
	OppSQ           PipelineStage = "opp_sq"
	OppLost         PipelineStage = "opp_lost"
	// Converted marks a record whose quotation has been created; terminal.
	Converted PipelineStage = "converted"
)

// QuotationStatus is the canonical status of a sales quotation.
type QuotationStatus string

const (
	QuotationDraft     QuotationStatus = "draft"
	QuotationSubmitted QuotationStatus = "sq_submitted"
	QuotationApproved  QuotationStatus = "sq_approved"
	QuotationRejected  QuotationStatus = "sq_rejected"
	QuotationConverted QuotationStatus = "converted"
)

// OrderStatus is the fulfilment status of a sales order. The payment axis
// is tracked separately (PaymentStatus).
type OrderStatus string

const (
	OrderDraft      OrderStatus = "draft"
	OrderOpen       OrderStatus = "open"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Phase classifies a pipeline stage into the rule-set that applies to it.
type Phase string

const (
	PhaseLead        Phase = "lead"
	PhaseOpportunity Phase = "opportunity"
)

func (s PipelineStage) Phase() Phase {
	if strings.HasPrefix(string(s), "lead_") {
		return PhaseLead
	}
	return PhaseOpportunity
}

func (s PipelineStage) String() string { return string(s) }

// pipelineSynonyms maps every accepted raw spelling (lower-cased) to its
// canonical stage. Legacy rows use the display vocabulary ("New Lead",
// "Prospecting", "SQ"); canonical values map to themselves so
// canonicalization is a fixed point.
var pipelineSynonyms = map[string]PipelineStage{
	"lead_new":         LeadNew,
	"new lead":         LeadNew,
	"new":              LeadNew,
	"lead_contacted":   LeadContacted,
	"contacted":        LeadContacted,
	"lead_qualified":   LeadQualified,
	"qualified":        LeadQualified,
	"lead_unqualified": LeadUnqualified,
	"unqualified":      LeadUnqualified,
	"lead_converted":   LeadConverted,
	"lead converted":   LeadConverted,
	"opp_prospecting":  OppProspecting,
	"prospecting":      OppProspecting,
	"opp_sq":           OppSQ,
	"sq":               OppSQ,
	"sales quotation":  OppSQ,
	"opp_lost":         OppLost,
	"lost":             OppLost,
	"converted":        Converted,
}

var quotationSynonyms = map[string]QuotationStatus{
	"draft":        QuotationDraft,
	"sq_submitted": QuotationSubmitted,
	"submitted":    QuotationSubmitted,
	"sq_approved":  QuotationApproved,
	"approved":     QuotationApproved,
	"won":          QuotationApproved,
	"sq_rejected":  QuotationRejected,
	"rejected":     QuotationRejected,
	"converted":    QuotationConverted,
}

var orderSynonyms = map[string]OrderStatus{
	"draft":      OrderDraft,
	"open":       OrderOpen,
	"processing": OrderProcessing,
	"completed":  OrderCompleted,
	"cancelled":  OrderCancelled,
	"canceled":   OrderCancelled,
}

var paymentSynonyms = map[string]PaymentStatus{
	"unpaid": PaymentUnpaid,
	"paid":   PaymentPaid,
}

func normalize(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// CanonicalPipeline resolves a raw stored stage value to its canonical form.
// Unrecognized values are a data-integrity problem, never coerced.
func CanonicalPipeline(raw string) (PipelineStage, error) {
	if s, ok := pipelineSynonyms[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: pipeline stage %q", apperrors.ErrUnknownStage, raw)
}

func CanonicalQuotation(raw string) (QuotationStatus, error) {
	if s, ok := quotationSynonyms[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: quotation status %q", apperrors.ErrUnknownStage, raw)
}

func CanonicalOrder(raw string) (OrderStatus, error) {
	if s, ok := orderSynonyms[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: order status %q", apperrors.ErrUnknownStage, raw)
}

// PipelineRawValues returns every accepted raw spelling for the given
// phase, canonical values included. List queries match against this set so
// legacy rows with display spellings are not silently dropped.
func PipelineRawValues(p Phase) []string {
	var out []string
	for raw, stage := range pipelineSynonyms {
		if stage.Phase() == p {
			out = append(out, raw)
		}
	}
	return out
}

func CanonicalPayment(raw string) (PaymentStatus, error) {
	if s, ok := paymentSynonyms[normalize(raw)]; ok {
		return s, nil
	}
	return "", fmt.Errorf("%w: payment status %q", apperrors.ErrUnknownStage, raw)
}
