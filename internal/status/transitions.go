package status

// Allowed stage transitions. Conversions (lead→opportunity, opportunity→SQ,
// quotation→sales order) are performed by the conversion engine, never by a
// plain status edit, but the target stages still appear here so the engine
// shares the same tables.
var PipelineTransitions = map[PipelineStage]map[PipelineStage]bool{
	LeadNew:         {LeadContacted: true, LeadUnqualified: true},
	LeadContacted:   {LeadQualified: true, LeadUnqualified: true},
	LeadQualified:   {LeadUnqualified: true, OppProspecting: true},
	LeadUnqualified: {},
	LeadConverted:   {OppProspecting: true}, // legacy marker rows may still advance
	OppProspecting:  {OppLost: true, OppSQ: true},
	OppSQ:           {},
	OppLost:         {OppProspecting: true}, // manager may reopen a lost opportunity
	Converted:       {},
}

var QuotationTransitions = map[QuotationStatus]map[QuotationStatus]bool{
	QuotationDraft:     {QuotationSubmitted: true},
	QuotationSubmitted: {QuotationApproved: true, QuotationRejected: true},
	QuotationApproved:  {QuotationConverted: true}, // via convert only
	QuotationRejected:  {},
	QuotationConverted: {},
}

var OrderTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderDraft:      {OrderOpen: true, OrderCancelled: true},
	OrderOpen:       {OrderProcessing: true, OrderCancelled: true},
	OrderProcessing: {OrderCompleted: true, OrderCancelled: true},
	OrderCompleted:  {},
	OrderCancelled:  {},
}

func CanTransitionPipeline(from, to PipelineStage) bool {
	nexts, ok := PipelineTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

func CanTransitionQuotation(from, to QuotationStatus) bool {
	nexts, ok := QuotationTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

func CanTransitionOrder(from, to OrderStatus) bool {
	nexts, ok := OrderTransitions[from]
	if !ok {
		return false
	}
	return nexts[to]
}

// CanChangePayment: the payment axis is independent of the fulfilment axis
// and may move unpaid→paid in any order state except cancelled.
func CanChangePayment(order OrderStatus, from, to PaymentStatus) bool {
	if order == OrderCancelled {
		return false
	}
	return from == PaymentUnpaid && to == PaymentPaid
}
