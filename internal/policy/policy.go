// Package policy decides whether a principal may mutate a given field of a
// pipeline record. It is a pure decision function: callers apply the
// mutation and log it; every deny here is side-effect free.
package policy

import (
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/status"
)

// Decision carries the verdict and, on deny, a business-rule reason meant
// for the end user verbatim.
type Decision struct {
	Allow  bool
	Reason string
}

func allow() Decision             { return Decision{Allow: true} }
func deny(reason string) Decision { return Decision{Reason: reason} }

// customerInfoLocked lists the fields set once at creation and permanently
// read-only for every role, superuser included. Corrective admin edits go
// through a separate override path, not through this policy.
var customerInfoLocked = map[string]bool{
	"customer_name": true,
	"lead_name":     true,
	"contact":       true,
	"email":         true,
	"phone":         true,
	"type":          true,
	"company":       true,
	"location":      true,
	"source":        true,
}

// managerStatusValues: the only statuses a domain manager may set directly —
// reopen to Prospecting or kill the opportunity.
var managerStatusValues = map[status.PipelineStage]bool{
	status.OppProspecting: true,
	status.OppLost:        true,
}

// Check evaluates the field-permission rules in precedence order; the first
// matching rule wins. stage is the record's canonicalized current stage.
func Check(p authz.Principal, rec *models.Lead, stage status.PipelineStage, field, newValue string) Decision {
	// 1. Customer-info lock: unconditional, superuser included.
	if customerInfoLocked[field] {
		return deny("customer info is read-only once the record exists")
	}

	set := authz.Classify(p)
	if set.Empty() {
		return deny("no resolvable role")
	}

	// 2. Domain manager (not superuser): status and assignment only, and
	// the status values are restricted to Prospecting/Lost.
	if set.IsManager(authz.DomainLeads) && !set.Superuser() {
		switch field {
		case "status":
			target, err := status.CanonicalPipeline(newValue)
			if err != nil || !managerStatusValues[target] {
				return deny("manager may only set Prospecting or Lost")
			}
			return allow()
		case "assigned_to":
			return allow()
		default:
			return deny("manager may only change Status and Assignment")
		}
	}

	// 6. Superuser override (still behind the customer-info lock above).
	if set.Superuser() {
		return allow()
	}

	if !set.IsOperator(authz.DomainLeads) {
		return deny("role may not modify pipeline records")
	}

	// 3. Operator who is neither owner nor assignee: no field at all.
	if rec.OwnerID != p.ID && (rec.AssignedTo == 0 || rec.AssignedTo != p.ID) {
		return deny("only the owner or assignee may modify this record")
	}

	// Status edits are evaluated the same at every stage: SQ is reachable
	// only through Convert, everything else is left to the transition table.
	if field == "status" {
		if target, err := status.CanonicalPipeline(newValue); err == nil && target == status.OppSQ {
			return deny("SQ status is only reachable via Convert")
		}
		return allow()
	}

	// 4. Owner/assignee at Prospecting: any field (lock aside).
	if stage == status.OppProspecting {
		return allow()
	}

	// 5. Any other stage: frozen except status.
	return deny("current stage does not permit field edits")
}
