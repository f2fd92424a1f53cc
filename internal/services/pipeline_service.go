package services

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"atlascrm/internal/apperrors"
	"atlascrm/internal/authz"
	"atlascrm/internal/models"
	"atlascrm/internal/numbering"
	"atlascrm/internal/policy"
	"atlascrm/internal/status"
)

// PipelineService serves the lead/opportunity views of the pipeline table:
// role-scoped listing, creation, field mutation behind the permission
// policy, and the status transition table.
type PipelineService struct {
	Leads LeadStore
}

func NewPipelineService(leads LeadStore) *PipelineService {
	return &PipelineService{Leads: leads}
}

func (s *PipelineService) Create(p authz.Principal, lead *models.Lead) error {
	set, err := resolve(p)
	if err != nil {
		return err
	}
	if !set.IsOperator(authz.DomainLeads) && !set.IsManager(authz.DomainLeads) {
		return apperrors.Forbiddenf("role %q may not create leads", p.Role)
	}

	// Owner and reference number come from the system, never the payload.
	now := time.Now()
	lead.OwnerID = p.ID
	lead.Status = string(status.LeadNew)
	lead.RefNumber = numbering.LeadRef(now)
	lead.CreatedAt = now
	return s.Leads.Create(lead)
}

// List applies the visibility scope, then queries. domain must be leads or
// opportunities; the scope decides own-records-only vs all.
func (s *PipelineService) List(p authz.Principal, domain authz.Domain, limit, offset int) ([]*models.Lead, error) {
	f, err := authz.ScopeFor(p, domain)
	if err != nil {
		return nil, err
	}
	phase := status.PhaseLead
	if domain == authz.DomainOpportunities {
		phase = status.PhaseOpportunity
	}
	return s.Leads.List(f, phase, limit, offset)
}

func (s *PipelineService) Get(p authz.Principal, id int) (*models.Lead, error) {
	set, err := resolve(p)
	if err != nil {
		return nil, err
	}
	lead, err := s.Leads.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperrors.ErrNotFound
	}
	if !set.Superuser() && !set.IsManager(authz.DomainLeads) && !ownsOrAssigned(p, lead.OwnerID, lead.AssignedTo) {
		return nil, apperrors.Forbidden("only the owner or assignee may view this record")
	}
	return lead, nil
}

// UpdateField applies the field permission policy, then (for status) the
// transition table, then writes. Every deny path leaves the record
// untouched.
func (s *PipelineService) UpdateField(p authz.Principal, id int, field, value string) (*models.Lead, error) {
	if _, err := resolve(p); err != nil {
		return nil, err
	}
	lead, err := s.Leads.GetByID(id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, apperrors.ErrNotFound
	}

	stage, err := status.CanonicalPipeline(lead.Status)
	if err != nil {
		// Data-integrity problem: surface as a generic failure, never
		// coerce to a default stage.
		log.Printf("lead %d carries unknown stage %q", lead.ID, lead.Status)
		return nil, err
	}

	d := policy.Check(p, lead, stage, field, value)
	if !d.Allow {
		return nil, apperrors.Forbidden(d.Reason)
	}

	var stored interface{} = value
	switch field {
	case "status":
		target, err := status.CanonicalPipeline(value)
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("unknown status %q", value))
		}
		if !status.CanTransitionPipeline(stage, target) {
			return nil, apperrors.InvalidTransition(fmt.Sprintf("cannot move %s to %s", stage, target))
		}
		stored = string(target)
	case "assigned_to", "customer_id":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, apperrors.Validation(fmt.Sprintf("%s must be numeric", field))
		}
		stored = n
	}

	if err := s.Leads.UpdateField(id, field, stored); err != nil {
		return nil, err
	}
	return s.Leads.GetByID(id)
}

// Assign delegates a record to another user. Assignment is a delegated
// capability, not an ownership transfer: id_user never changes.
func (s *PipelineService) Assign(p authz.Principal, id, assigneeID int) (*models.Lead, error) {
	return s.UpdateField(p, id, "assigned_to", strconv.Itoa(assigneeID))
}

// Delete is the explicit superuser escape hatch; normal flow never deletes.
func (s *PipelineService) Delete(p authz.Principal, id int) error {
	set, err := resolve(p)
	if err != nil {
		return err
	}
	if !set.Superuser() {
		return apperrors.Forbidden("only superuser may delete records")
	}
	lead, err := s.Leads.GetByID(id)
	if err != nil {
		return err
	}
	if lead == nil {
		return apperrors.ErrNotFound
	}
	return s.Leads.Delete(id)
}
