package authz

import "atlascrm/internal/apperrors"

// Filter is the visibility predicate a list query must apply before it runs.
// The zero OwnerOrAssignee means unrestricted (managers and superuser see
// everything); otherwise only rows owned by or assigned to that user id may
// be returned. Repositories compile this into the WHERE clause — scoping is
// never a post-filter over fetched rows.
type Filter struct {
	OwnerOrAssignee int
}

func (f Filter) Unrestricted() bool { return f.OwnerOrAssignee == 0 }

// ScopeFor returns the filter for listing records in a domain, or Forbidden
// when the principal's role has no business in that domain at all.
func ScopeFor(p Principal, d Domain) (Filter, error) {
	set := Classify(p)
	if p.ID <= 0 || set.Empty() {
		return Filter{}, apperrors.ErrUnauthorized
	}
	if set.Superuser() || set.IsManager(d) {
		return Filter{}, nil
	}
	if set.IsOperator(d) {
		return Filter{OwnerOrAssignee: p.ID}, nil
	}
	return Filter{}, apperrors.Forbiddenf("role %q may not list %s", p.Role, d)
}
