package authz

import "strings"

// Role names as stored on the user record. Matching is case-insensitive.
type Role string

const (
	RoleSuperuser         Role = "superuser"
	RoleSales             Role = "sales"
	RoleManagerSales      Role = "manager-sales"
	RoleFinance           Role = "finance"
	RoleManagerFinance    Role = "manager-finance"
	RoleWarehouse         Role = "warehouse"
	RoleManagerWarehouse  Role = "manager-warehouse"
	RolePurchasing        Role = "purchasing"
	RoleManagerPurchasing Role = "manager-purchasing"
	RoleDelivery          Role = "delivery"
)

// Principal is the opaque identity produced by the auth boundary: an id and
// a role name. Everything downstream consumes capabilities, never the raw
// role string.
type Principal struct {
	ID   int
	Role string
}

// Domain names a record collection for scoping and manager checks.
type Domain string

const (
	DomainLeads          Domain = "leads"
	DomainOpportunities  Domain = "opportunities"
	DomainQuotations     Domain = "quotations"
	DomainSalesOrders    Domain = "sales_orders"
	DomainPurchaseOrders Domain = "purchase_orders"
)

// operatorRole / managerRole map each domain to the plain role that works it
// and the manager role that oversees it. The whole sales pipeline belongs to
// the sales team; purchase orders belong to purchasing.
var operatorRole = map[Domain]Role{
	DomainLeads:          RoleSales,
	DomainOpportunities:  RoleSales,
	DomainQuotations:     RoleSales,
	DomainSalesOrders:    RoleSales,
	DomainPurchaseOrders: RolePurchasing,
}

var managerRole = map[Domain]Role{
	DomainLeads:          RoleManagerSales,
	DomainOpportunities:  RoleManagerSales,
	DomainQuotations:     RoleManagerSales,
	DomainSalesOrders:    RoleManagerSales,
	DomainPurchaseOrders: RoleManagerPurchasing,
}

var knownRoles = map[Role]bool{
	RoleSuperuser:         true,
	RoleSales:             true,
	RoleManagerSales:      true,
	RoleFinance:           true,
	RoleManagerFinance:    true,
	RoleWarehouse:         true,
	RoleManagerWarehouse:  true,
	RolePurchasing:        true,
	RoleManagerPurchasing: true,
	RoleDelivery:          true,
}

// RoleSet is a principal's resolved capability set. A principal with no
// resolvable role yields the empty set: every predicate is false and callers
// must deny.
type RoleSet struct {
	role  Role
	known bool
}

func Classify(p Principal) RoleSet {
	r := Role(strings.ToLower(strings.TrimSpace(p.Role)))
	if !knownRoles[r] {
		return RoleSet{}
	}
	return RoleSet{role: r, known: true}
}

// Superuser reports the override authority.
func (s RoleSet) Superuser() bool {
	return s.known && s.role == RoleSuperuser
}

// Has reports whether the principal carries the given role capability.
// Superuser implies every capability.
func (s RoleSet) Has(r Role) bool {
	if !s.known {
		return false
	}
	return s.role == RoleSuperuser || s.role == r
}

// IsManager reports whether the principal manages the given domain
// (the matching manager-<domain> role, or superuser).
func (s RoleSet) IsManager(d Domain) bool {
	return s.Has(managerRole[d])
}

// IsOperator reports whether the principal works records in the given domain
// as a plain (non-manager) role, or is superuser.
func (s RoleSet) IsOperator(d Domain) bool {
	return s.Has(operatorRole[d])
}

// Empty reports an unresolvable role.
func (s RoleSet) Empty() bool { return !s.known }
