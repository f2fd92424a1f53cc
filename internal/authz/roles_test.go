package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		role      string
		wantEmpty bool
	}{
		{"sales", "sales", false},
		{"case insensitive", "Manager-Sales", false},
		{"padded", "  superuser  ", false},
		{"unknown role", "intern", true},
		{"empty role", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Classify(Principal{ID: 1, Role: tt.role})
			assert.Equal(t, tt.wantEmpty, set.Empty())
		})
	}
}

func TestSuperuserImpliesEverything(t *testing.T) {
	set := Classify(Principal{ID: 1, Role: "superuser"})
	assert.True(t, set.Superuser())
	for _, r := range []Role{RoleSales, RoleFinance, RoleWarehouse, RolePurchasing, RoleDelivery, RoleManagerSales} {
		assert.True(t, set.Has(r), "superuser should imply %s", r)
	}
	for _, d := range []Domain{DomainLeads, DomainOpportunities, DomainQuotations, DomainSalesOrders, DomainPurchaseOrders} {
		assert.True(t, set.IsManager(d))
		assert.True(t, set.IsOperator(d))
	}
}

func TestPlainRolePredicates(t *testing.T) {
	sales := Classify(Principal{ID: 2, Role: "sales"})
	assert.False(t, sales.Superuser())
	assert.True(t, sales.Has(RoleSales))
	assert.False(t, sales.Has(RoleFinance))
	assert.True(t, sales.IsOperator(DomainLeads))
	assert.True(t, sales.IsOperator(DomainQuotations))
	assert.False(t, sales.IsOperator(DomainPurchaseOrders))
	assert.False(t, sales.IsManager(DomainLeads))

	mgr := Classify(Principal{ID: 3, Role: "manager-sales"})
	assert.True(t, mgr.IsManager(DomainLeads))
	assert.True(t, mgr.IsManager(DomainSalesOrders))
	assert.False(t, mgr.IsManager(DomainPurchaseOrders))
	assert.False(t, mgr.IsOperator(DomainLeads))
}

// A principal with no resolvable role must classify as no capabilities,
// never as an error: callers deny on the empty set.
func TestEmptySetDeniesAll(t *testing.T) {
	set := Classify(Principal{ID: 4, Role: "ghost"})
	assert.True(t, set.Empty())
	assert.False(t, set.Superuser())
	assert.False(t, set.Has(RoleSales))
	assert.False(t, set.IsManager(DomainLeads))
	assert.False(t, set.IsOperator(DomainLeads))
}
