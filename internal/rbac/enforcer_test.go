package rbac_test

import (
	"testing"

	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/rbac"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer(t *testing.T) {
	e, err := rbac.NewEnforcer()
	require.NoError(t, err)

	cases := []struct {
		role     domain.Role
		resource string
		action   string
		want     bool
	}{
		{domain.RoleEmployee, "leave", "create", true},
		{domain.RoleEmployee, "leave", "approve", false},
		{domain.RoleEmployee, "balance", "allocate", false},
		{domain.RoleEmployee, "attendance", "mark", true},
		{domain.RoleEmployee, "attendance", "correct", false},

		// Managers inherit everything employees can do.
		{domain.RoleManager, "leave", "approve", true},
		{domain.RoleManager, "leave", "create", true},
		{domain.RoleManager, "holiday", "write", false},
		{domain.RoleManager, "employee", "write", false},

		// Admins inherit the manager set on top of their own grants.
		{domain.RoleAdmin, "leave", "approve", true},
		{domain.RoleAdmin, "balance", "adjust", true},
		{domain.RoleAdmin, "attendance", "correct", true},
		{domain.RoleAdmin, "holiday", "write", true},
		{domain.RoleAdmin, "attendance", "mark", true},
	}

	for _, tc := range cases {
		ok, err := e.Enforce(string(tc.role), tc.resource, tc.action)
		require.NoError(t, err)
		assert.Equalf(t, tc.want, ok, "%s %s:%s", tc.role, tc.resource, tc.action)
	}
}
