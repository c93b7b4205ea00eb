// Package rbac builds the casbin enforcer that gates every route by
// (role, resource, action). The policy is a closed, static table: roles are
// the three domain roles, not database rows, so the model and policies are
// compiled in rather than loaded from storage. Row-level ownership (SELF vs
// TEAM) is decided separately by the scope package inside services.
package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"go-leavetrack/internal/domain"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies: role, resource, action. MANAGER inherits EMPLOYEE, ADMIN
// inherits MANAGER via grouping rules below.
var policies = [][]string{
	{string(domain.RoleEmployee), "leave", "read"},
	{string(domain.RoleEmployee), "leave", "create"},
	{string(domain.RoleEmployee), "leave", "cancel"},
	{string(domain.RoleEmployee), "balance", "read"},
	{string(domain.RoleEmployee), "attendance", "read"},
	{string(domain.RoleEmployee), "attendance", "mark"},
	{string(domain.RoleEmployee), "holiday", "read"},
	{string(domain.RoleEmployee), "department", "read"},
	{string(domain.RoleEmployee), "designation", "read"},
	{string(domain.RoleEmployee), "leavetype", "read"},
	{string(domain.RoleEmployee), "employee", "read"},

	{string(domain.RoleManager), "leave", "approve"},

	{string(domain.RoleAdmin), "leave", "delete"},
	{string(domain.RoleAdmin), "balance", "allocate"},
	{string(domain.RoleAdmin), "balance", "adjust"},
	{string(domain.RoleAdmin), "attendance", "correct"},
	{string(domain.RoleAdmin), "holiday", "write"},
	{string(domain.RoleAdmin), "department", "write"},
	{string(domain.RoleAdmin), "designation", "write"},
	{string(domain.RoleAdmin), "leavetype", "write"},
	{string(domain.RoleAdmin), "employee", "write"},
}

var groupings = [][]string{
	{string(domain.RoleManager), string(domain.RoleEmployee)},
	{string(domain.RoleAdmin), string(domain.RoleManager)},
}

// NewEnforcer returns an enforcer preloaded with the static role policy.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	if _, err := e.AddPolicies(policies); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicies(groupings); err != nil {
		return nil, err
	}

	return e, nil
}
