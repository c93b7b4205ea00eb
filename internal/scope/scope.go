// Package scope implements row-level visibility. Every decision is a
// function of the actor, the row's owner, and the owner's reporting
// manager; the package holds no state.
package scope

import (
	"context"

	"go-leavetrack/internal/domain"
	"go-leavetrack/internal/shared/apperror"
)

//go:generate mockgen -source=scope.go -destination=mock/scope_mock.go -package=mock

// ManagerResolver answers "who does this employee report to".
type ManagerResolver interface {
	ReportingManagerID(ctx context.Context, employeeID string) (string, error)
}

// TeamResolver lists a manager's direct reports.
type TeamResolver interface {
	DirectReportIDs(ctx context.Context, managerID string) ([]string, error)
}

// VisibilityFor maps a role to its widest read scope.
func VisibilityFor(role domain.Role) domain.Visibility {
	switch role {
	case domain.RoleAdmin:
		return domain.VisibilityAll
	case domain.RoleManager:
		return domain.VisibilityTeam
	default:
		return domain.VisibilitySelf
	}
}

// Authorize checks whether the actor may touch rows owned by
// targetEmployeeID.
func Authorize(ctx context.Context, resolver ManagerResolver, actor domain.Actor, targetEmployeeID string) error {
	if actor.Role == domain.RoleAdmin {
		return nil
	}
	if actor.EmployeeID == targetEmployeeID {
		return nil
	}
	if actor.Role == domain.RoleManager {
		managerID, err := resolver.ReportingManagerID(ctx, targetEmployeeID)
		if err != nil {
			return err
		}
		if managerID == actor.EmployeeID {
			return nil
		}
	}
	return apperror.ErrForbidden
}
