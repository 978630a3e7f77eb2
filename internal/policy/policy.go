// Package policy holds the pure access-decision functions. Nothing in here
// touches storage; callers resolve the records first and ask afterwards.
package policy

import (
	"fmt"

	"github.com/agencyvault/agencyvault/internal/domain"
)

// IsSelf reports whether the actor owns the resource directly.
func IsSelf(actor domain.User, ownerUserID string) bool {
	return actor.ID == ownerUserID
}

// IsManagingAgency reports whether the actor is the Agency a resource's
// tenant snapshot points at. A nil snapshot never matches.
func IsManagingAgency(actor domain.User, resourceAgencyID *string) bool {
	if actor.Role != domain.RoleAgency {
		return false
	}
	return resourceAgencyID != nil && *resourceAgencyID == actor.ID
}

// CanAccess is the uniform read/update/delete rule for Documents, Events
// and Renewals.
func CanAccess(actor domain.User, ownerUserID string, resourceAgencyID *string) bool {
	return IsSelf(actor, ownerUserID) || IsManagingAgency(actor, resourceAgencyID)
}

// RequireRole rejects actors whose role is outside the allowed set,
// independent of any ownership relation.
func RequireRole(actor domain.User, roles ...domain.Role) error {
	for _, r := range roles {
		if actor.Role == r {
			return nil
		}
	}
	return domain.ForbiddenError{
		Reason: fmt.Sprintf("role %s is not permitted to perform this operation", actor.Role),
	}
}

// OwnedSet is the list of user ids whose resources the actor may list:
// the actor itself plus, for an Agency, its current members.
func OwnedSet(actor domain.User, memberIDs []string) []string {
	ids := make([]string, 0, len(memberIDs)+1)
	ids = append(ids, actor.ID)
	if actor.Role != domain.RoleAgency {
		return ids
	}
	for _, id := range memberIDs {
		if id != actor.ID {
			ids = append(ids, id)
		}
	}
	return ids
}
