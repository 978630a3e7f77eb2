package usecase

import (
	"context"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/policy"
)

// ownedSet resolves the actor's visible user ids against current
// membership. Listing always goes through this rather than per-record
// agency snapshots, so agency visibility tracks the directory.
func ownedSet(ctx context.Context, users UserRepository, actor domain.User) ([]string, error) {
	if actor.Role != domain.RoleAgency {
		return []string{actor.ID}, nil
	}
	memberIDs, err := users.MemberIDs(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return policy.OwnedSet(actor, memberIDs), nil
}

// tenantSnapshot derives the agencyId captured on a record created by or
// for the given user: the agency itself, a staff member's agency, or nil.
func tenantSnapshot(u domain.User) *string {
	switch {
	case u.Role == domain.RoleAgency:
		id := u.ID
		return &id
	case u.Role == domain.RoleStaff && u.AgencyID != nil:
		return u.AgencyID
	}
	return nil
}
