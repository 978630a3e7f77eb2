package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/policy"
)

const upcomingCacheTTL = time.Minute

type RenewalUsecase struct {
	renewals RenewalRepository
	users    UserRepository
	cache    Cache
	now      func() time.Time
}

func NewRenewalUsecase(renewals RenewalRepository, users UserRepository, cache Cache) *RenewalUsecase {
	return &RenewalUsecase{
		renewals: renewals,
		users:    users,
		cache:    cache,
		now:      time.Now,
	}
}

type RenewalCreateInput struct {
	UserID                string
	ItemType              string
	ItemName              string
	CurrentExpirationDate time.Time
	NewExpirationDate     *time.Time
	DocumentID            *string
	Status                domain.RenewalStatus
	Notes                 string
}

func (uc *RenewalUsecase) Create(ctx context.Context, actor domain.User, input RenewalCreateInput) (domain.Renewal, error) {
	if input.UserID == "" {
		return domain.Renewal{}, domain.InvalidError{Reason: "user id is required"}
	}
	if input.ItemType == "" || input.ItemName == "" {
		return domain.Renewal{}, domain.InvalidError{Reason: "item type and item name are required"}
	}
	if input.CurrentExpirationDate.IsZero() {
		return domain.Renewal{}, domain.InvalidError{Reason: "current expiration date is required"}
	}
	status := input.Status
	if status == "" {
		status = domain.RenewalPending
	}
	if !status.Valid() {
		return domain.Renewal{}, domain.InvalidError{Reason: fmt.Sprintf("unknown renewal status %q", status)}
	}

	target, err := uc.users.Get(ctx, input.UserID)
	if err != nil {
		return domain.Renewal{}, err
	}
	agencyID := tenantSnapshot(target)

	if actor.Role != domain.RoleAdmin && !policy.CanAccess(actor, target.ID, agencyID) {
		return domain.Renewal{}, domain.ForbiddenError{
			Reason: "not authorized to create a renewal for this user",
		}
	}

	r := domain.Renewal{
		UserID:                target.ID,
		AgencyID:              agencyID,
		ItemType:              input.ItemType,
		ItemName:              input.ItemName,
		CurrentExpirationDate: input.CurrentExpirationDate,
		NewExpirationDate:     input.NewExpirationDate,
		DocumentID:            input.DocumentID,
		Status:                status,
		Notes:                 input.Notes,
	}
	created, err := uc.renewals.Create(ctx, r)
	if err != nil {
		return domain.Renewal{}, err
	}
	uc.invalidateUpcoming(actor)
	return created, nil
}

// GetUpcoming is the "next five" dashboard: renewals expiring inside the
// next 90 days, Completed excluded, soonest first. The payload is cached
// per actor for a minute.
func (uc *RenewalUsecase) GetUpcoming(ctx context.Context, actor domain.User) ([]domain.Renewal, error) {
	key := upcomingCacheKey(actor)
	if uc.cache != nil {
		if raw, ok := uc.cache.Get(key); ok {
			var cached []domain.Renewal
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	owners, err := ownedSet(ctx, uc.users, actor)
	if err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	renewals, err := uc.renewals.ListUpcoming(ctx, owners, now, now.Add(domain.UpcomingWindow), domain.UpcomingLimit)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		raw, err := json.Marshal(renewals)
		if err == nil {
			uc.cache.Set(key, raw, upcomingCacheTTL)
		} else {
			slog.Warn("failed to cache upcoming renewals",
				slog.String("error", err.Error()),
				slog.String("module", "renewal"),
			)
		}
	}
	return renewals, nil
}

func upcomingCacheKey(actor domain.User) string {
	return "renewals:upcoming:" + actor.ID
}

func (uc *RenewalUsecase) invalidateUpcoming(actor domain.User) {
	if uc.cache != nil {
		uc.cache.Delete(upcomingCacheKey(actor))
	}
}

func (uc *RenewalUsecase) Get(ctx context.Context, actor domain.User, id string) (domain.Renewal, error) {
	r, err := uc.renewals.Get(ctx, id)
	if err != nil {
		return domain.Renewal{}, err
	}
	if !policy.CanAccess(actor, r.UserID, r.AgencyID) {
		return domain.Renewal{}, domain.ForbiddenError{Reason: "not authorized to view this renewal"}
	}
	return r, nil
}

type RenewalUpdateInput struct {
	ItemType              *string
	ItemName              *string
	CurrentExpirationDate *time.Time
	NewExpirationDate     *time.Time
	DocumentID            *string
	Status                *domain.RenewalStatus
	Notes                 *string
}

func (uc *RenewalUsecase) Update(ctx context.Context, actor domain.User, id string, input RenewalUpdateInput) (domain.Renewal, error) {
	r, err := uc.renewals.Get(ctx, id)
	if err != nil {
		return domain.Renewal{}, err
	}
	if !policy.CanAccess(actor, r.UserID, r.AgencyID) {
		return domain.Renewal{}, domain.ForbiddenError{Reason: "not authorized to update this renewal"}
	}

	if input.ItemType != nil {
		r.ItemType = *input.ItemType
	}
	if input.ItemName != nil {
		r.ItemName = *input.ItemName
	}
	if input.CurrentExpirationDate != nil {
		r.CurrentExpirationDate = *input.CurrentExpirationDate
	}
	if input.NewExpirationDate != nil {
		r.NewExpirationDate = input.NewExpirationDate
	}
	if input.DocumentID != nil {
		r.DocumentID = input.DocumentID
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return domain.Renewal{}, domain.InvalidError{
				Reason: fmt.Sprintf("unknown renewal status %q", *input.Status),
			}
		}
		r.Status = *input.Status
	}
	if input.Notes != nil {
		r.Notes = *input.Notes
	}

	if err := uc.renewals.Update(ctx, r); err != nil {
		return domain.Renewal{}, err
	}
	uc.invalidateUpcoming(actor)
	return r, nil
}

// Delete permits the managing agency, the owning user, or an Admin.
func (uc *RenewalUsecase) Delete(ctx context.Context, actor domain.User, id string) error {
	r, err := uc.renewals.Get(ctx, id)
	if err != nil {
		return err
	}
	if actor.Role != domain.RoleAdmin && !policy.CanAccess(actor, r.UserID, r.AgencyID) {
		return domain.ForbiddenError{Reason: "not authorized to delete this renewal"}
	}
	if err := uc.renewals.Delete(ctx, r.ID); err != nil {
		return err
	}
	uc.invalidateUpcoming(actor)
	return nil
}
