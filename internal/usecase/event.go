package usecase

import (
	"context"
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/policy"
)

type EventUsecase struct {
	events EventRepository
	users  UserRepository
}

func NewEventUsecase(events EventRepository, users UserRepository) *EventUsecase {
	return &EventUsecase{events: events, users: users}
}

type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	AllDay      bool
	Location    string
}

func validateEventInput(input EventInput) error {
	if input.Title == "" {
		return domain.InvalidError{Reason: "title is required"}
	}
	if input.Start.IsZero() || input.End.IsZero() {
		return domain.InvalidError{Reason: "start and end are required"}
	}
	if input.End.Before(input.Start) {
		return domain.InvalidError{Reason: "end must not precede start"}
	}
	return nil
}

func (uc *EventUsecase) Create(ctx context.Context, actor domain.User, input EventInput) (domain.Event, error) {
	if err := validateEventInput(input); err != nil {
		return domain.Event{}, err
	}
	ev := domain.Event{
		UserID:      actor.ID,
		AgencyID:    tenantSnapshot(actor),
		Title:       input.Title,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
		AllDay:      input.AllDay,
		Location:    input.Location,
	}
	return uc.events.Create(ctx, ev)
}

// List returns events for the actor's owned set, earliest start first.
func (uc *EventUsecase) List(ctx context.Context, actor domain.User) ([]domain.Event, error) {
	owners, err := ownedSet(ctx, uc.users, actor)
	if err != nil {
		return nil, err
	}
	return uc.events.ListByOwners(ctx, owners)
}

func (uc *EventUsecase) Get(ctx context.Context, actor domain.User, id string) (domain.Event, error) {
	ev, err := uc.events.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if !policy.CanAccess(actor, ev.UserID, ev.AgencyID) {
		return domain.Event{}, domain.ForbiddenError{Reason: "not authorized to view this event"}
	}
	return ev, nil
}

func (uc *EventUsecase) Update(ctx context.Context, actor domain.User, id string, input EventInput) (domain.Event, error) {
	ev, err := uc.events.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if !policy.CanAccess(actor, ev.UserID, ev.AgencyID) {
		return domain.Event{}, domain.ForbiddenError{Reason: "not authorized to update this event"}
	}
	if err := validateEventInput(input); err != nil {
		return domain.Event{}, err
	}
	ev.Title = input.Title
	ev.Description = input.Description
	ev.Start = input.Start
	ev.End = input.End
	ev.AllDay = input.AllDay
	ev.Location = input.Location
	if err := uc.events.Update(ctx, ev); err != nil {
		return domain.Event{}, err
	}
	return ev, nil
}

func (uc *EventUsecase) Delete(ctx context.Context, actor domain.User, id string) error {
	ev, err := uc.events.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanAccess(actor, ev.UserID, ev.AgencyID) {
		return domain.ForbiddenError{Reason: "not authorized to delete this event"}
	}
	return uc.events.Delete(ctx, ev.ID)
}
