package usecase

import (
	"context"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/policy"
)

// NotificationUsecase serves the per-user inbox. Notifications are
// strictly personal: only the addressed user may read or clear them.
type NotificationUsecase struct {
	notifications NotificationRepository
}

func NewNotificationUsecase(notifications NotificationRepository) *NotificationUsecase {
	return &NotificationUsecase{notifications: notifications}
}

func (uc *NotificationUsecase) List(ctx context.Context, actor domain.User) ([]domain.Notification, error) {
	return uc.notifications.ListByUser(ctx, actor.ID)
}

func (uc *NotificationUsecase) MarkRead(ctx context.Context, actor domain.User, id string) (domain.Notification, error) {
	n, err := uc.notifications.Get(ctx, id)
	if err != nil {
		return domain.Notification{}, err
	}
	if !policy.IsSelf(actor, n.UserID) {
		return domain.Notification{}, domain.ForbiddenError{Reason: "not authorized to update this notification"}
	}
	if err := uc.notifications.MarkRead(ctx, n.ID); err != nil {
		return domain.Notification{}, err
	}
	n.Read = true
	return n, nil
}

func (uc *NotificationUsecase) ClearAll(ctx context.Context, actor domain.User) error {
	return uc.notifications.MarkAllRead(ctx, actor.ID)
}

func (uc *NotificationUsecase) Delete(ctx context.Context, actor domain.User, id string) error {
	n, err := uc.notifications.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.IsSelf(actor, n.UserID) {
		return domain.ForbiddenError{Reason: "not authorized to delete this notification"}
	}
	return uc.notifications.Delete(ctx, n.ID)
}
