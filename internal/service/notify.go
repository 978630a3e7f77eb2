package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/usecase"
)

// NotifyService is the notification sink: it persists the notification,
// publishes it on the per-user redis channel, and mails the recipient.
// Every leg is best-effort; a sink failure never fails the workflow that
// emitted the event.
type NotifyService struct {
	store  usecase.NotificationRepository
	rdb    *redis.Client
	mailer usecase.Mailer
}

func NewNotifyService(store usecase.NotificationRepository, rdb *redis.Client, mailer usecase.Mailer) *NotifyService {
	return &NotifyService{
		store:  store,
		rdb:    rdb,
		mailer: mailer,
	}
}

func (s *NotifyService) Dispatch(ctx context.Context, n domain.Notification, recipientEmail string) {
	saved, err := s.store.Create(ctx, n)
	if err != nil {
		slog.ErrorContext(ctx, "failed to persist notification",
			slog.String("error", err.Error()),
			slog.String("module", "notify"),
		)
		saved = n
	}

	s.publish(ctx, saved)

	if s.mailer != nil && recipientEmail != "" {
		// detach from the request so cancellation cannot interrupt delivery
		go s.mail(context.WithoutCancel(ctx), saved, recipientEmail)
	}
}

func (s *NotifyService) publish(ctx context.Context, n domain.Notification) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		slog.ErrorContext(ctx, "failed to marshal notification",
			slog.String("error", err.Error()),
			slog.String("module", "notify"),
		)
		return
	}
	channel := "notifications:" + n.UserID
	if err := s.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to publish notification",
			slog.String("error", err.Error()),
			slog.String("channel", channel),
			slog.String("module", "notify"),
		)
	}
}

func (s *NotifyService) mail(ctx context.Context, n domain.Notification, to string) {
	subject := mailSubject(n.Type)
	if err := s.mailer.Send(ctx, to, subject, n.Message, ""); err != nil {
		slog.ErrorContext(ctx, "failed to send notification mail",
			slog.String("error", err.Error()),
			slog.String("to", to),
			slog.String("module", "notify"),
		)
	}
}

func mailSubject(t domain.NotificationType) string {
	switch t {
	case domain.NotificationSignatureRequest:
		return "A document is waiting for your signature"
	case domain.NotificationDocumentSigned:
		return "Your document has been signed"
	case domain.NotificationInvitationAccepted:
		return "Your invitation has been accepted"
	default:
		return fmt.Sprintf("Notification: %s", t)
	}
}
