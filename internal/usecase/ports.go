package usecase

import (
	"context"
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

// UserRepository defines lookup over the tenancy directory.
type UserRepository interface {
	Get(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	// MemberIDs returns the ids of all users whose AgencyID equals agencyID.
	MemberIDs(ctx context.Context, agencyID string) ([]string, error)
}

// DocumentRepository defines persistence for documents and their signer
// lists. MarkSigned and Accept-style mutations are conditional writes:
// they fail with ConflictError when the stored state has moved on.
type DocumentRepository interface {
	Create(ctx context.Context, doc domain.Document) (domain.Document, error)
	Get(ctx context.Context, id string) (domain.Document, error)
	ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Document, error)
	// SetSignatureRequest moves the document to Pending Signature and
	// overwrites requester/recipient unconditionally.
	SetSignatureRequest(ctx context.Context, id, requesterID, recipientID string) error
	// MarkSigned transitions to Signed and appends the signer entry, only
	// if the stored recipient is signerID and status is still
	// Pending Signature.
	MarkSigned(ctx context.Context, id, signerID string, signedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error
	Delete(ctx context.Context, id string) error
}

// InvitationRepository defines persistence for the invitation state
// machine. All terminal transitions are compare-and-set on Pending.
type InvitationRepository interface {
	Create(ctx context.Context, inv domain.Invitation) (domain.Invitation, error)
	Get(ctx context.Context, id string) (domain.Invitation, error)
	GetByToken(ctx context.Context, token string) (domain.Invitation, error)
	HasPending(ctx context.Context, agencyID, email string, now time.Time) (bool, error)
	ListByAgency(ctx context.Context, agencyID string) ([]domain.Invitation, error)
	ListPendingFor(ctx context.Context, userID, email string, now time.Time) ([]domain.Invitation, error)
	// Accept atomically marks the invitation Accepted and sets the user's
	// agency membership; both take effect or neither does.
	Accept(ctx context.Context, id, userID string, now time.Time) error
	Revoke(ctx context.Context, id string) error
	MarkExpired(ctx context.Context, id string) error
}

// RenewalRepository defines persistence for credential renewals.
type RenewalRepository interface {
	Create(ctx context.Context, r domain.Renewal) (domain.Renewal, error)
	Get(ctx context.Context, id string) (domain.Renewal, error)
	// ListUpcoming returns non-Completed renewals expiring inside
	// [from, to], soonest first, at most limit records.
	ListUpcoming(ctx context.Context, ownerIDs []string, from, to time.Time, limit int) ([]domain.Renewal, error)
	Update(ctx context.Context, r domain.Renewal) error
	Delete(ctx context.Context, id string) error
}

// EventRepository defines persistence for calendar events.
type EventRepository interface {
	Create(ctx context.Context, ev domain.Event) (domain.Event, error)
	Get(ctx context.Context, id string) (domain.Event, error)
	ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Event, error)
	Update(ctx context.Context, ev domain.Event) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository defines persistence for emitted notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
	Get(ctx context.Context, id string) (domain.Notification, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}

// BlobStore encapsulates the external object storage collaborator.
type BlobStore interface {
	Put(ctx context.Context, data []byte, name, mimeType string) (string, error)
	Delete(ctx context.Context, url string) error
}

// Mailer encapsulates best-effort outbound email.
type Mailer interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Notifier delivers workflow events to the notification sink. Delivery is
// fire-and-forget: it never fails the calling operation.
type Notifier interface {
	Dispatch(ctx context.Context, n domain.Notification, recipientEmail string)
}

// Cache is a small byte cache used by the renewal dashboard.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
}
