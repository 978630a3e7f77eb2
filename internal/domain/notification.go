package domain

import "time"

type NotificationType string

const (
	NotificationSignatureRequest   NotificationType = "signature_request"
	NotificationDocumentSigned     NotificationType = "document_signed"
	NotificationInvitationAccepted NotificationType = "invitation_accepted"
)

// Notification is a per-user message emitted by the document and
// invitation workflows.
type Notification struct {
	ID         string           `json:"id"`
	UserID     string           `json:"userId"`
	Type       NotificationType `json:"type"`
	Message    string           `json:"message"`
	DocumentID *string          `json:"documentId,omitempty"`
	Read       bool             `json:"read"`
	CreatedAt  time.Time        `json:"createdAt"`
}
