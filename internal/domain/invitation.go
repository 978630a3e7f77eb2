package domain

import "time"

type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "Pending"
	InvitationAccepted InvitationStatus = "Accepted"
	InvitationRejected InvitationStatus = "Rejected"
	InvitationExpired  InvitationStatus = "Expired"
)

// Invitation is a single-use, time-boxed offer of tenant membership.
// RecipientID is captured at send time if a user with the invited email
// already existed; it is never re-resolved afterwards. Invitations are
// kept forever as an audit trail.
type Invitation struct {
	ID             string           `json:"id"`
	AgencyID       string           `json:"agencyId"`
	RecipientEmail string           `json:"recipientEmail"`
	RecipientID    *string          `json:"recipientId,omitempty"`
	Token          string           `json:"token"`
	Message        string           `json:"message,omitempty"`
	Status         InvitationStatus `json:"status"`
	ExpiresAt      time.Time        `json:"expiresAt"`
	AcceptedAt     *time.Time       `json:"acceptedAt,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
}

// InvitationTTL is how long an invitation stays acceptable.
const InvitationTTL = 24 * time.Hour
