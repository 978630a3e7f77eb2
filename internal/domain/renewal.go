package domain

import "time"

type RenewalStatus string

const (
	RenewalPending   RenewalStatus = "Pending"
	RenewalNotified  RenewalStatus = "Notified"
	RenewalCompleted RenewalStatus = "Completed"
	RenewalOverdue   RenewalStatus = "Overdue"
)

func (s RenewalStatus) Valid() bool {
	switch s {
	case RenewalPending, RenewalNotified, RenewalCompleted, RenewalOverdue:
		return true
	}
	return false
}

// Renewal tracks the expiry of a credential (license, certification) held
// by a user. AgencyID is the tenant snapshot taken at creation; nil for
// standalone Individuals.
type Renewal struct {
	ID                    string        `json:"id"`
	UserID                string        `json:"userId"`
	AgencyID              *string       `json:"agencyId,omitempty"`
	ItemType              string        `json:"itemType"`
	ItemName              string        `json:"itemName"`
	CurrentExpirationDate time.Time     `json:"currentExpirationDate"`
	NewExpirationDate     *time.Time    `json:"newExpirationDate,omitempty"`
	DocumentID            *string       `json:"documentId,omitempty"`
	Status                RenewalStatus `json:"status"`
	Notes                 string        `json:"notes,omitempty"`
	CreatedAt             time.Time     `json:"createdAt"`
}

// UpcomingWindow is the lookahead for the renewal dashboard.
const UpcomingWindow = 90 * 24 * time.Hour

// UpcomingLimit caps the dashboard to the next five expirations.
const UpcomingLimit = 5
