package domain

import "time"

// Event is a calendar entry owned by a user, scoped to their tenant the
// same way documents are.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	AgencyID    *string   `json:"agencyId,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
