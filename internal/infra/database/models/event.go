package models

import (
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type Event struct {
	ID          string    `json:"id" gorm:"primaryKey;type:text"`
	UserID      string    `json:"userId" gorm:"type:text;index;not null"`
	AgencyID    *string   `json:"agencyId" gorm:"type:text;index"`
	Title       string    `json:"title" gorm:"type:text;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Start       time.Time `json:"start" gorm:"type:timestamp with time zone;index;not null"`
	End         time.Time `json:"end" gorm:"type:timestamp with time zone;not null"`
	AllDay      bool      `json:"allDay" gorm:"type:boolean;not null;default:false"`
	Location    string    `json:"location" gorm:"type:text"`
	CDate       time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (e Event) ToDomain() domain.Event {
	return domain.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		AgencyID:    e.AgencyID,
		Title:       e.Title,
		Description: e.Description,
		Start:       e.Start,
		End:         e.End,
		AllDay:      e.AllDay,
		Location:    e.Location,
		CreatedAt:   e.CDate,
	}
}
