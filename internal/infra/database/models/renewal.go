package models

import (
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type Renewal struct {
	ID                    string     `json:"id" gorm:"primaryKey;type:text"`
	UserID                string     `json:"userId" gorm:"type:text;index;not null"`
	AgencyID              *string    `json:"agencyId" gorm:"type:text;index"`
	ItemType              string     `json:"itemType" gorm:"type:text;not null"`
	ItemName              string     `json:"itemName" gorm:"type:text;not null"`
	CurrentExpirationDate time.Time  `json:"currentExpirationDate" gorm:"type:timestamp with time zone;index;not null"`
	NewExpirationDate     *time.Time `json:"newExpirationDate" gorm:"type:timestamp with time zone"`
	DocumentID            *string    `json:"documentId" gorm:"type:text"`
	Status                string     `json:"status" gorm:"type:text;index;not null"`
	Notes                 string     `json:"notes" gorm:"type:text"`
	CDate                 time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (r Renewal) ToDomain() domain.Renewal {
	return domain.Renewal{
		ID:                    r.ID,
		UserID:                r.UserID,
		AgencyID:              r.AgencyID,
		ItemType:              r.ItemType,
		ItemName:              r.ItemName,
		CurrentExpirationDate: r.CurrentExpirationDate,
		NewExpirationDate:     r.NewExpirationDate,
		DocumentID:            r.DocumentID,
		Status:                domain.RenewalStatus(r.Status),
		Notes:                 r.Notes,
		CreatedAt:             r.CDate,
	}
}
