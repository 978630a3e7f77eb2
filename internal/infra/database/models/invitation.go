package models

import (
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type Invitation struct {
	ID             string     `json:"id" gorm:"primaryKey;type:text"`
	AgencyID       string     `json:"agencyId" gorm:"type:text;index;not null"`
	RecipientEmail string     `json:"recipientEmail" gorm:"type:text;index;not null"`
	RecipientID    *string    `json:"recipientId" gorm:"type:text;index"`
	Token          string     `json:"token" gorm:"type:text;uniqueIndex;not null"`
	Message        string     `json:"message" gorm:"type:text"`
	Status         string     `json:"status" gorm:"type:text;index;not null"`
	ExpiresAt      time.Time  `json:"expiresAt" gorm:"type:timestamp with time zone;not null"`
	AcceptedAt     *time.Time `json:"acceptedAt" gorm:"type:timestamp with time zone"`
	CDate          time.Time  `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (i Invitation) ToDomain() domain.Invitation {
	return domain.Invitation{
		ID:             i.ID,
		AgencyID:       i.AgencyID,
		RecipientEmail: i.RecipientEmail,
		RecipientID:    i.RecipientID,
		Token:          i.Token,
		Message:        i.Message,
		Status:         domain.InvitationStatus(i.Status),
		ExpiresAt:      i.ExpiresAt,
		AcceptedAt:     i.AcceptedAt,
		CreatedAt:      i.CDate,
	}
}
