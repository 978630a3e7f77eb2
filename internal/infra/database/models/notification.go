package models

import (
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type Notification struct {
	ID         string    `json:"id" gorm:"primaryKey;type:text"`
	UserID     string    `json:"userId" gorm:"type:text;index;not null"`
	Type       string    `json:"type" gorm:"type:text;not null"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	DocumentID *string   `json:"documentId" gorm:"type:text"`
	Read       bool      `json:"read" gorm:"type:boolean;not null;default:false"`
	CDate      time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (n Notification) ToDomain() domain.Notification {
	return domain.Notification{
		ID:         n.ID,
		UserID:     n.UserID,
		Type:       domain.NotificationType(n.Type),
		Message:    n.Message,
		DocumentID: n.DocumentID,
		Read:       n.Read,
		CreatedAt:  n.CDate,
	}
}
