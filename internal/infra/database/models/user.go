package models

import (
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type User struct {
	ID       string    `json:"id" gorm:"primaryKey;type:text"`
	Username string    `json:"username" gorm:"type:text;not null"`
	Email    string    `json:"email" gorm:"type:text;uniqueIndex;not null"`
	Role     string    `json:"role" gorm:"type:text;not null"`
	AgencyID *string   `json:"agencyId" gorm:"type:text;index"`
	CDate    time.Time `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

func (u User) ToDomain() domain.User {
	return domain.User{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     domain.Role(u.Role),
		AgencyID: u.AgencyID,
	}
}
