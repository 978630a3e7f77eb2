package models

import (
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

type Document struct {
	ID                   string           `json:"id" gorm:"primaryKey;type:text"`
	OwnerUserID          string           `json:"userId" gorm:"type:text;index;not null"`
	AgencyID             *string          `json:"agencyId" gorm:"type:text;index"`
	FileName             string           `json:"fileName" gorm:"type:text;not null"`
	FileURL              string           `json:"fileUrl" gorm:"type:text;not null"`
	FileMimeType         string           `json:"fileMimeType" gorm:"type:text"`
	Category             string           `json:"category" gorm:"type:text;not null"`
	ExpirationDate       *time.Time       `json:"expirationDate" gorm:"type:timestamp with time zone"`
	Status               string           `json:"status" gorm:"type:text;not null"`
	SignatureRequesterID *string          `json:"signatureRequesterId" gorm:"type:text"`
	SignatureRecipientID *string          `json:"signatureRecipientId" gorm:"type:text"`
	Signers              []DocumentSigner `json:"signers" gorm:"foreignKey:DocumentID;references:ID;constraint:OnDelete:CASCADE;"`
	CDate                time.Time        `json:"cdate" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// DocumentSigner is one row of the append-only signer list; the composite
// key keeps a signer from appearing twice on the same document.
type DocumentSigner struct {
	DocumentID string    `json:"documentId" gorm:"primaryKey;type:text"`
	SignerID   string    `json:"signerId" gorm:"primaryKey;type:text"`
	SignedAt   time.Time `json:"signedAt" gorm:"type:timestamp with time zone;not null"`
}

func (d Document) ToDomain() domain.Document {
	signers := make([]domain.Signer, 0, len(d.Signers))
	for _, s := range d.Signers {
		signers = append(signers, domain.Signer{SignerID: s.SignerID, SignedAt: s.SignedAt})
	}
	return domain.Document{
		ID:                   d.ID,
		OwnerUserID:          d.OwnerUserID,
		AgencyID:             d.AgencyID,
		FileName:             d.FileName,
		FileURL:              d.FileURL,
		FileMimeType:         d.FileMimeType,
		Category:             d.Category,
		ExpirationDate:       d.ExpirationDate,
		Status:               domain.DocumentStatus(d.Status),
		SignatureRequesterID: d.SignatureRequesterID,
		SignatureRecipientID: d.SignatureRecipientID,
		SignedBy:             signers,
		CreatedAt:            d.CDate,
	}
}
