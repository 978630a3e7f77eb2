package domain

import "time"

type DocumentStatus string

const (
	DocumentUploaded         DocumentStatus = "Uploaded"
	DocumentPendingReview    DocumentStatus = "Pending Review"
	DocumentPendingSignature DocumentStatus = "Pending Signature"
	DocumentApproved         DocumentStatus = "Approved"
	DocumentRejected         DocumentStatus = "Rejected"
	DocumentSigned           DocumentStatus = "Signed"
)

func (s DocumentStatus) Valid() bool {
	switch s {
	case DocumentUploaded, DocumentPendingReview, DocumentPendingSignature,
		DocumentApproved, DocumentRejected, DocumentSigned:
		return true
	}
	return false
}

// Signer is one entry of the append-only signer list.
type Signer struct {
	SignerID string    `json:"signerId"`
	SignedAt time.Time `json:"signedAt"`
}

// Document is an uploaded file plus its signature workflow state. AgencyID
// is the owner's tenant snapshotted at upload time; visibility queries go
// through the owned set instead, so stale snapshots never hide a record
// from its current agency.
type Document struct {
	ID                   string         `json:"id"`
	OwnerUserID          string         `json:"userId"`
	AgencyID             *string        `json:"agencyId,omitempty"`
	FileName             string         `json:"fileName"`
	FileURL              string         `json:"fileUrl"`
	FileMimeType         string         `json:"fileMimeType"`
	Category             string         `json:"category"`
	ExpirationDate       *time.Time     `json:"expirationDate,omitempty"`
	Status               DocumentStatus `json:"status"`
	SignatureRequesterID *string        `json:"signatureRequesterId,omitempty"`
	SignatureRecipientID *string        `json:"signatureRecipientId,omitempty"`
	SignedBy             []Signer       `json:"signedBy"`
	CreatedAt            time.Time      `json:"createdAt"`
}
