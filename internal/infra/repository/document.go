package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/infra/database/models"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	record := models.Document{
		ID:                   uuid.New().String(),
		OwnerUserID:          doc.OwnerUserID,
		AgencyID:             doc.AgencyID,
		FileName:             doc.FileName,
		FileURL:              doc.FileURL,
		FileMimeType:         doc.FileMimeType,
		Category:             doc.Category,
		ExpirationDate:       doc.ExpirationDate,
		Status:               string(doc.Status),
		SignatureRequesterID: doc.SignatureRequesterID,
		SignatureRecipientID: doc.SignatureRecipientID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.Document{}, err
	}
	return r.Get(ctx, record.ID)
}

func (r *DocumentRepository) Get(ctx context.Context, id string) (domain.Document, error) {
	var record models.Document
	err := r.db.WithContext(ctx).
		Preload("Signers").
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Document{}, domain.NotFoundError{Resource: "document"}
		}
		return domain.Document{}, err
	}
	return record.ToDomain(), nil
}

func (r *DocumentRepository) ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Document, error) {
	var records []models.Document
	err := r.db.WithContext(ctx).
		Preload("Signers").
		Where("owner_user_id IN ?", ownerIDs).
		Order("c_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	docs := make([]domain.Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, record.ToDomain())
	}
	return docs, nil
}

func (r *DocumentRepository) SetSignatureRequest(ctx context.Context, id, requesterID, recipientID string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":                 string(domain.DocumentPendingSignature),
			"signature_requester_id": requesterID,
			"signature_recipient_id": recipientID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "document"}
	}
	return nil
}

// MarkSigned is guarded on the stored recipient and status so that a
// stale retry or a raced second signer cannot both succeed.
func (r *DocumentRepository) MarkSigned(ctx context.Context, id, signerID string, signedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Document{}).
			Where("id = ? AND signature_recipient_id = ? AND status = ?",
				id, signerID, string(domain.DocumentPendingSignature)).
			Update("status", string(domain.DocumentSigned))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ConflictError{Reason: "document is not awaiting this signature"}
		}

		signer := models.DocumentSigner{
			DocumentID: id,
			SignerID:   signerID,
			SignedAt:   signedAt,
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&signer).Error
	})
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "document"}
	}
	return nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Document{}, "id = ?", id).Error
}
