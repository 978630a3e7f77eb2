package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/infra/database/models"
)

type RenewalRepository struct {
	db *gorm.DB
}

func NewRenewalRepository(db *gorm.DB) *RenewalRepository {
	return &RenewalRepository{db: db}
}

func (r *RenewalRepository) Create(ctx context.Context, renewal domain.Renewal) (domain.Renewal, error) {
	record := models.Renewal{
		ID:                    uuid.New().String(),
		UserID:                renewal.UserID,
		AgencyID:              renewal.AgencyID,
		ItemType:              renewal.ItemType,
		ItemName:              renewal.ItemName,
		CurrentExpirationDate: renewal.CurrentExpirationDate,
		NewExpirationDate:     renewal.NewExpirationDate,
		DocumentID:            renewal.DocumentID,
		Status:                string(renewal.Status),
		Notes:                 renewal.Notes,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.Renewal{}, err
	}
	return r.Get(ctx, record.ID)
}

func (r *RenewalRepository) Get(ctx context.Context, id string) (domain.Renewal, error) {
	var record models.Renewal
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Renewal{}, domain.NotFoundError{Resource: "renewal"}
		}
		return domain.Renewal{}, err
	}
	return record.ToDomain(), nil
}

func (r *RenewalRepository) ListUpcoming(ctx context.Context, ownerIDs []string, from, to time.Time, limit int) ([]domain.Renewal, error) {
	var records []models.Renewal
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ownerIDs).
		Where("current_expiration_date >= ? AND current_expiration_date <= ?", from, to).
		Where("status <> ?", string(domain.RenewalCompleted)).
		Order("current_expiration_date ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	renewals := make([]domain.Renewal, 0, len(records))
	for _, record := range records {
		renewals = append(renewals, record.ToDomain())
	}
	return renewals, nil
}

func (r *RenewalRepository) Update(ctx context.Context, renewal domain.Renewal) error {
	res := r.db.WithContext(ctx).
		Model(&models.Renewal{}).
		Where("id = ?", renewal.ID).
		Updates(map[string]any{
			"item_type":               renewal.ItemType,
			"item_name":               renewal.ItemName,
			"current_expiration_date": renewal.CurrentExpirationDate,
			"new_expiration_date":     renewal.NewExpirationDate,
			"document_id":             renewal.DocumentID,
			"status":                  string(renewal.Status),
			"notes":                   renewal.Notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "renewal"}
	}
	return nil
}

func (r *RenewalRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Renewal{}, "id = ?", id).Error
}
