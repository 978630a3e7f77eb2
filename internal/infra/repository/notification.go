package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/infra/database/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	record := models.Notification{
		ID:         uuid.New().String(),
		UserID:     n.UserID,
		Type:       string(n.Type),
		Message:    n.Message,
		DocumentID: n.DocumentID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.Notification{}, err
	}
	return r.Get(ctx, record.ID)
}

func (r *NotificationRepository) Get(ctx context.Context, id string) (domain.Notification, error) {
	var record models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Notification{}, domain.NotFoundError{Resource: "notification"}
		}
		return domain.Notification{}, err
	}
	return record.ToDomain(), nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var records []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("c_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	notifications := make([]domain.Notification, 0, len(records))
	for _, record := range records {
		notifications = append(notifications, record.ToDomain())
	}
	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", id).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "notification"}
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("read", true).Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Notification{}, "id = ?", id).Error
}
