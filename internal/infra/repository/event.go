package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/infra/database/models"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, ev domain.Event) (domain.Event, error) {
	record := models.Event{
		ID:          uuid.New().String(),
		UserID:      ev.UserID,
		AgencyID:    ev.AgencyID,
		Title:       ev.Title,
		Description: ev.Description,
		Start:       ev.Start,
		End:         ev.End,
		AllDay:      ev.AllDay,
		Location:    ev.Location,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.Event{}, err
	}
	return r.Get(ctx, record.ID)
}

func (r *EventRepository) Get(ctx context.Context, id string) (domain.Event, error) {
	var record models.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Event{}, domain.NotFoundError{Resource: "event"}
		}
		return domain.Event{}, err
	}
	return record.ToDomain(), nil
}

func (r *EventRepository) ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Event, error) {
	var records []models.Event
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ownerIDs).
		Order("start ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	events := make([]domain.Event, 0, len(records))
	for _, record := range records {
		events = append(events, record.ToDomain())
	}
	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, ev domain.Event) error {
	res := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", ev.ID).
		Updates(map[string]any{
			"title":       ev.Title,
			"description": ev.Description,
			"start":       ev.Start,
			"end":         ev.End,
			"all_day":     ev.AllDay,
			"location":    ev.Location,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError{Resource: "event"}
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", id).Error
}
