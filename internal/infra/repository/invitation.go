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

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, inv domain.Invitation) (domain.Invitation, error) {
	record := models.Invitation{
		ID:             uuid.New().String(),
		AgencyID:       inv.AgencyID,
		RecipientEmail: inv.RecipientEmail,
		RecipientID:    inv.RecipientID,
		Token:          inv.Token,
		Message:        inv.Message,
		Status:         string(inv.Status),
		ExpiresAt:      inv.ExpiresAt,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return domain.Invitation{}, err
	}
	return r.Get(ctx, record.ID)
}

func (r *InvitationRepository) Get(ctx context.Context, id string) (domain.Invitation, error) {
	var record models.Invitation
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Invitation{}, domain.NotFoundError{Resource: "invitation"}
		}
		return domain.Invitation{}, err
	}
	return record.ToDomain(), nil
}

func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (domain.Invitation, error) {
	var record models.Invitation
	err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Invitation{}, domain.NotFoundError{Resource: "invitation"}
		}
		return domain.Invitation{}, err
	}
	return record.ToDomain(), nil
}

func (r *InvitationRepository) HasPending(ctx context.Context, agencyID, email string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("agency_id = ? AND recipient_email = ? AND status = ? AND expires_at > ?",
			agencyID, email, string(domain.InvitationPending), now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *InvitationRepository) ListByAgency(ctx context.Context, agencyID string) ([]domain.Invitation, error) {
	var records []models.Invitation
	err := r.db.WithContext(ctx).
		Where("agency_id = ?", agencyID).
		Order("c_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainInvitations(records), nil
}

func (r *InvitationRepository) ListPendingFor(ctx context.Context, userID, email string, now time.Time) ([]domain.Invitation, error) {
	var records []models.Invitation
	err := r.db.WithContext(ctx).
		Where("(recipient_id = ? OR recipient_email = ?) AND status = ? AND expires_at > ?",
			userID, email, string(domain.InvitationPending), now).
		Order("c_date DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return toDomainInvitations(records), nil
}

// Accept flips the invitation to Accepted and binds the user to the
// inviting agency inside one transaction. Both writes are conditional;
// losing either compare-and-set rolls the whole thing back.
func (r *InvitationRepository) Accept(ctx context.Context, id, userID string, now time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Invitation
		err := tx.Where("id = ?", id).Take(&inv).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundError{Resource: "invitation"}
			}
			return err
		}

		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", id, string(domain.InvitationPending)).
			Updates(map[string]any{
				"status":      string(domain.InvitationAccepted),
				"accepted_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ConflictError{Reason: "invitation is no longer pending"}
		}

		res = tx.Model(&models.User{}).
			Where("id = ? AND agency_id IS NULL", userID).
			Update("agency_id", inv.AgencyID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ConflictError{Reason: "user already belongs to an agency"}
		}
		return nil
	})
}

func (r *InvitationRepository) Revoke(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, string(domain.InvitationPending)).
		Update("status", string(domain.InvitationRejected))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ConflictError{Reason: "invitation is no longer pending"}
	}
	return nil
}

// MarkExpired is idempotent: an invitation that already left Pending is
// left alone.
func (r *InvitationRepository) MarkExpired(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ? AND status = ?", id, string(domain.InvitationPending)).
		Update("status", string(domain.InvitationExpired)).Error
}

func toDomainInvitations(records []models.Invitation) []domain.Invitation {
	invitations := make([]domain.Invitation, 0, len(records))
	for _, record := range records {
		invitations = append(invitations, record.ToDomain())
	}
	return invitations
}
