package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/policy"
)

type InvitationUsecase struct {
	invitations InvitationRepository
	users       UserRepository
	mailer      Mailer
	notifier    Notifier
	now         func() time.Time
}

func NewInvitationUsecase(
	invitations InvitationRepository,
	users UserRepository,
	mailer Mailer,
	notifier Notifier,
) *InvitationUsecase {
	return &InvitationUsecase{
		invitations: invitations,
		users:       users,
		mailer:      mailer,
		notifier:    notifier,
		now:         time.Now,
	}
}

// newInviteToken returns 256 bits of entropy as hex.
func newInviteToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// Send issues a Pending invitation bound to the recipient email. At most
// one Pending, non-expired invitation may exist per (agency, email).
func (uc *InvitationUsecase) Send(ctx context.Context, actor domain.User, recipientEmail, message string) (domain.Invitation, error) {
	if err := policy.RequireRole(actor, domain.RoleAgency); err != nil {
		return domain.Invitation{}, err
	}
	if recipientEmail == "" || !strings.Contains(recipientEmail, "@") {
		return domain.Invitation{}, domain.InvalidError{Reason: "a valid recipient email is required"}
	}

	var recipientID *string
	recipient, err := uc.users.GetByEmail(ctx, recipientEmail)
	switch {
	case err == nil:
		if recipient.Role == domain.RoleAgency {
			return domain.Invitation{}, domain.ConflictError{
				Reason: "cannot send an invitation to another agency",
			}
		}
		if recipient.AgencyID != nil && *recipient.AgencyID == actor.ID {
			return domain.Invitation{}, domain.ConflictError{
				Reason: "user with this email is already part of this agency",
			}
		}
		if recipient.AgencyID != nil {
			return domain.Invitation{}, domain.ConflictError{
				Reason: "user with this email is already part of another agency",
			}
		}
		id := recipient.ID
		recipientID = &id
	case errors.Is(err, domain.ErrNotFound):
		// the recipient may register later; the invitation stays email-bound
	default:
		return domain.Invitation{}, err
	}

	now := uc.now().UTC()
	pending, err := uc.invitations.HasPending(ctx, actor.ID, recipientEmail, now)
	if err != nil {
		return domain.Invitation{}, err
	}
	if pending {
		return domain.Invitation{}, domain.ConflictError{
			Reason: "a pending invitation to this email already exists from your agency",
		}
	}

	inv := domain.Invitation{
		AgencyID:       actor.ID,
		RecipientEmail: recipientEmail,
		RecipientID:    recipientID,
		Token:          newInviteToken(),
		Message:        message,
		Status:         domain.InvitationPending,
		ExpiresAt:      now.Add(domain.InvitationTTL),
	}
	inv, err = uc.invitations.Create(ctx, inv)
	if err != nil {
		return domain.Invitation{}, err
	}

	uc.sendInviteMail(ctx, actor, inv)

	return inv, nil
}

func (uc *InvitationUsecase) sendInviteMail(ctx context.Context, agency domain.User, inv domain.Invitation) {
	subject := fmt.Sprintf("%s invited you to join their agency", agency.Username)
	text := fmt.Sprintf(
		"You have been invited to join %s. Use the token below to accept within 24 hours.\n\n%s",
		agency.Username, inv.Token,
	)
	if inv.Message != "" {
		text = fmt.Sprintf("%s\n\nMessage from the agency: %s", text, inv.Message)
	}
	if err := uc.mailer.Send(ctx, inv.RecipientEmail, subject, text, ""); err != nil {
		slog.ErrorContext(ctx, "failed to send invitation mail",
			slog.String("error", err.Error()),
			slog.String("module", "invitation"),
		)
	}
}

// Accept consumes a token and transfers tenant membership. The invitation
// and the user record change as one atomic unit; a raced second accept
// loses the compare-and-set and reports Conflict.
func (uc *InvitationUsecase) Accept(ctx context.Context, actor domain.User, token string) (domain.Invitation, error) {
	if token == "" {
		return domain.Invitation{}, domain.InvalidError{Reason: "invitation token is required"}
	}

	inv, err := uc.invitations.GetByToken(ctx, token)
	if err != nil {
		return domain.Invitation{}, err
	}

	if inv.Status != domain.InvitationPending {
		return domain.Invitation{}, domain.ConflictError{
			Reason: fmt.Sprintf("invitation has already been %s", strings.ToLower(string(inv.Status))),
		}
	}

	now := uc.now().UTC()
	if now.After(inv.ExpiresAt) {
		// lazy expiry: the failed attempt is what flips the status
		if err := uc.invitations.MarkExpired(ctx, inv.ID); err != nil {
			slog.WarnContext(ctx, "failed to expire invitation",
				slog.String("error", err.Error()),
				slog.String("module", "invitation"),
			)
		}
		return domain.Invitation{}, domain.ExpiredTokenError{}
	}

	if actor.Email != inv.RecipientEmail {
		return domain.Invitation{}, domain.ForbiddenError{
			Reason: "your email does not match the invited email for this token",
		}
	}
	if inv.RecipientID != nil && *inv.RecipientID != actor.ID {
		return domain.Invitation{}, domain.ForbiddenError{
			Reason: "this invitation was not intended for your user",
		}
	}

	if actor.AgencyID != nil {
		if *actor.AgencyID == inv.AgencyID {
			return domain.Invitation{}, domain.ConflictError{Reason: "you are already part of this agency"}
		}
		return domain.Invitation{}, domain.ConflictError{
			Reason: "you are already part of another agency",
		}
	}

	if err := uc.invitations.Accept(ctx, inv.ID, actor.ID, now); err != nil {
		return domain.Invitation{}, err
	}

	uc.notifyAgency(ctx, actor, inv)

	return uc.invitations.Get(ctx, inv.ID)
}

func (uc *InvitationUsecase) notifyAgency(ctx context.Context, member domain.User, inv domain.Invitation) {
	agency, err := uc.users.Get(ctx, inv.AgencyID)
	if err != nil {
		return
	}
	name := member.Username
	if name == "" {
		name = member.Email
	}
	uc.notifier.Dispatch(ctx, domain.Notification{
		UserID:  agency.ID,
		Type:    domain.NotificationInvitationAccepted,
		Message: fmt.Sprintf("Invitation to %s has been accepted.", name),
	}, agency.Email)
}

// Revoke terminates a Pending invitation. Revocation is final: the token
// cannot be accepted afterwards, even before its expiry.
func (uc *InvitationUsecase) Revoke(ctx context.Context, actor domain.User, id string) (domain.Invitation, error) {
	inv, err := uc.invitations.Get(ctx, id)
	if err != nil {
		return domain.Invitation{}, err
	}
	if inv.AgencyID != actor.ID {
		return domain.Invitation{}, domain.ForbiddenError{Reason: "not authorized to revoke this invitation"}
	}
	if inv.Status != domain.InvitationPending {
		return domain.Invitation{}, domain.ConflictError{
			Reason: fmt.Sprintf("invitation cannot be revoked, current status: %s", inv.Status),
		}
	}
	if err := uc.invitations.Revoke(ctx, inv.ID); err != nil {
		return domain.Invitation{}, err
	}
	return uc.invitations.Get(ctx, inv.ID)
}

// ListSent returns every invitation the agency has issued, the audit
// trail included.
func (uc *InvitationUsecase) ListSent(ctx context.Context, actor domain.User) ([]domain.Invitation, error) {
	if err := policy.RequireRole(actor, domain.RoleAgency); err != nil {
		return nil, err
	}
	return uc.invitations.ListByAgency(ctx, actor.ID)
}

// ListPending returns the open, unexpired invitations addressed to the
// actor by id or email.
func (uc *InvitationUsecase) ListPending(ctx context.Context, actor domain.User) ([]domain.Invitation, error) {
	if err := policy.RequireRole(actor, domain.RoleStaff, domain.RoleIndividual); err != nil {
		return nil, err
	}
	return uc.invitations.ListPendingFor(ctx, actor.ID, actor.Email, uc.now().UTC())
}
