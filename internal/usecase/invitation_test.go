package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

func newInvitationFixture() (*InvitationUsecase, *mockInvRepo, *mockUserRepo, *mockMailer, *mockNotifier) {
	users := newMockUserRepo(fixtureAgency(), fixtureStaff(), fixtureIndividual())
	invitations := newMockInvRepo(users)
	mailer := &mockMailer{}
	notifier := &mockNotifier{}
	uc := NewInvitationUsecase(invitations, users, mailer, notifier)
	return uc, invitations, users, mailer, notifier
}

func TestInvitationSendCreatesPending(t *testing.T) {
	uc, _, _, mailer, _ := newInvitationFixture()
	ctx := context.Background()
	agency := fixtureAgency()

	sent := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return sent }

	inv, err := uc.Send(ctx, agency, "ida@example.test", "welcome aboard")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if inv.Status != domain.InvitationPending {
		t.Fatalf("expected Pending got %s", inv.Status)
	}
	if len(inv.Token) != 64 {
		t.Fatalf("expected a 64-char hex token got %q", inv.Token)
	}
	if !inv.ExpiresAt.Equal(sent.Add(domain.InvitationTTL)) {
		t.Fatalf("expected expiry 24h after issuance got %s", inv.ExpiresAt)
	}
	if inv.RecipientID == nil || *inv.RecipientID != "indy-1" {
		t.Fatalf("expected recipient id captured at send time, got %v", inv.RecipientID)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].to != "ida@example.test" {
		t.Fatalf("expected invitation mail to the recipient, got %+v", mailer.sent)
	}
}

func TestInvitationSendUnknownEmailStaysEmailBound(t *testing.T) {
	uc, _, _, _, _ := newInvitationFixture()
	ctx := context.Background()

	inv, err := uc.Send(ctx, fixtureAgency(), "newcomer@example.test", "")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if inv.RecipientID != nil {
		t.Fatalf("unregistered recipient must not be bound by id, got %v", inv.RecipientID)
	}
}

func TestInvitationSendConflicts(t *testing.T) {
	uc, _, users, _, _ := newInvitationFixture()
	ctx := context.Background()
	agency := fixtureAgency()

	otherAgency := domain.User{ID: "agency-2", Email: "rival@test", Role: domain.RoleAgency}
	foreignStaff := domain.User{ID: "staff-2", Email: "pat@rival.test", Role: domain.RoleStaff, AgencyID: ptr("agency-2")}
	users.users[otherAgency.ID] = otherAgency
	users.users[foreignStaff.ID] = foreignStaff

	cases := []struct {
		name  string
		email string
	}{
		{"recipient is an agency", "rival@test"},
		{"already own member", "sam@acme.test"},
		{"member of another agency", "pat@rival.test"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Send(ctx, agency, tc.email, "")
			if !errors.Is(err, domain.ErrConflict) {
				t.Fatalf("expected ConflictError got %v", err)
			}
		})
	}

	// duplicate pending invitation
	if _, err := uc.Send(ctx, agency, "ida@example.test", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Send(ctx, agency, "ida@example.test", ""); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ConflictError on duplicate pending invitation got %v", err)
	}
}

func TestInvitationSendRoleAndInputGates(t *testing.T) {
	uc, _, _, _, _ := newInvitationFixture()
	ctx := context.Background()

	if _, err := uc.Send(ctx, fixtureStaff(), "x@example.test", ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ForbiddenError for staff sender got %v", err)
	}
	if _, err := uc.Send(ctx, fixtureAgency(), "not-an-email", ""); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected InvalidError for malformed email got %v", err)
	}
}

func TestInvitationAcceptTransfersMembership(t *testing.T) {
	uc, _, users, _, notifier := newInvitationFixture()
	ctx := context.Background()
	agency := fixtureAgency()
	indy := fixtureIndividual()

	inv, err := uc.Send(ctx, agency, indy.Email, "")
	if err != nil {
		t.Fatal(err)
	}

	accepted, err := uc.Accept(ctx, indy, inv.Token)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != domain.InvitationAccepted {
		t.Fatalf("expected Accepted got %s", accepted.Status)
	}
	if accepted.AcceptedAt == nil {
		t.Fatalf("expected AcceptedAt to be recorded")
	}

	member, _ := users.Get(ctx, indy.ID)
	if member.AgencyID == nil || *member.AgencyID != agency.ID {
		t.Fatalf("expected membership transfer to %s got %v", agency.ID, member.AgencyID)
	}

	var toAgency int
	for _, d := range notifier.dispatched {
		if d.notification.Type == domain.NotificationInvitationAccepted && d.notification.UserID == agency.ID {
			toAgency++
		}
	}
	if toAgency != 1 {
		t.Fatalf("expected one invitation_accepted notification to the agency got %d", toAgency)
	}

	// the token is single-use
	if _, err := uc.Accept(ctx, indy, inv.Token); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ConflictError on second accept got %v", err)
	}
}

func TestInvitationAcceptExpiredLeavesMembershipUnchanged(t *testing.T) {
	uc, invitations, users, _, _ := newInvitationFixture()
	ctx := context.Background()
	indy := fixtureIndividual()

	inv, err := uc.Send(ctx, fixtureAgency(), indy.Email, "")
	if err != nil {
		t.Fatal(err)
	}

	uc.now = func() time.Time { return inv.ExpiresAt.Add(time.Minute) }

	if _, err := uc.Accept(ctx, indy, inv.Token); !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ExpiredTokenError got %v", err)
	}

	stored, _ := invitations.Get(ctx, inv.ID)
	if stored.Status != domain.InvitationExpired {
		t.Fatalf("failed accept should flip the stored status to Expired, got %s", stored.Status)
	}
	member, _ := users.Get(ctx, indy.ID)
	if member.AgencyID != nil {
		t.Fatalf("expired accept must not change membership, got %v", member.AgencyID)
	}
}

func TestInvitationAcceptBindingChecks(t *testing.T) {
	uc, _, users, _, _ := newInvitationFixture()
	ctx := context.Background()
	agency := fixtureAgency()
	indy := fixtureIndividual()

	inv, err := uc.Send(ctx, agency, indy.Email, "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := uc.Accept(ctx, indy, "no-such-token"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected NotFound for unknown token got %v", err)
	}

	stranger := domain.User{ID: "stranger-1", Email: "stranger@test", Role: domain.RoleIndividual}
	users.users[stranger.ID] = stranger
	if _, err := uc.Accept(ctx, stranger, inv.Token); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ForbiddenError on email mismatch got %v", err)
	}

	wrongUser := domain.User{ID: "other-1", Email: indy.Email, Role: domain.RoleIndividual}
	if _, err := uc.Accept(ctx, wrongUser, inv.Token); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ForbiddenError when the id binding does not match got %v", err)
	}

	// an email-only invitation can still be refused on existing membership
	unbound, err := uc.Send(ctx, agency, "pat@new.test", "")
	if err != nil {
		t.Fatal(err)
	}
	affiliated := domain.User{ID: "pat-1", Email: "pat@new.test", Role: domain.RoleStaff, AgencyID: ptr("agency-9")}
	users.users[affiliated.ID] = affiliated
	if _, err := uc.Accept(ctx, affiliated, unbound.Token); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ConflictError for already-affiliated user got %v", err)
	}
}

func TestInvitationRevoke(t *testing.T) {
	uc, _, _, _, _ := newInvitationFixture()
	ctx := context.Background()
	agency := fixtureAgency()
	indy := fixtureIndividual()

	inv, err := uc.Send(ctx, agency, indy.Email, "")
	if err != nil {
		t.Fatal(err)
	}

	otherAgency := domain.User{ID: "agency-2", Email: "rival@test", Role: domain.RoleAgency}
	if _, err := uc.Revoke(ctx, otherAgency, inv.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ForbiddenError for non-issuer got %v", err)
	}

	revoked, err := uc.Revoke(ctx, agency, inv.ID)
	if err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if revoked.Status != domain.InvitationRejected {
		t.Fatalf("expected Rejected got %s", revoked.Status)
	}

	// revocation is final, even before the expiry
	if _, err := uc.Accept(ctx, indy, inv.Token); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ConflictError on accepting a revoked token got %v", err)
	}
	if _, err := uc.Revoke(ctx, agency, inv.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ConflictError on double revoke got %v", err)
	}
}

func TestInvitationLists(t *testing.T) {
	uc, _, _, _, _ := newInvitationFixture()
	ctx := context.Background()
	agency := fixtureAgency()
	indy := fixtureIndividual()

	if _, err := uc.Send(ctx, agency, indy.Email, ""); err != nil {
		t.Fatal(err)
	}
	expired, err := uc.Send(ctx, agency, "gone@example.test", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uc.Revoke(ctx, agency, expired.ID); err != nil {
		t.Fatal(err)
	}

	sent, err := uc.ListSent(ctx, agency)
	if err != nil {
		t.Fatal(err)
	}
	if len(sent) != 2 {
		t.Fatalf("sent list is an audit trail and keeps terminal records, got %d", len(sent))
	}
	if _, err := uc.ListSent(ctx, indy); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ForbiddenError for non-agency got %v", err)
	}

	pending, err := uc.ListPending(ctx, indy)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one open invitation for the individual, got %d", len(pending))
	}
	if _, err := uc.ListPending(ctx, agency); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ForbiddenError for agency got %v", err)
	}
}
