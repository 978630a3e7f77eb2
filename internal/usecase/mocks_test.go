package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
)

// --- mocks shared by the usecase tests ---

type mockUserRepo struct {
	users map[string]domain.User
}

func newMockUserRepo(users ...domain.User) *mockUserRepo {
	m := &mockUserRepo{users: map[string]domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *mockUserRepo) Get(ctx context.Context, id string) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return u, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *mockUserRepo) MemberIDs(ctx context.Context, agencyID string) ([]string, error) {
	var ids []string
	for _, u := range m.users {
		if u.AgencyID != nil && *u.AgencyID == agencyID {
			ids = append(ids, u.ID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

type mockDocRepo struct {
	docs map[string]domain.Document
	seq  int
}

func newMockDocRepo() *mockDocRepo {
	return &mockDocRepo{docs: map[string]domain.Document{}}
}

func (m *mockDocRepo) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	m.seq++
	doc.ID = fmt.Sprintf("doc-%d", m.seq)
	doc.CreatedAt = time.Now().UTC()
	m.docs[doc.ID] = doc
	return doc, nil
}

func (m *mockDocRepo) Get(ctx context.Context, id string) (domain.Document, error) {
	doc, ok := m.docs[id]
	if !ok {
		return domain.Document{}, domain.NotFoundError{Resource: "document"}
	}
	return doc, nil
}

func (m *mockDocRepo) ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Document, error) {
	var out []domain.Document
	for _, doc := range m.docs {
		for _, id := range ownerIDs {
			if doc.OwnerUserID == id {
				out = append(out, doc)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockDocRepo) SetSignatureRequest(ctx context.Context, id, requesterID, recipientID string) error {
	doc, ok := m.docs[id]
	if !ok {
		return domain.NotFoundError{Resource: "document"}
	}
	doc.Status = domain.DocumentPendingSignature
	doc.SignatureRequesterID = &requesterID
	doc.SignatureRecipientID = &recipientID
	m.docs[id] = doc
	return nil
}

// MarkSigned mirrors the conditional write of the real repository: the
// transition only lands while the stored recipient and status still match.
func (m *mockDocRepo) MarkSigned(ctx context.Context, id, signerID string, signedAt time.Time) error {
	doc, ok := m.docs[id]
	if !ok {
		return domain.NotFoundError{Resource: "document"}
	}
	if doc.Status != domain.DocumentPendingSignature ||
		doc.SignatureRecipientID == nil || *doc.SignatureRecipientID != signerID {
		return domain.ConflictError{Reason: "document is not awaiting your signature"}
	}
	doc.Status = domain.DocumentSigned
	doc.SignedBy = append(doc.SignedBy, domain.Signer{SignerID: signerID, SignedAt: signedAt})
	m.docs[id] = doc
	return nil
}

func (m *mockDocRepo) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	doc, ok := m.docs[id]
	if !ok {
		return domain.NotFoundError{Resource: "document"}
	}
	doc.Status = status
	m.docs[id] = doc
	return nil
}

func (m *mockDocRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return domain.NotFoundError{Resource: "document"}
	}
	delete(m.docs, id)
	return nil
}

type mockInvRepo struct {
	invitations map[string]domain.Invitation
	users       *mockUserRepo
	seq         int
}

func newMockInvRepo(users *mockUserRepo) *mockInvRepo {
	return &mockInvRepo{invitations: map[string]domain.Invitation{}, users: users}
}

func (m *mockInvRepo) Create(ctx context.Context, inv domain.Invitation) (domain.Invitation, error) {
	m.seq++
	inv.ID = fmt.Sprintf("inv-%d", m.seq)
	inv.CreatedAt = time.Now().UTC()
	m.invitations[inv.ID] = inv
	return inv, nil
}

func (m *mockInvRepo) Get(ctx context.Context, id string) (domain.Invitation, error) {
	inv, ok := m.invitations[id]
	if !ok {
		return domain.Invitation{}, domain.NotFoundError{Resource: "invitation"}
	}
	return inv, nil
}

func (m *mockInvRepo) GetByToken(ctx context.Context, token string) (domain.Invitation, error) {
	for _, inv := range m.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return domain.Invitation{}, domain.NotFoundError{Resource: "invitation"}
}

func (m *mockInvRepo) HasPending(ctx context.Context, agencyID, email string, now time.Time) (bool, error) {
	for _, inv := range m.invitations {
		if inv.AgencyID == agencyID && inv.RecipientEmail == email &&
			inv.Status == domain.InvitationPending && now.Before(inv.ExpiresAt) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockInvRepo) ListByAgency(ctx context.Context, agencyID string) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for _, inv := range m.invitations {
		if inv.AgencyID == agencyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *mockInvRepo) ListPendingFor(ctx context.Context, userID, email string, now time.Time) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for _, inv := range m.invitations {
		if inv.Status != domain.InvitationPending || !now.Before(inv.ExpiresAt) {
			continue
		}
		if inv.RecipientEmail == email || (inv.RecipientID != nil && *inv.RecipientID == userID) {
			out = append(out, inv)
		}
	}
	return out, nil
}

// Accept mirrors the dual compare-and-set of the real repository: the
// invitation flips Pending to Accepted and the user gains membership only
// while still unaffiliated, as one unit.
func (m *mockInvRepo) Accept(ctx context.Context, id, userID string, now time.Time) error {
	inv, ok := m.invitations[id]
	if !ok {
		return domain.NotFoundError{Resource: "invitation"}
	}
	if inv.Status != domain.InvitationPending {
		return domain.ConflictError{Reason: "invitation is no longer pending"}
	}
	user, ok := m.users.users[userID]
	if !ok {
		return domain.NotFoundError{Resource: "user"}
	}
	if user.AgencyID != nil {
		return domain.ConflictError{Reason: "user already belongs to an agency"}
	}
	inv.Status = domain.InvitationAccepted
	inv.AcceptedAt = &now
	agencyID := inv.AgencyID
	user.AgencyID = &agencyID
	m.invitations[id] = inv
	m.users.users[userID] = user
	return nil
}

func (m *mockInvRepo) Revoke(ctx context.Context, id string) error {
	inv, ok := m.invitations[id]
	if !ok {
		return domain.NotFoundError{Resource: "invitation"}
	}
	if inv.Status != domain.InvitationPending {
		return domain.ConflictError{Reason: "invitation is no longer pending"}
	}
	inv.Status = domain.InvitationRejected
	m.invitations[id] = inv
	return nil
}

func (m *mockInvRepo) MarkExpired(ctx context.Context, id string) error {
	inv, ok := m.invitations[id]
	if !ok {
		return domain.NotFoundError{Resource: "invitation"}
	}
	if inv.Status == domain.InvitationPending {
		inv.Status = domain.InvitationExpired
		m.invitations[id] = inv
	}
	return nil
}

type mockRenewalRepo struct {
	renewals     map[string]domain.Renewal
	seq          int
	upcomingHits int
}

func newMockRenewalRepo() *mockRenewalRepo {
	return &mockRenewalRepo{renewals: map[string]domain.Renewal{}}
}

func (m *mockRenewalRepo) Create(ctx context.Context, r domain.Renewal) (domain.Renewal, error) {
	m.seq++
	r.ID = fmt.Sprintf("ren-%d", m.seq)
	r.CreatedAt = time.Now().UTC()
	m.renewals[r.ID] = r
	return r, nil
}

func (m *mockRenewalRepo) Get(ctx context.Context, id string) (domain.Renewal, error) {
	r, ok := m.renewals[id]
	if !ok {
		return domain.Renewal{}, domain.NotFoundError{Resource: "renewal"}
	}
	return r, nil
}

func (m *mockRenewalRepo) ListUpcoming(ctx context.Context, ownerIDs []string, from, to time.Time, limit int) ([]domain.Renewal, error) {
	m.upcomingHits++
	var out []domain.Renewal
	for _, r := range m.renewals {
		if r.Status == domain.RenewalCompleted {
			continue
		}
		if r.CurrentExpirationDate.Before(from) || r.CurrentExpirationDate.After(to) {
			continue
		}
		for _, id := range ownerIDs {
			if r.UserID == id {
				out = append(out, r)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CurrentExpirationDate.Before(out[j].CurrentExpirationDate)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockRenewalRepo) Update(ctx context.Context, r domain.Renewal) error {
	if _, ok := m.renewals[r.ID]; !ok {
		return domain.NotFoundError{Resource: "renewal"}
	}
	m.renewals[r.ID] = r
	return nil
}

func (m *mockRenewalRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.renewals[id]; !ok {
		return domain.NotFoundError{Resource: "renewal"}
	}
	delete(m.renewals, id)
	return nil
}

type mockEventRepo struct {
	events map[string]domain.Event
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: map[string]domain.Event{}}
}

func (m *mockEventRepo) Create(ctx context.Context, ev domain.Event) (domain.Event, error) {
	m.seq++
	ev.ID = fmt.Sprintf("ev-%d", m.seq)
	ev.CreatedAt = time.Now().UTC()
	m.events[ev.ID] = ev
	return ev, nil
}

func (m *mockEventRepo) Get(ctx context.Context, id string) (domain.Event, error) {
	ev, ok := m.events[id]
	if !ok {
		return domain.Event{}, domain.NotFoundError{Resource: "event"}
	}
	return ev, nil
}

func (m *mockEventRepo) ListByOwners(ctx context.Context, ownerIDs []string) ([]domain.Event, error) {
	var out []domain.Event
	for _, ev := range m.events {
		for _, id := range ownerIDs {
			if ev.UserID == id {
				out = append(out, ev)
				break
			}
		}
	}
	return out, nil
}

func (m *mockEventRepo) Update(ctx context.Context, ev domain.Event) error {
	if _, ok := m.events[ev.ID]; !ok {
		return domain.NotFoundError{Resource: "event"}
	}
	m.events[ev.ID] = ev
	return nil
}

func (m *mockEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.NotFoundError{Resource: "event"}
	}
	delete(m.events, id)
	return nil
}

type mockNotifRepo struct {
	notifications map[string]domain.Notification
	seq           int
}

func newMockNotifRepo() *mockNotifRepo {
	return &mockNotifRepo{notifications: map[string]domain.Notification{}}
}

func (m *mockNotifRepo) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	m.seq++
	n.ID = fmt.Sprintf("ntf-%d", m.seq)
	n.CreatedAt = time.Now().UTC()
	m.notifications[n.ID] = n
	return n, nil
}

func (m *mockNotifRepo) Get(ctx context.Context, id string) (domain.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return domain.Notification{}, domain.NotFoundError{Resource: "notification"}
	}
	return n, nil
}

func (m *mockNotifRepo) ListByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	var out []domain.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *mockNotifRepo) MarkRead(ctx context.Context, id string) error {
	n, ok := m.notifications[id]
	if !ok {
		return domain.NotFoundError{Resource: "notification"}
	}
	n.Read = true
	m.notifications[id] = n
	return nil
}

func (m *mockNotifRepo) MarkAllRead(ctx context.Context, userID string) error {
	for id, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
			m.notifications[id] = n
		}
	}
	return nil
}

func (m *mockNotifRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.notifications[id]; !ok {
		return domain.NotFoundError{Resource: "notification"}
	}
	delete(m.notifications, id)
	return nil
}

type mockBlobStore struct {
	put     int
	deleted []string
	delErr  error
}

func (m *mockBlobStore) Put(ctx context.Context, data []byte, name, mimeType string) (string, error) {
	m.put++
	return "https://blobs.test/documents/" + name, nil
}

func (m *mockBlobStore) Delete(ctx context.Context, url string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, url)
	return nil
}

type sentMail struct {
	to      string
	subject string
	text    string
}

type mockMailer struct {
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(ctx context.Context, to, subject, text, html string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, text: text})
	return nil
}

type dispatched struct {
	notification domain.Notification
	email        string
}

type mockNotifier struct {
	dispatched []dispatched
}

func (m *mockNotifier) Dispatch(ctx context.Context, n domain.Notification, recipientEmail string) {
	m.dispatched = append(m.dispatched, dispatched{notification: n, email: recipientEmail})
}

type mapCache struct {
	entries map[string][]byte
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: map[string][]byte{}}
}

func (m *mapCache) Get(key string) ([]byte, bool) {
	v, ok := m.entries[key]
	return v, ok
}

func (m *mapCache) Set(key string, value []byte, ttl time.Duration) {
	m.sets++
	m.entries[key] = value
}

func (m *mapCache) Delete(key string) {
	delete(m.entries, key)
}

// --- shared fixtures ---

func ptr[T any](v T) *T { return &v }

func fixtureAgency() domain.User {
	return domain.User{ID: "agency-1", Username: "Acme Care", Email: "agency@acme.test", Role: domain.RoleAgency}
}

func fixtureStaff() domain.User {
	return domain.User{ID: "staff-1", Username: "Sam Staff", Email: "sam@acme.test", Role: domain.RoleStaff, AgencyID: ptr("agency-1")}
}

func fixtureIndividual() domain.User {
	return domain.User{ID: "indy-1", Username: "Ida Indy", Email: "ida@example.test", Role: domain.RoleIndividual}
}
