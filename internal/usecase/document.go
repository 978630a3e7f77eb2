package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/agencyvault/agencyvault/internal/domain"
	"github.com/agencyvault/agencyvault/internal/policy"
)

type DocumentUsecase struct {
	docs     DocumentRepository
	users    UserRepository
	blobs    BlobStore
	notifier Notifier
}

func NewDocumentUsecase(
	docs DocumentRepository,
	users UserRepository,
	blobs BlobStore,
	notifier Notifier,
) *DocumentUsecase {
	return &DocumentUsecase{
		docs:     docs,
		users:    users,
		blobs:    blobs,
		notifier: notifier,
	}
}

type UploadInput struct {
	FileName       string
	MimeType       string
	Data           []byte
	Category       string
	ExpirationDate *time.Time
}

// Upload stores the bytes in the blob store and creates the metadata
// record with the actor's tenant snapshotted onto it.
func (uc *DocumentUsecase) Upload(ctx context.Context, actor domain.User, input UploadInput) (domain.Document, error) {
	if len(input.Data) == 0 {
		return domain.Document{}, domain.InvalidError{Reason: "no file uploaded"}
	}
	if input.Category == "" {
		return domain.Document{}, domain.InvalidError{Reason: "category is required"}
	}
	if !domain.AcceptedMime(input.MimeType) {
		return domain.Document{}, domain.InvalidError{
			Reason: fmt.Sprintf("unsupported file type %q", input.MimeType),
		}
	}

	url, err := uc.blobs.Put(ctx, input.Data, input.FileName, input.MimeType)
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{
		OwnerUserID:    actor.ID,
		AgencyID:       tenantSnapshot(actor),
		FileName:       input.FileName,
		FileURL:        url,
		FileMimeType:   input.MimeType,
		Category:       input.Category,
		ExpirationDate: input.ExpirationDate,
		Status:         domain.DocumentUploaded,
	}

	return uc.docs.Create(ctx, doc)
}

// List returns the documents of everyone in the actor's owned set,
// newest first.
func (uc *DocumentUsecase) List(ctx context.Context, actor domain.User) ([]domain.Document, error) {
	owners, err := ownedSet(ctx, uc.users, actor)
	if err != nil {
		return nil, err
	}
	return uc.docs.ListByOwners(ctx, owners)
}

func (uc *DocumentUsecase) Get(ctx context.Context, actor domain.User, id string) (domain.Document, error) {
	doc, err := uc.docs.Get(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if !policy.CanAccess(actor, doc.OwnerUserID, doc.AgencyID) {
		return domain.Document{}, domain.ForbiddenError{Reason: "not authorized to view this document"}
	}
	return doc, nil
}

// RequestSignature moves a document into the signature sub-workflow.
// Management is re-verified through the uploader's current agency, not the
// document's snapshot, so a stale snapshot does not block the request.
func (uc *DocumentUsecase) RequestSignature(ctx context.Context, actor domain.User, docID, recipientID, message string) (domain.Document, error) {
	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return domain.Document{}, err
	}

	if err := policy.RequireRole(actor, domain.RoleAgency); err != nil {
		return domain.Document{}, err
	}

	owner, err := uc.users.Get(ctx, doc.OwnerUserID)
	if err != nil {
		return domain.Document{}, err
	}
	managed := doc.OwnerUserID == actor.ID ||
		(owner.AgencyID != nil && *owner.AgencyID == actor.ID)
	if !managed {
		return domain.Document{}, domain.ForbiddenError{
			Reason: "document is not managed by your agency",
		}
	}

	if recipientID == "" {
		return domain.Document{}, domain.InvalidError{Reason: "recipient id is required"}
	}
	recipient, err := uc.users.Get(ctx, recipientID)
	if err != nil {
		return domain.Document{}, err
	}
	if recipient.ID == actor.ID {
		return domain.Document{}, domain.InvalidError{Reason: "cannot request a signature from yourself"}
	}
	if recipient.Role != domain.RoleStaff && recipient.Role != domain.RoleIndividual {
		return domain.Document{}, domain.InvalidError{
			Reason: "signatures can only be requested from Staff or Individual users",
		}
	}
	if recipient.Role == domain.RoleStaff &&
		(recipient.AgencyID == nil || *recipient.AgencyID != actor.ID) {
		return domain.Document{}, domain.ForbiddenError{
			Reason: "staff recipient is not linked to your agency",
		}
	}

	if err := uc.docs.SetSignatureRequest(ctx, doc.ID, actor.ID, recipient.ID); err != nil {
		return domain.Document{}, err
	}

	text := fmt.Sprintf("Signature requested for document: %s.", doc.FileName)
	if message != "" {
		text = fmt.Sprintf("%s Message: %s", text, message)
	}
	uc.notifier.Dispatch(ctx, domain.Notification{
		UserID:     recipient.ID,
		Type:       domain.NotificationSignatureRequest,
		Message:    text,
		DocumentID: &doc.ID,
	}, recipient.Email)

	return uc.docs.Get(ctx, doc.ID)
}

// MarkSigned records the recipient's signature. Only the designated
// recipient may sign, the managing agency included.
func (uc *DocumentUsecase) MarkSigned(ctx context.Context, actor domain.User, docID string) (domain.Document, error) {
	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return domain.Document{}, err
	}

	if doc.SignatureRecipientID == nil || *doc.SignatureRecipientID != actor.ID {
		return domain.Document{}, domain.ForbiddenError{
			Reason: "you are not authorized to sign this document",
		}
	}

	if err := uc.docs.MarkSigned(ctx, doc.ID, actor.ID, time.Now().UTC()); err != nil {
		return domain.Document{}, err
	}

	if doc.SignatureRequesterID != nil {
		uc.notifyRequester(ctx, doc, actor)
	}

	return uc.docs.Get(ctx, doc.ID)
}

func (uc *DocumentUsecase) notifyRequester(ctx context.Context, doc domain.Document, signer domain.User) {
	requester, err := uc.users.Get(ctx, *doc.SignatureRequesterID)
	if err != nil {
		// best-effort; nothing to deliver if the requester is gone
		return
	}
	uc.notifier.Dispatch(ctx, domain.Notification{
		UserID:     requester.ID,
		Type:       domain.NotificationDocumentSigned,
		Message:    fmt.Sprintf("Document %q has been signed by %s.", doc.FileName, signer.Username),
		DocumentID: &doc.ID,
	}, requester.Email)
}

// UpdateStatus is the agency's administrative override. It is not bound
// by the state machine and emits no notification.
func (uc *DocumentUsecase) UpdateStatus(ctx context.Context, actor domain.User, docID string, status domain.DocumentStatus) (domain.Document, error) {
	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return domain.Document{}, err
	}
	if !status.Valid() {
		return domain.Document{}, domain.InvalidError{
			Reason: fmt.Sprintf("unknown document status %q", status),
		}
	}
	if err := policy.RequireRole(actor, domain.RoleAgency); err != nil {
		return domain.Document{}, err
	}
	if !policy.IsManagingAgency(actor, doc.AgencyID) {
		return domain.Document{}, domain.ForbiddenError{
			Reason: "not authorized to update this document status",
		}
	}
	if err := uc.docs.UpdateStatus(ctx, doc.ID, status); err != nil {
		return domain.Document{}, err
	}
	doc.Status = status
	return doc, nil
}

// Delete removes the blob first; a blob-store failure leaves the metadata
// record intact and retryable.
func (uc *DocumentUsecase) Delete(ctx context.Context, actor domain.User, docID string) error {
	doc, err := uc.docs.Get(ctx, docID)
	if err != nil {
		return err
	}
	if !policy.CanAccess(actor, doc.OwnerUserID, doc.AgencyID) {
		return domain.ForbiddenError{Reason: "not authorized to delete this document"}
	}
	if doc.FileURL != "" {
		if err := uc.blobs.Delete(ctx, doc.FileURL); err != nil {
			return err
		}
	}
	return uc.docs.Delete(ctx, doc.ID)
}
