package processor

import (
	"context"

	"github.com/danilovkiri/dk-go-finances/internal/models/modeldto"
	"github.com/danilovkiri/dk-go-finances/internal/models/modelresult"
	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/modelstorage"
)

// CreateAttachment verifies the related entry exists and inserts the content
// bound to it. The content is stored opaquely, its inner base64 structure is
// never decoded server-side.
func (proc *Processor) CreateAttachment(ctx context.Context, attachment modeldto.Attachment, relatedEntryID int64) modelresult.Result[int64] {
	if err := attachment.Validate(); err != nil {
		return modelresult.Fail[int64](modelresult.NotCreated, err)
	}
	if err := proc.storage.CheckEntryExistenceByID(ctx, relatedEntryID); err != nil {
		return mapStorageFailure[int64](err, modelresult.NotFound)
	}
	id, err := proc.storage.AddNewAttachment(ctx, modelstorage.AttachmentStorageEntry{
		RelatedEntryID: relatedEntryID,
		Content:        attachment.Content,
	})
	if err != nil {
		return mapStorageFailure[int64](err, modelresult.NotCreated)
	}
	return modelresult.OK(id)
}

// GetAttachmentsByEntryID retrieves attachments for one entry, zero rows
// yield EmptySearch, not an empty success.
func (proc *Processor) GetAttachmentsByEntryID(ctx context.Context, entryID int64) modelresult.Result[[]modeldto.Attachment] {
	attachments, err := proc.storage.GetAttachmentsByEntryID(ctx, entryID)
	if err != nil {
		return mapStorageFailure[[]modeldto.Attachment](err, modelresult.NotFound)
	}
	if len(attachments) == 0 {
		return modelresult.Fail[[]modeldto.Attachment](modelresult.EmptySearch, nil)
	}
	return modelresult.OK(toAttachmentDTOs(attachments))
}

// GetAttachmentsByUserID retrieves attachments for every entry owned by one
// user, zero rows yield EmptySearch.
func (proc *Processor) GetAttachmentsByUserID(ctx context.Context, userID int64) modelresult.Result[[]modeldto.Attachment] {
	attachments, err := proc.storage.GetAttachmentsByUserID(ctx, userID)
	if err != nil {
		return mapStorageFailure[[]modeldto.Attachment](err, modelresult.NotFound)
	}
	if len(attachments) == 0 {
		return modelresult.Fail[[]modeldto.Attachment](modelresult.EmptySearch, nil)
	}
	return modelresult.OK(toAttachmentDTOs(attachments))
}

func toAttachmentDTOs(attachments []modelstorage.AttachmentStorageEntry) []modeldto.Attachment {
	responseAttachments := make([]modeldto.Attachment, 0, len(attachments))
	for _, attachment := range attachments {
		responseAttachments = append(responseAttachments, modeldto.Attachment{
			ID:             attachment.ID,
			RelatedEntryID: attachment.RelatedEntryID,
			Content:        attachment.Content,
		})
	}
	return responseAttachments
}
