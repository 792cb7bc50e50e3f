package processor

import (
	"context"

	"github.com/danilovkiri/dk-go-finances/internal/models/modeldto"
	"github.com/danilovkiri/dk-go-finances/internal/models/modelresult"
	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/modelstorage"
)

// CreateEntry verifies the related user exists and inserts the entry. The
// owner is always relatedUserID from the authenticated caller, any user id
// inside the payload is ignored. On a failed existence check nothing is written.
func (proc *Processor) CreateEntry(ctx context.Context, entry modeldto.Entry, relatedUserID int64) modelresult.Result[int64] {
	if existence := proc.CheckUserExistenceByID(ctx, relatedUserID); existence.Failed() {
		return modelresult.Fail[int64](modelresult.NotFound, existence.Failure().Cause)
	}
	id, err := proc.storage.AddNewEntry(ctx, modelstorage.EntryStorageEntry{
		Amount:         entry.Amount,
		Date:           entry.Date,
		Destination:    entry.Destination,
		Description:    entry.Description,
		HasAttachments: entry.HasAttachments,
		RelatedUserID:  relatedUserID,
	})
	if err != nil {
		return mapStorageFailure[int64](err, modelresult.NotCreated)
	}
	return modelresult.OK(id)
}

// GetAllEntries retrieves every entry, zero rows are a success with an empty sequence.
func (proc *Processor) GetAllEntries(ctx context.Context) modelresult.Result[[]modeldto.Entry] {
	entries, err := proc.storage.GetAllEntries(ctx)
	if err != nil {
		return mapStorageFailure[[]modeldto.Entry](err, modelresult.NotFound)
	}
	return modelresult.OK(toEntryDTOs(entries))
}

// GetEntriesByUserID retrieves entries owned by one user, zero rows are a
// success here as well, unlike the attachment lookups.
func (proc *Processor) GetEntriesByUserID(ctx context.Context, userID int64) modelresult.Result[[]modeldto.Entry] {
	entries, err := proc.storage.GetEntriesByUserID(ctx, userID)
	if err != nil {
		return mapStorageFailure[[]modeldto.Entry](err, modelresult.NotFound)
	}
	return modelresult.OK(toEntryDTOs(entries))
}

func toEntryDTOs(entries []modelstorage.EntryStorageEntry) []modeldto.Entry {
	responseEntries := make([]modeldto.Entry, 0, len(entries))
	for _, entry := range entries {
		responseEntries = append(responseEntries, modeldto.Entry{
			ID:             entry.ID,
			Amount:         entry.Amount,
			Date:           entry.Date,
			Destination:    entry.Destination,
			Description:    entry.Description,
			HasAttachments: entry.HasAttachments,
			RelatedUserID:  entry.RelatedUserID,
		})
	}
	return responseEntries
}
