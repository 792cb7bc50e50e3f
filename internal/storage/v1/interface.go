// Package storage defines the transactional query boundary shared by all services.
package storage

import (
	"context"

	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/modelstorage"
)

// AccountKeeper defines persistence operations over users.
type AccountKeeper interface {
	AddNewUser(ctx context.Context, login string, passwordHash string) (int64, error)
	GetUserByID(ctx context.Context, id int64) (modelstorage.UserStorageEntry, error)
	GetUserByLogin(ctx context.Context, login string) (modelstorage.UserStorageEntry, error)
	UpdatePasswordByID(ctx context.Context, id int64, passwordHash string) error
	CheckUserExistenceByID(ctx context.Context, id int64) error
}

// LedgerKeeper defines persistence operations over entries.
type LedgerKeeper interface {
	AddNewEntry(ctx context.Context, entry modelstorage.EntryStorageEntry) (int64, error)
	GetAllEntries(ctx context.Context) ([]modelstorage.EntryStorageEntry, error)
	GetEntriesByUserID(ctx context.Context, userID int64) ([]modelstorage.EntryStorageEntry, error)
	CheckEntryExistenceByID(ctx context.Context, id int64) error
}

// AttachmentKeeper defines persistence operations over attachments.
type AttachmentKeeper interface {
	AddNewAttachment(ctx context.Context, attachment modelstorage.AttachmentStorageEntry) (int64, error)
	GetAttachmentsByEntryID(ctx context.Context, entryID int64) ([]modelstorage.AttachmentStorageEntry, error)
	GetAttachmentsByUserID(ctx context.Context, userID int64) ([]modelstorage.AttachmentStorageEntry, error)
}

// Storage defines a set of methods for types implementing Storage.
type Storage interface {
	AccountKeeper
	LedgerKeeper
	AttachmentKeeper
}
