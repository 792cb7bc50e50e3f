// Package processor defines the account, ledger and attachment service
// contracts. Every operation reports expected failures through the
// modelresult envelope and never lets raw storage errors cross its boundary.
package processor

import (
	"context"

	"github.com/danilovkiri/dk-go-finances/internal/models/modeldto"
	"github.com/danilovkiri/dk-go-finances/internal/models/modelresult"
)

// Accounts defines user creation, lookup, password rotation and credential
// verification operations.
type Accounts interface {
	CreateUser(ctx context.Context, credentials modeldto.Credentials) modelresult.Result[int64]
	GetUserByID(ctx context.Context, id int64) modelresult.Result[modeldto.User]
	UpdatePasswordByID(ctx context.Context, id int64, next modeldto.NewPassword) modelresult.Result[modelresult.Unit]
	CheckUserExistenceByID(ctx context.Context, id int64) modelresult.Result[modelresult.Unit]
	CheckCredentials(ctx context.Context, credentials modeldto.Credentials) modelresult.Result[int64]
}

// Ledger defines entry creation and retrieval operations.
type Ledger interface {
	CreateEntry(ctx context.Context, entry modeldto.Entry, relatedUserID int64) modelresult.Result[int64]
	GetAllEntries(ctx context.Context) modelresult.Result[[]modeldto.Entry]
	GetEntriesByUserID(ctx context.Context, userID int64) modelresult.Result[[]modeldto.Entry]
}

// Attachments defines attachment creation and retrieval operations.
type Attachments interface {
	CreateAttachment(ctx context.Context, attachment modeldto.Attachment, relatedEntryID int64) modelresult.Result[int64]
	GetAttachmentsByEntryID(ctx context.Context, entryID int64) modelresult.Result[[]modeldto.Attachment]
	GetAttachmentsByUserID(ctx context.Context, userID int64) modelresult.Result[[]modeldto.Attachment]
}

// Processor defines a set of methods for types implementing Processor.
type Processor interface {
	Accounts
	Ledger
	Attachments
}
