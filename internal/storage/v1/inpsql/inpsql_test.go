package inpsql

import (
	"context"
	"os"
	"testing"

	"github.com/danilovkiri/dk-go-finances/internal/config"
	storageErrors "github.com/danilovkiri/dk-go-finances/internal/storage/v1/errors"
	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/modelstorage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStorage connects to the database named by DATABASE_URI, tests are
// skipped when the variable is unset.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	dsn := os.Getenv("DATABASE_URI")
	if dsn == "" {
		t.Skip("DATABASE_URI is not set, skipping PSQL integration tests")
	}
	log := zerolog.Nop()
	st, err := InitStorage(context.Background(), &config.StorageConfig{DatabaseDSN: dsn, MaxConnections: 5}, &log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.DB.Close() })
	return st
}

func uniqueLogin() string {
	return "it-" + uuid.New().String()
}

func TestAddNewUserAndLookups(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	login := uniqueLogin()

	id, err := st.AddNewUser(ctx, login, "hash-one")
	require.NoError(t, err)
	require.Positive(t, id)

	byID, err := st.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, login, byID.Login)
	assert.Equal(t, "hash-one", byID.PasswordHash)

	byLogin, err := st.GetUserByLogin(ctx, login)
	require.NoError(t, err)
	assert.Equal(t, id, byLogin.ID)

	require.NoError(t, st.CheckUserExistenceByID(ctx, id))
}

func TestAddNewUserDuplicateLogin(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	login := uniqueLogin()
	_, err := st.AddNewUser(ctx, login, "hash-one")
	require.NoError(t, err)
	_, err = st.AddNewUser(ctx, login, "hash-two")
	var alreadyExistsError *storageErrors.AlreadyExistsError
	assert.ErrorAs(t, err, &alreadyExistsError)
}

func TestGetUserNotFound(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	var notFoundError *storageErrors.NotFoundError
	_, err := st.GetUserByLogin(ctx, uniqueLogin())
	assert.ErrorAs(t, err, &notFoundError)
	_, err = st.GetUserByID(ctx, -1)
	assert.ErrorAs(t, err, &notFoundError)
	assert.ErrorAs(t, st.CheckUserExistenceByID(ctx, -1), &notFoundError)
}

func TestUpdatePasswordByID(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	id, err := st.AddNewUser(ctx, uniqueLogin(), "hash-one")
	require.NoError(t, err)

	require.NoError(t, st.UpdatePasswordByID(ctx, id, "hash-two"))
	user, err := st.GetUserByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "hash-two", user.PasswordHash)

	var notUpdatedError *storageErrors.NotUpdatedError
	assert.ErrorAs(t, st.UpdatePasswordByID(ctx, -1, "hash-three"), &notUpdatedError)
}

func TestEntryLifecycle(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	userID, err := st.AddNewUser(ctx, uniqueLogin(), "hash-one")
	require.NoError(t, err)

	entryID, err := st.AddNewEntry(ctx, modelstorage.EntryStorageEntry{
		Amount:         -12.50,
		Date:           1700000000,
		Destination:    "grocery store",
		Description:    "weekly shopping",
		HasAttachments: true,
		RelatedUserID:  userID,
	})
	require.NoError(t, err)
	require.Positive(t, entryID)
	require.NoError(t, st.CheckEntryExistenceByID(ctx, entryID))

	entries, err := st.GetEntriesByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entryID, entries[0].ID)
	assert.Equal(t, -12.50, entries[0].Amount)
	assert.True(t, entries[0].HasAttachments)

	all, err := st.GetAllEntries(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, all)
}

func TestAddNewEntryUnknownUser(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	_, err := st.AddNewEntry(ctx, modelstorage.EntryStorageEntry{
		Amount:        1,
		Date:          1700000000,
		Destination:   "x",
		RelatedUserID: -1,
	})
	var notFoundError *storageErrors.NotFoundError
	assert.ErrorAs(t, err, &notFoundError)
}

func TestAttachmentLifecycle(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	userID, err := st.AddNewUser(ctx, uniqueLogin(), "hash-one")
	require.NoError(t, err)
	entryID, err := st.AddNewEntry(ctx, modelstorage.EntryStorageEntry{
		Amount:        -5,
		Date:          1700000000,
		Destination:   "cafe",
		RelatedUserID: userID,
	})
	require.NoError(t, err)

	attachmentID, err := st.AddNewAttachment(ctx, modelstorage.AttachmentStorageEntry{
		RelatedEntryID: entryID,
		Content:        "aGVsbG8=|png",
	})
	require.NoError(t, err)
	require.Positive(t, attachmentID)

	byEntry, err := st.GetAttachmentsByEntryID(ctx, entryID)
	require.NoError(t, err)
	require.Len(t, byEntry, 1)
	assert.Equal(t, "aGVsbG8=|png", byEntry[0].Content)

	byUser, err := st.GetAttachmentsByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
}

func TestAddNewAttachmentUnknownEntry(t *testing.T) {
	st := newTestStorage(t)
	ctx := context.Background()
	_, err := st.AddNewAttachment(ctx, modelstorage.AttachmentStorageEntry{
		RelatedEntryID: -1,
		Content:        "aGVsbG8=|png",
	})
	var notFoundError *storageErrors.NotFoundError
	assert.ErrorAs(t, err, &notFoundError)
}

func TestCancelledContext(t *testing.T) {
	st := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := st.GetUserByID(ctx, 1)
	var contextTimeoutExceededError *storageErrors.ContextTimeoutExceededError
	assert.ErrorAs(t, err, &contextTimeoutExceededError)
}
