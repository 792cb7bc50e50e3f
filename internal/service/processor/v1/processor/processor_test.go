package processor

import (
	"context"
	"testing"

	"github.com/danilovkiri/dk-go-finances/internal/models/modeldto"
	"github.com/danilovkiri/dk-go-finances/internal/models/modelresult"
	"github.com/danilovkiri/dk-go-finances/internal/service/hasher/v1/hasher"
	"github.com/danilovkiri/dk-go-finances/internal/storage/v1/inmem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestProcessor(t *testing.T) (*Processor, *inmem.Storage) {
	t.Helper()
	st := inmem.InitStorage()
	proc, err := InitService(st, hasher.NewHasherService())
	require.NoError(t, err)
	return proc, st
}

func registerTestUser(t *testing.T, proc *Processor, login string) int64 {
	t.Helper()
	result := proc.CreateUser(context.Background(), modeldto.Credentials{Login: login, Password: "secret-password"})
	require.False(t, result.Failed())
	return result.Data()
}

func TestInitService(t *testing.T) {
	_, err := InitService(nil, hasher.NewHasherService())
	assert.Error(t, err)
	_, err = InitService(inmem.InitStorage(), nil)
	assert.Error(t, err)
}

func TestCreateUserAndCheckCredentials(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	userID := registerTestUser(t, proc, "user1")

	checked := proc.CheckCredentials(ctx, modeldto.Credentials{Login: "user1", Password: "secret-password"})
	require.False(t, checked.Failed())
	assert.Equal(t, userID, checked.Data())

	wrongPassword := proc.CheckCredentials(ctx, modeldto.Credentials{Login: "user1", Password: "wrong-password"})
	require.True(t, wrongPassword.Failed())
	assert.Equal(t, modelresult.NotFound, wrongPassword.Kind())

	unknownLogin := proc.CheckCredentials(ctx, modeldto.Credentials{Login: "user2", Password: "secret-password"})
	require.True(t, unknownLogin.Failed())
	assert.Equal(t, modelresult.NotFound, unknownLogin.Kind())
}

func TestCreateUserStoresHashNotPassword(t *testing.T) {
	proc, _ := newTestProcessor(t)
	userID := registerTestUser(t, proc, "user1")
	user := proc.GetUserByID(context.Background(), userID)
	require.False(t, user.Failed())
	assert.Equal(t, "user1", user.Data().Login)
	assert.NotEqual(t, "secret-password", user.Data().PasswordHash)
	assert.NotEmpty(t, user.Data().PasswordHash)
}

func TestCreateUserDuplicateLogin(t *testing.T) {
	proc, _ := newTestProcessor(t)
	registerTestUser(t, proc, "user1")
	duplicate := proc.CreateUser(context.Background(), modeldto.Credentials{Login: "user1", Password: "another-password"})
	require.True(t, duplicate.Failed())
	assert.Equal(t, modelresult.NotCreated, duplicate.Kind())
}

func TestCreateUserBadCredentials(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	blankLogin := proc.CreateUser(ctx, modeldto.Credentials{Login: "  ", Password: "secret-password"})
	require.True(t, blankLogin.Failed())
	assert.Equal(t, modelresult.BadCredentials, blankLogin.Kind())
	shortPassword := proc.CreateUser(ctx, modeldto.Credentials{Login: "user1", Password: "12345"})
	require.True(t, shortPassword.Failed())
	assert.Equal(t, modelresult.BadCredentials, shortPassword.Kind())
}

func TestConcurrentDuplicateRegistration(t *testing.T) {
	proc, _ := newTestProcessor(t)
	const attempts = 8
	results := make([]modelresult.Result[int64], attempts)
	g := new(errgroup.Group)
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			results[i] = proc.CreateUser(context.Background(), modeldto.Credentials{Login: "user1", Password: "secret-password"})
			return nil
		})
	}
	require.NoError(t, g.Wait())
	var successes int
	for _, result := range results {
		if !result.Failed() {
			successes++
		} else {
			assert.Equal(t, modelresult.NotCreated, result.Kind())
		}
	}
	assert.Equal(t, 1, successes)
}

func TestUpdatePasswordByID(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	userID := registerTestUser(t, proc, "user1")

	updated := proc.UpdatePasswordByID(ctx, userID, modeldto.NewPassword{Password: "rotated-password"})
	require.False(t, updated.Failed())

	oldPassword := proc.CheckCredentials(ctx, modeldto.Credentials{Login: "user1", Password: "secret-password"})
	require.True(t, oldPassword.Failed())
	assert.Equal(t, modelresult.NotFound, oldPassword.Kind())

	newPassword := proc.CheckCredentials(ctx, modeldto.Credentials{Login: "user1", Password: "rotated-password"})
	require.False(t, newPassword.Failed())
	assert.Equal(t, userID, newPassword.Data())
}

func TestUpdatePasswordByIDUnknownUser(t *testing.T) {
	proc, _ := newTestProcessor(t)
	result := proc.UpdatePasswordByID(context.Background(), 9000, modeldto.NewPassword{Password: "rotated-password"})
	require.True(t, result.Failed())
	assert.Equal(t, modelresult.PasswordNotUpdated, result.Kind())
}

func TestUpdatePasswordByIDShortPassword(t *testing.T) {
	proc, _ := newTestProcessor(t)
	userID := registerTestUser(t, proc, "user1")
	result := proc.UpdatePasswordByID(context.Background(), userID, modeldto.NewPassword{Password: "12345"})
	require.True(t, result.Failed())
	assert.Equal(t, modelresult.BadCredentials, result.Kind())
}

func TestCheckUserExistenceByID(t *testing.T) {
	proc, _ := newTestProcessor(t)
	userID := registerTestUser(t, proc, "user1")
	assert.False(t, proc.CheckUserExistenceByID(context.Background(), userID).Failed())
	missing := proc.CheckUserExistenceByID(context.Background(), userID+1)
	require.True(t, missing.Failed())
	assert.Equal(t, modelresult.NotFound, missing.Kind())
}

func TestCreateEntryAndGetByUser(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	userID := registerTestUser(t, proc, "user1")

	created := proc.CreateEntry(ctx, modeldto.Entry{
		Amount:         -12.50,
		Date:           1700000000,
		Destination:    "grocery store",
		Description:    "weekly shopping",
		HasAttachments: true,
	}, userID)
	require.False(t, created.Failed())

	entries := proc.GetEntriesByUserID(ctx, userID)
	require.False(t, entries.Failed())
	require.Len(t, entries.Data(), 1)
	entry := entries.Data()[0]
	assert.Equal(t, created.Data(), entry.ID)
	assert.Equal(t, -12.50, entry.Amount)
	assert.Equal(t, int64(1700000000), entry.Date)
	assert.Equal(t, "grocery store", entry.Destination)
	assert.Equal(t, "weekly shopping", entry.Description)
	assert.True(t, entry.HasAttachments)
	assert.Equal(t, userID, entry.RelatedUserID)
}

func TestCreateEntryOwnerComesFromCaller(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	ownerID := registerTestUser(t, proc, "user1")
	otherID := registerTestUser(t, proc, "user2")

	created := proc.CreateEntry(ctx, modeldto.Entry{
		Amount:        100,
		Date:          1700000000,
		Destination:   "salary",
		RelatedUserID: otherID,
	}, ownerID)
	require.False(t, created.Failed())

	ownerEntries := proc.GetEntriesByUserID(ctx, ownerID)
	require.False(t, ownerEntries.Failed())
	assert.Len(t, ownerEntries.Data(), 1)
	otherEntries := proc.GetEntriesByUserID(ctx, otherID)
	require.False(t, otherEntries.Failed())
	assert.Empty(t, otherEntries.Data())
}

func TestCreateEntryUnknownUser(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	result := proc.CreateEntry(ctx, modeldto.Entry{Amount: 1, Date: 1700000000, Destination: "x"}, 9000)
	require.True(t, result.Failed())
	assert.Equal(t, modelresult.NotFound, result.Kind())
	all := proc.GetAllEntries(ctx)
	require.False(t, all.Failed())
	assert.Empty(t, all.Data())
}

func TestGetEntriesEmptyIsSuccess(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	userID := registerTestUser(t, proc, "user1")

	all := proc.GetAllEntries(ctx)
	require.False(t, all.Failed())
	assert.NotNil(t, all.Data())
	assert.Empty(t, all.Data())

	byUser := proc.GetEntriesByUserID(ctx, userID)
	require.False(t, byUser.Failed())
	assert.NotNil(t, byUser.Data())
	assert.Empty(t, byUser.Data())
}

func TestCreateAttachmentAndGet(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	userID := registerTestUser(t, proc, "user1")
	entry := proc.CreateEntry(ctx, modeldto.Entry{Amount: -5, Date: 1700000000, Destination: "cafe"}, userID)
	require.False(t, entry.Failed())

	created := proc.CreateAttachment(ctx, modeldto.Attachment{Content: "aGVsbG8=|png;d29ybGQ=|jpg"}, entry.Data())
	require.False(t, created.Failed())

	byEntry := proc.GetAttachmentsByEntryID(ctx, entry.Data())
	require.False(t, byEntry.Failed())
	require.Len(t, byEntry.Data(), 1)
	assert.Equal(t, created.Data(), byEntry.Data()[0].ID)
	assert.Equal(t, entry.Data(), byEntry.Data()[0].RelatedEntryID)
	assert.Equal(t, "aGVsbG8=|png;d29ybGQ=|jpg", byEntry.Data()[0].Content)

	byUser := proc.GetAttachmentsByUserID(ctx, userID)
	require.False(t, byUser.Failed())
	assert.Len(t, byUser.Data(), 1)
}

func TestCreateAttachmentUnknownEntry(t *testing.T) {
	proc, _ := newTestProcessor(t)
	result := proc.CreateAttachment(context.Background(), modeldto.Attachment{Content: "aGVsbG8=|png"}, 9000)
	require.True(t, result.Failed())
	assert.Equal(t, modelresult.NotFound, result.Kind())
}

func TestCreateAttachmentBlankContent(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	userID := registerTestUser(t, proc, "user1")
	entry := proc.CreateEntry(ctx, modeldto.Entry{Amount: -5, Date: 1700000000, Destination: "cafe"}, userID)
	require.False(t, entry.Failed())
	result := proc.CreateAttachment(ctx, modeldto.Attachment{Content: "   "}, entry.Data())
	require.True(t, result.Failed())
	assert.Equal(t, modelresult.NotCreated, result.Kind())
}

func TestGetAttachmentsEmptySearch(t *testing.T) {
	proc, _ := newTestProcessor(t)
	ctx := context.Background()
	userID := registerTestUser(t, proc, "user1")
	entry := proc.CreateEntry(ctx, modeldto.Entry{Amount: -5, Date: 1700000000, Destination: "cafe"}, userID)
	require.False(t, entry.Failed())

	byEntry := proc.GetAttachmentsByEntryID(ctx, entry.Data())
	require.True(t, byEntry.Failed())
	assert.Equal(t, modelresult.EmptySearch, byEntry.Kind())
	assert.NoError(t, byEntry.Failure().Unwrap())

	byUser := proc.GetAttachmentsByUserID(ctx, userID)
	require.True(t, byUser.Failed())
	assert.Equal(t, modelresult.EmptySearch, byUser.Kind())
}
