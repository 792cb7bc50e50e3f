package processor

import (
	"context"

	"github.com/danilovkiri/dk-go-finances/internal/models/modeldto"
	"github.com/danilovkiri/dk-go-finances/internal/models/modelresult"
)

// CreateUser hashes the password and inserts a new user, NotCreated covers a
// taken login and any other insert failure.
func (proc *Processor) CreateUser(ctx context.Context, credentials modeldto.Credentials) modelresult.Result[int64] {
	if err := credentials.Validate(); err != nil {
		return modelresult.Fail[int64](modelresult.BadCredentials, err)
	}
	passwordHash, err := proc.hasher.Hash(credentials.Password)
	if err != nil {
		return modelresult.Fail[int64](modelresult.NotCreated, err)
	}
	id, err := proc.storage.AddNewUser(ctx, credentials.Login, passwordHash)
	if err != nil {
		return mapStorageFailure[int64](err, modelresult.NotCreated)
	}
	return modelresult.OK(id)
}

// GetUserByID retrieves the full user record or NotFound.
func (proc *Processor) GetUserByID(ctx context.Context, id int64) modelresult.Result[modeldto.User] {
	user, err := proc.storage.GetUserByID(ctx, id)
	if err != nil {
		return mapStorageFailure[modeldto.User](err, modelresult.NotFound)
	}
	return modelresult.OK(modeldto.User{
		ID:           user.ID,
		Login:        user.Login,
		PasswordHash: user.PasswordHash,
	})
}

// UpdatePasswordByID re-hashes and overwrites the stored hash, requiring
// exactly one affected row. PasswordNotUpdated covers both a missing user and
// a storage anomaly, the two are not distinguished.
func (proc *Processor) UpdatePasswordByID(ctx context.Context, id int64, next modeldto.NewPassword) modelresult.Result[modelresult.Unit] {
	if err := next.Validate(); err != nil {
		return modelresult.Fail[modelresult.Unit](modelresult.BadCredentials, err)
	}
	passwordHash, err := proc.hasher.Hash(next.Password)
	if err != nil {
		return modelresult.Fail[modelresult.Unit](modelresult.PasswordNotUpdated, err)
	}
	if err := proc.storage.UpdatePasswordByID(ctx, id, passwordHash); err != nil {
		return mapStorageFailure[modelresult.Unit](err, modelresult.PasswordNotUpdated)
	}
	return modelresult.OK(modelresult.Unit{})
}

// CheckUserExistenceByID reports user existence, used for referential checks
// and token-validity gating.
func (proc *Processor) CheckUserExistenceByID(ctx context.Context, id int64) modelresult.Result[modelresult.Unit] {
	if err := proc.storage.CheckUserExistenceByID(ctx, id); err != nil {
		return mapStorageFailure[modelresult.Unit](err, modelresult.NotFound)
	}
	return modelresult.OK(modelresult.Unit{})
}

// CheckCredentials verifies a login/password pair against the stored hash.
// An unknown login and a wrong password both surface as NotFound so that
// authentication failures never disclose whether a login exists.
func (proc *Processor) CheckCredentials(ctx context.Context, credentials modeldto.Credentials) modelresult.Result[int64] {
	if err := credentials.Validate(); err != nil {
		return modelresult.Fail[int64](modelresult.BadCredentials, err)
	}
	user, err := proc.storage.GetUserByLogin(ctx, credentials.Login)
	if err != nil {
		return modelresult.Fail[int64](modelresult.NotFound, err)
	}
	if !proc.hasher.Check(credentials.Password, user.PasswordHash) {
		return modelresult.Fail[int64](modelresult.NotFound, nil)
	}
	return modelresult.OK(user.ID)
}
