// Package processor provides intermediary layer functionality between the DB
// and API endpoint handlers.
package processor

import (
	"errors"

	"github.com/danilovkiri/dk-go-finances/internal/models/modelresult"
	hasher "github.com/danilovkiri/dk-go-finances/internal/service/hasher/v1"
	serviceErrors "github.com/danilovkiri/dk-go-finances/internal/service/processor/v1/errors"
	storage "github.com/danilovkiri/dk-go-finances/internal/storage/v1"
	storageErrors "github.com/danilovkiri/dk-go-finances/internal/storage/v1/errors"
)

// Processor defines attributes of a struct available to its methods.
type Processor struct {
	storage storage.Storage
	hasher  hasher.Hasher
}

// InitService initializes an intermediary service for data processing.
func InitService(st storage.Storage, hs hasher.Hasher) (*Processor, error) {
	if st == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil storage was passed to service initializer"}
	}
	if hs == nil {
		return nil, &serviceErrors.ServiceFoundNilArgument{Msg: "nil hasher was passed to service initializer"}
	}
	processor := &Processor{
		storage: st,
		hasher:  hs,
	}
	return processor, nil
}

// mapStorageFailure converts typed storage errors to the nearest semantic
// failure kind, infrastructure faults collapse into the fallback kind.
func mapStorageFailure[D any](err error, fallback modelresult.Kind) modelresult.Result[D] {
	var alreadyExistsError *storageErrors.AlreadyExistsError
	var notFoundError *storageErrors.NotFoundError
	var notUpdatedError *storageErrors.NotUpdatedError
	switch {
	case errors.As(err, &alreadyExistsError):
		return modelresult.Fail[D](modelresult.NotCreated, err)
	case errors.As(err, &notFoundError):
		return modelresult.Fail[D](modelresult.NotFound, err)
	case errors.As(err, &notUpdatedError):
		return modelresult.Fail[D](modelresult.PasswordNotUpdated, err)
	default:
		return modelresult.Fail[D](fallback, err)
	}
}
