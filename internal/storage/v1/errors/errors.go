// Package errors provides custom storage error types.
package errors

import (
	"fmt"
)

type (
	TransactionPSQLError struct {
		Err error
	}
	ExecutionPSQLError struct {
		Err error
	}
	ScanningPSQLError struct {
		Err error
	}
	AlreadyExistsError struct {
		Err error
		ID  string
	}
	NotFoundError struct {
		Err error
	}
	NotUpdatedError struct {
		Err error
	}
	ContextTimeoutExceededError struct {
		Err error
	}
)

func (e *TransactionPSQLError) Error() string {
	return fmt.Sprintf("%s: could not process transaction", e.Err.Error())
}

func (e *ExecutionPSQLError) Error() string {
	return fmt.Sprintf("%s: could not execute", e.Err.Error())
}

func (e *ScanningPSQLError) Error() string {
	return fmt.Sprintf("%s: could not scan", e.Err.Error())
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s: already exists", e.ID)
}

func (e *NotFoundError) Error() string {
	return "item not found"
}

func (e *NotUpdatedError) Error() string {
	return "no rows were affected"
}

func (e *ContextTimeoutExceededError) Error() string {
	return fmt.Sprintf("%s: context timeout exceeded", e.Err.Error())
}
