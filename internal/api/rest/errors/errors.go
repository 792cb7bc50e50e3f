// Package errors provides custom error types for the REST layer.
package errors

type (
	HandlersFoundNilArgument struct {
		Msg string
	}
	MiddlewareFoundNilArgument struct {
		Msg string
	}
)

func (e *HandlersFoundNilArgument) Error() string {
	return e.Msg
}

func (e *MiddlewareFoundNilArgument) Error() string {
	return e.Msg
}
