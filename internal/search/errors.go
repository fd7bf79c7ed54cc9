package search

import (
	"context"
	"errors"
	"fmt"
	"net"

	"bookfinder/be/internal/book"
)

type ErrorKind string

const (
	ErrKindTimeout    ErrorKind = "timeout"
	ErrKindCanceled   ErrorKind = "canceled"
	ErrKindConnection ErrorKind = "connection"
	ErrKindStatus     ErrorKind = "status"
	ErrKindDecode     ErrorKind = "decode"
	ErrKindOther      ErrorKind = "other"
)

// AdapterError is the tagged failure every SourceAdapter returns.
type AdapterError struct {
	Source  book.Source
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

func (e *AdapterError) Unwrap() error {
	return e.Err
}

// AsAdapterError returns err as an *AdapterError, wrapping foreign errors.
func AsAdapterError(source book.Source, err error) *AdapterError {
	var adapterErr *AdapterError
	if errors.As(err, &adapterErr) {
		return adapterErr
	}
	return transportError(source, err)
}

func statusError(source book.Source, status int, body string) *AdapterError {
	msg := fmt.Sprintf("unexpected status %d", status)
	if body != "" {
		msg = fmt.Sprintf("%s: %s", msg, body)
	}
	return &AdapterError{Source: source, Kind: ErrKindStatus, Message: msg}
}

func decodeError(source book.Source, err error) *AdapterError {
	return &AdapterError{Source: source, Kind: ErrKindDecode, Message: "decode response: " + err.Error(), Err: err}
}

func transportError(source book.Source, err error) *AdapterError {
	return &AdapterError{Source: source, Kind: classifyTransport(err), Message: err.Error(), Err: err}
}

func classifyTransport(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrKindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return ErrKindCanceled
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrKindTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrKindConnection
	}
	return ErrKindOther
}
