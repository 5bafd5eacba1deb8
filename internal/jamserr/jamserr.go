// Package jamserr defines the error taxonomy of spec §7 using the teacher's
// sentinel-struct-plus-predicate pattern (see manager/errors.go), so both the
// HTTP and gRPC transports can map any error to a status code with one
// switch instead of string matching.
package jamserr

import (
	"fmt"
	"net/http"
)

// Kind is one of the closed error categories from spec §7.
type Kind int

const (
	KindBadInput Kind = iota
	KindNotFound
	KindAlreadyPresent
	KindLoadError
	KindInferenceFailure
	KindDeadline
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindBadInput:
		return "bad_input"
	case KindNotFound:
		return "not_found"
	case KindAlreadyPresent:
		return "already_present"
	case KindLoadError:
		return "load_error"
	case KindInferenceFailure:
		return "inference_failure"
	case KindDeadline:
		return "deadline"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps a Kind with a message and an optional cause.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// Kind reports the error's category.
func (e *Error) Kind() Kind { return e.kind }

// StatusCode implements httpapi.HTTPError.
func (e *Error) StatusCode() int {
	switch e.kind {
	case KindBadInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyPresent:
		return http.StatusConflict
	case KindLoadError, KindInferenceFailure:
		return http.StatusInternalServerError
	case KindDeadline:
		return http.StatusGatewayTimeout
	case KindFatal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// GRPCCode reports the google.golang.org/grpc/codes.Code value (as a plain
// uint32, so this package does not need to import grpc) matching e's kind,
// per spec §6's HTTP/gRPC error mapping table.
func (e *Error) GRPCCode() uint32 {
	switch e.kind {
	case KindBadInput:
		return 3 // codes.InvalidArgument
	case KindNotFound:
		return 5 // codes.NotFound
	case KindAlreadyPresent:
		return 6 // codes.AlreadyExists
	case KindDeadline:
		return 4 // codes.DeadlineExceeded
	case KindLoadError, KindInferenceFailure, KindFatal:
		return 13 // codes.Internal
	default:
		return 13
	}
}

func new(kind Kind, msg string, cause error) *Error {
	return &Error{kind: kind, msg: msg, cause: cause}
}

func BadInput(msg string, cause error) error { return new(KindBadInput, msg, cause) }
func NotFound(name string) error             { return new(KindNotFound, "model not found: "+name, nil) }
func AlreadyPresent(name string) error {
	return new(KindAlreadyPresent, "model already present: "+name, nil)
}
func LoadError(msg string, cause error) error        { return new(KindLoadError, msg, cause) }
func InferenceFailure(msg string, cause error) error { return new(KindInferenceFailure, msg, cause) }
func Deadline(msg string) error                      { return new(KindDeadline, msg, nil) }
func Fatal(msg string, cause error) error            { return new(KindFatal, msg, cause) }

func kindOf(err error) (Kind, bool) {
	var e *Error
	for err != nil {
		if je, ok := err.(*Error); ok {
			e = je
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if e == nil {
		return 0, false
	}
	return e.kind, true
}

// IsNotFound reports whether err (or a wrapped cause) is a NotFound error.
func IsNotFound(err error) bool { k, ok := kindOf(err); return ok && k == KindNotFound }

// IsAlreadyPresent reports whether err is an AlreadyPresent error.
func IsAlreadyPresent(err error) bool { k, ok := kindOf(err); return ok && k == KindAlreadyPresent }

// IsBadInput reports whether err is a BadInput error.
func IsBadInput(err error) bool { k, ok := kindOf(err); return ok && k == KindBadInput }

// IsDeadline reports whether err is a Deadline error.
func IsDeadline(err error) bool { k, ok := kindOf(err); return ok && k == KindDeadline }
