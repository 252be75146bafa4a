// internal/services/errors.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javajoker/campus-marketplace/internal/utils"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindPermissionDenied
	KindForbidden
	KindNotFound
	KindConflict
	KindInvalidArgument
	KindInvalidIdentity
)

func (k ErrorKind) String() string {
	switch k {
	case KindPermissionDenied:
		return "permission_denied"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindInvalidIdentity:
		return "invalid_identity"
	default:
		return "internal"
	}
}

// Error is a domain failure whose Message is safe to show to the caller.
// Details, when set, lists the individual problems behind Message.
type Error struct {
	Kind    ErrorKind
	Message string
	Details []string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	if len(args) > 0 {
		return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
	}
	return &Error{Kind: kind, Message: format}
}

const (
	MsgPermissionDenied = "You do not have permission to perform this action"
	MsgForbidden        = "You are not allowed to perform this action."
	MsgMissingInput     = "Must provide an input to perform mutation."
	MsgInternal         = "Internal server error"
)

// ErrPermissionDenied is returned for anonymous callers and callers below
// the required tier.
var ErrPermissionDenied = &Error{Kind: KindPermissionDenied, Message: MsgPermissionDenied}

func validationError(err error) *Error {
	details := utils.ValidationMessages(err)
	return &Error{
		Kind:    KindInvalidArgument,
		Message: strings.Join(details, "; "),
		Details: details,
	}
}

// KindOf returns the kind of a domain error and KindInternal for anything
// else.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage is the caller facing text for err. Unexpected failures are
// masked.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return MsgInternal
}

// PublicMessages splits err into the list carried by mutation payloads.
func PublicMessages(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		if len(e.Details) > 0 {
			return e.Details
		}
		return []string{e.Message}
	}
	return []string{MsgInternal}
}
