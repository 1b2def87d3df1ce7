package lifecycle

import "errors"

// Kind tags an error with the guard that failed so the HTTP layer can map it
// to a status code without string matching.
type Kind string

const (
	KindValidation Kind = "validation"
	KindRole       Kind = "role"
	KindNotPending Kind = "not_pending"
	KindNotActive  Kind = "not_active"
	KindOutOfStock Kind = "out_of_stock"
	KindNotOwner   Kind = "not_owner"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func E(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the Kind carried by err, or "" for untagged errors.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }
