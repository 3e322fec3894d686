package errs

import "errors"

// Error categories shared across layers. Concrete errors carry one of these
// as a mark so the HTTP layer can map them without knowing every reason.
var (
	ErrKindNotFound   = errors.New("not found")
	ErrKindInactive   = errors.New("inactive")
	ErrKindConflict   = errors.New("conflict")
	ErrKindValidation = errors.New("validation failed")
	ErrKindInternal   = errors.New("internal error")
)

var kinds = []error{
	ErrKindNotFound,
	ErrKindInactive,
	ErrKindConflict,
	ErrKindValidation,
}

// publicError is the leaf of a kind sentinel. Its message is written for API
// callers, unlike wrap context or driver text further up the chain.
type publicError struct{ msg string }

func (e *publicError) Error() string { return e.msg }

// NewKind creates a sentinel error with the given message marked as kind.
func NewKind(msg string, kind error) error {
	return Mark(&publicError{msg: msg}, kind)
}

// PublicMessage returns the message of the sentinel err was built from.
// Errors without one fall back to the name of their kind.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var pe *publicError
	if As(err, &pe) {
		return pe.msg
	}
	return KindOf(err).Error()
}

// KindOf returns the category err was marked with. Unmarked errors are internal.
func KindOf(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range kinds {
		if Is(err, k) {
			return k
		}
	}
	return ErrKindInternal
}
