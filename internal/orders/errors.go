package orders

import "fmt"

// Error carries a machine-checkable kind plus the human-readable message the
// caller is allowed to see. Storage details stay out of Message.
type Error struct {
	Kind    string
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Kind
}

// Is matches on kind so errors.Is(err, ErrNotFound) works for any message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: "validation", Message: "invalid input"}
	ErrNotFound          = &Error{Kind: "not_found", Message: "not found"}
	ErrInsufficientStock = &Error{Kind: "insufficient_stock", Message: "insufficient stock"}
	ErrIllegalTransition = &Error{Kind: "illegal_transition", Message: "illegal state transition"}
	ErrUnauthorized      = &Error{Kind: "unauthorized", Message: "unauthorized"}
)

// Errorf builds an error of the same kind as base with a formatted message.
func Errorf(base *Error, format string, args ...any) error {
	return &Error{Kind: base.Kind, Message: fmt.Sprintf(format, args...)}
}
