package errext

import "errors"

// Exception is implemented by errors that carry a preformatted stack trace
// to display in place of the plain Error() text.
type Exception interface {
	error
	StackTrace() string
}

// Format renders err for display: an Exception's stack trace takes the
// place of its Error() text, and the hint of the first HasHint in err's
// wrap chain is surfaced as a "hint" field alongside it. Returns ("", nil)
// for a nil error.
func Format(err error) (string, map[string]interface{}) {
	if err == nil {
		return "", nil
	}

	text := err.Error()
	if exc, ok := err.(Exception); ok {
		text = exc.StackTrace()
	}

	var fields map[string]interface{}
	var hint HasHint
	if errors.As(err, &hint) {
		fields = map[string]interface{}{"hint": hint.Hint()}
	}
	return text, fields
}
