package errors

import stderrors "errors"

// Error kinds shared by the template and bibliography packages. They are carried
// as the cause of a ClassifiedError, so callers match them with errors.Is.
var (
	ErrMalformedTemplate  = stderrors.New("odd number of token delimiters")
	ErrUnknownToken       = stderrors.New("token not declared in template")
	ErrIncompleteTemplate = stderrors.New("unresolved tokens remain")
	ErrNotFound           = stderrors.New("not found")
	ErrTypeMismatch       = stderrors.New("entry type does not match classification")
)
