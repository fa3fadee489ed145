package errors

// ErrorBuilder provides a fluent API for creating ClassifiedError instances.
type ErrorBuilder struct {
	category ErrorCategory
	severity ErrorSeverity
	message  string
	cause    error
	context  ErrorContext
}

// NewError creates a new ErrorBuilder with the specified category and message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{
		category: category,
		severity: SeverityError,
		message:  message,
		context:  make(ErrorContext),
	}
}

// WrapError creates a new ErrorBuilder that wraps an existing error.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	b := NewError(category, message)
	b.cause = err
	return b
}

// WithSeverity sets the error severity.
func (b *ErrorBuilder) WithSeverity(severity ErrorSeverity) *ErrorBuilder {
	b.severity = severity
	return b
}

// WithContext adds a context key-value pair.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.context = b.context.Set(key, value)
	return b
}

// Fatal sets the severity to fatal.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	return b.WithSeverity(SeverityFatal)
}

// Warning sets the severity to warning.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	return b.WithSeverity(SeverityWarning)
}

// Build creates the final ClassifiedError.
func (b *ErrorBuilder) Build() *ClassifiedError {
	return &ClassifiedError{
		category: b.category,
		severity: b.severity,
		message:  b.message,
		cause:    b.cause,
		context:  b.context,
	}
}

// Convenience constructors for common error patterns

// ConfigError creates a configuration error.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal()
}

// ValidationError creates a validation error.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal()
}

// TemplateError creates a template error carrying one of the template kinds.
func TemplateError(kind error, message string) *ErrorBuilder {
	return WrapError(kind, CategoryTemplate, message).Fatal()
}

// BibliographyError creates a bibliography error.
func BibliographyError(kind error, message string) *ErrorBuilder {
	return WrapError(kind, CategoryBibliography, message).Fatal()
}

// NotFoundError creates an error for a missing fragment or data file.
func NotFoundError(cause error, message string) *ErrorBuilder {
	b := NewError(CategoryNotFound, message).Fatal()
	if cause == nil {
		b.cause = ErrNotFound
	} else {
		b.cause = notFoundCause{cause}
	}
	return b
}

// FileSystemError wraps a failed read, write or watch of a local path.
func FileSystemError(cause error, message string) *ErrorBuilder {
	return WrapError(cause, CategoryFileSystem, message).Fatal()
}

// IntegrationError wraps a failure of the ledger, notify or publish collaborators.
func IntegrationError(cause error, message string) *ErrorBuilder {
	return WrapError(cause, CategoryIntegration, message)
}

// InternalError creates an internal error.
func InternalError(message string) *ErrorBuilder {
	return NewError(CategoryInternal, message).Fatal()
}

// notFoundCause keeps the underlying I/O error visible while matching ErrNotFound.
type notFoundCause struct{ err error }

func (c notFoundCause) Error() string   { return c.err.Error() }
func (c notFoundCause) Unwrap() []error { return []error{ErrNotFound, c.err} }
