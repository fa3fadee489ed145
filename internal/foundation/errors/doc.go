// Package errors provides the classified error primitives used across pagesmith.
//
// Key features:
//   - ErrorCategory: Broad error classification (template, bibliography, config, ...)
//   - ErrorSeverity: Impact level (fatal, error, warning)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - Error kinds (ErrUnknownToken, ErrTypeMismatch, ...) matched with errors.Is
//   - CLI adapter for exit codes and presentation
//
// Example usage:
//
//	err := errors.TemplateError(errors.ErrUnknownToken, "replace unknown token \"TITLE\"").
//		WithContext("token", "TITLE").
//		WithContext("fragment", "blocks/header.html").
//		Build()
package errors
