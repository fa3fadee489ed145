package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "pagesmith.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "pagesmith.yaml", file)
	})

	t.Run("Kinds survive wrapping", func(t *testing.T) {
		err := TemplateError(ErrUnknownToken, "replace unknown token \"X\"").Build()
		wrapped := fmt.Errorf("assemble page: %w", err)

		assert.ErrorIs(t, wrapped, ErrUnknownToken)
		ce, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.True(t, HasCategory(wrapped, CategoryTemplate))
		assert.Equal(t, SeverityFatal, ce.Severity())
	})

	t.Run("Not found keeps the I/O cause", func(t *testing.T) {
		err := NotFoundError(fs.ErrNotExist, "fragment missing").Build()
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, err, fs.ErrNotExist)

		bare := NotFoundError(nil, "entry missing").Build()
		assert.ErrorIs(t, bare, ErrNotFound)
	})

	t.Run("Wrapping helpers keep the cause", func(t *testing.T) {
		fsErr := FileSystemError(fs.ErrPermission, "failed to write page").Build()
		assert.Equal(t, CategoryFileSystem, fsErr.Category())
		assert.ErrorIs(t, fsErr, fs.ErrPermission)

		cause := errors.New("connection refused")
		intErr := IntegrationError(cause, "nats publish failed").Warning().Build()
		assert.Equal(t, CategoryIntegration, intErr.Category())
		assert.Equal(t, SeverityWarning, intErr.Severity())
		assert.ErrorIs(t, intErr, cause)
	})

	t.Run("Unclassified", func(t *testing.T) {
		_, ok := AsClassified(errors.New("plain"))
		assert.False(t, ok)
		assert.False(t, HasCategory(errors.New("plain"), CategoryInternal))
	})
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := ValidationError("bad").WithContext("a", 1).Build()
	derived := base.WithContext("b", 2)

	_, ok := base.Context().Get("b")
	assert.False(t, ok)
	assert.Equal(t, "a=1 b=2", derived.Detail())
	assert.True(t, errors.Is(derived, base))
}

func TestErrorContext(t *testing.T) {
	ctx := ErrorContext{}.Set("key", "value").Set("count", 3)

	v, ok := ctx.GetString("key")
	require.True(t, ok)
	assert.Equal(t, "value", v)
	_, ok = ctx.GetString("count")
	assert.False(t, ok)

	var nilCtx ErrorContext
	_, ok = nilCtx.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, "x", nilCtx.Set("k", "x")["k"])
}
