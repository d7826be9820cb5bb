package errors

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrapf(t *testing.T) {
	original := New("original")
	wrapped := Wrapf(original, "wrapped: %d", 42)

	assert.Contains(t, wrapped.Error(), "wrapped: 42")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("error"), "check the queue path")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "check the queue path", hints[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
	assert.NotNil(t, GetStack(err))
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WrapIO(nil, "open", "worktodo.txt"))
}

func TestSentinels(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		err := NewNotFoundError("no valid entry in %s", "worktodo.txt")
		assert.True(t, IsNotFoundError(err))
		assert.False(t, IsInvalidRequestError(err))
		assert.Contains(t, err.Error(), "worktodo.txt")
	})

	t.Run("invalid request", func(t *testing.T) {
		err := NewInvalidRequestError("queue.path cannot be empty")
		assert.True(t, IsInvalidRequestError(err))
		assert.False(t, IsNotFoundError(err))
	})

	t.Run("nil is nothing", func(t *testing.T) {
		assert.False(t, IsNotFoundError(nil))
		assert.False(t, IsIOError(nil))
	})
}

func TestWrapIO(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")
	_, openErr := os.Open(missing)
	require.Error(t, openErr)

	err := WrapIO(openErr, "open", missing)

	assert.True(t, IsIOError(err))
	assert.True(t, Is(err, fs.ErrNotExist), "original cause must stay matchable")
	assert.Contains(t, err.Error(), "open "+missing)
}

func ExampleWrap() {
	baseErr := New("permission denied")
	err := Wrap(baseErr, "failed to open worktodo.txt")
	fmt.Println(err)
	// Output: failed to open worktodo.txt: permission denied
}
