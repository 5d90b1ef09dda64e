package results

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := SuccessResult[int, error](42)
		assert.True(t, r.IsSuccess())
		assert.False(t, r.IsFailure())
		assert.Equal(t, 42, *r.Success)
	})

	t.Run("failure", func(t *testing.T) {
		boom := errors.New("boom")
		r := FailureResult[int, error](boom)
		assert.False(t, r.IsSuccess())
		assert.True(t, r.IsFailure())
		assert.ErrorIs(t, *r.Failure, boom)
	})

	t.Run("zero value is neither", func(t *testing.T) {
		var r OperationResult[string, string]
		assert.False(t, r.IsSuccess())
		assert.False(t, r.IsFailure())
	})
}
