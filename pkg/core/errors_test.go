package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindpalace/localmem-go/pkg/core"
)

func TestMemoryErrorFormat(t *testing.T) {
	err := core.NewMemoryError("Add", core.ErrStorageOperation)

	assert.Equal(t, "localmem: Add: storage operation failed", err.Error())
}

func TestMemoryErrorUnwrap(t *testing.T) {
	inner := errors.New("disk full")
	err := core.NewMemoryError("Add", inner)

	assert.ErrorIs(t, err, inner)

	var memErr *core.MemoryError
	assert.True(t, errors.As(err, &memErr))
	assert.Equal(t, "Add", memErr.Op)
}

func TestNewMemoryErrorNil(t *testing.T) {
	assert.Nil(t, core.NewMemoryError("Add", nil))
}
