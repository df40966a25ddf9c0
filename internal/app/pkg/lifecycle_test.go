package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifecycle_Shutdown(t *testing.T) {
	lifecycle := NewLifecycle()
	assert.NoError(t, lifecycle.Context().Err())

	lifecycle.Shutdown()
	lifecycle.Shutdown()

	assert.Error(t, lifecycle.Context().Err())
}
