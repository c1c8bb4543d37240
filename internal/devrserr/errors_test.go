package devrserr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf_WrappedError(t *testing.T) {
	base := NewContainerNotFound("devrs-core-env-instance")
	wrapped := fmt.Errorf("ensuring core env: %w", base)

	require.True(t, Is(wrapped, ContainerNotFound))
	require.Equal(t, ContainerNotFound, KindOf(wrapped))
	require.False(t, Is(wrapped, ImageNotFound))
}

func TestKindOf_PlainError(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(errors.New("boom")))
	assert.False(t, Is(errors.New("boom"), DaemonOperation))
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NewContainerNotFound("x"), `container "x" not found`},
		{NewImageInUse("devrs-core-env:latest"), `image "devrs-core-env:latest" is in use by a container (stop it first)`},
		{NewNameConflict("devrs-app-foo"), `a container named "devrs-app-foo" already exists`},
		{NewCommandExitNonZero(7), "command exited with code 7"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.err.Error())
	}
}

func TestBuildFailed_UnwrapsDetail(t *testing.T) {
	err := NewBuildFailed("step 3/5 failed", "gcc: command not found")
	require.ErrorContains(t, errors.Unwrap(err), "gcc: command not found")
}

func TestBuildFailed_ErrorIncludesDetail(t *testing.T) {
	err := NewBuildFailed("step 3/5 failed", "gcc: command not found")
	require.Contains(t, err.Error(), "step 3/5 failed")
	require.Contains(t, err.Error(), "gcc: command not found")
}
