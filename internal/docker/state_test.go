package docker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestState_IsLive(t *testing.T) {
	live := []State{StateRunning, StateRestarting, StatePaused}
	for _, s := range live {
		require.True(t, s.IsLive(), "%s should be live", s)
	}

	notLive := []State{StateMissing, StateCreated, StateExited, StateDead}
	for _, s := range notLive {
		require.False(t, s.IsLive(), "%s should not be live", s)
	}
}
