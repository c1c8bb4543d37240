package docker

import (
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
)

func TestParsePorts_RoundTrip(t *testing.T) {
	parsed := ParsePorts([]string{"8080:80"})

	port := nat.Port("80/tcp")
	_, exposedOK := parsed.Exposed[port]
	require.True(t, exposedOK)

	bindings, ok := parsed.Bindings[port]
	require.True(t, ok)
	require.Len(t, bindings, 1)
	require.Equal(t, "8080", bindings[0].HostPort)
}

func TestParsePorts_ExplicitProtocol(t *testing.T) {
	parsed := ParsePorts([]string{"53:53/udp"})
	_, ok := parsed.Exposed[nat.Port("53/udp")]
	require.True(t, ok)
}

func TestParsePorts_SkipsMalformedEntries(t *testing.T) {
	parsed := ParsePorts([]string{"not-a-port", "8080:80", ":80", "8080:"})
	require.Len(t, parsed.Exposed, 1)
	_, ok := parsed.Exposed[nat.Port("80/tcp")]
	require.True(t, ok)
}
