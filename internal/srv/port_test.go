package srv

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindAvailablePort_StartIsFree(t *testing.T) {
	host := net.ParseIP("127.0.0.1")
	// Grab an ephemeral free port by binding with port 0 first.
	ln, err := net.ListenTCP("tcp", &net.TCPAddr{IP: host, Port: 0})
	require.NoError(t, err)
	freePort := uint16(ln.Addr().(*net.TCPAddr).Port)
	require.NoError(t, ln.Close())

	addr, err := FindAvailablePort(host, freePort)
	require.NoError(t, err)
	require.Equal(t, int(freePort), addr.Port)
}

func TestFindAvailablePort_StartOccupiedFallsForward(t *testing.T) {
	host := net.ParseIP("127.0.0.1")
	ln, err := net.ListenTCP("tcp", &net.TCPAddr{IP: host, Port: 0})
	require.NoError(t, err)
	defer ln.Close()
	occupied := uint16(ln.Addr().(*net.TCPAddr).Port)

	addr, err := FindAvailablePort(host, occupied)
	require.NoError(t, err)
	require.Greater(t, addr.Port, int(occupied))
}

func TestFindAvailablePort_ExhaustsAttempts(t *testing.T) {
	host := net.ParseIP("127.0.0.1")

	var listeners []*net.TCPListener
	defer func() {
		for _, ln := range listeners {
			ln.Close()
		}
	}()

	ln, err := net.ListenTCP("tcp", &net.TCPAddr{IP: host, Port: 0})
	require.NoError(t, err)
	start := uint16(ln.Addr().(*net.TCPAddr).Port)
	listeners = append(listeners, ln)

	for i := uint16(1); i < maxPortAttempts; i++ {
		ln, err := net.ListenTCP("tcp", &net.TCPAddr{IP: host, Port: int(start + i)})
		if err != nil {
			t.Skipf("could not reserve contiguous ports for test: %v", err)
		}
		listeners = append(listeners, ln)
	}

	_, err = FindAvailablePort(host, start)
	require.Error(t, err)
}
