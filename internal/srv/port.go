package srv

import (
	"fmt"
	"net"

	"github.com/devrs/devrs/internal/log"
)

// maxPortAttempts bounds how many consecutive ports FindAvailablePort will
// try before giving up.
const maxPortAttempts = 10

// FindAvailablePort tries binding host:startPort, then host:startPort+1,
// and so on, up to maxPortAttempts times. It binds and immediately closes
// each candidate rather than holding the listener open — a window exists
// between this check and the caller's own bind, but it mirrors the
// source's own best-effort (not atomic) reservation.
func FindAvailablePort(host net.IP, startPort uint16) (*net.TCPAddr, error) {
	port := startPort
	for attempt := 0; attempt < maxPortAttempts; attempt++ {
		addr := &net.TCPAddr{IP: host, Port: int(port)}
		ln, err := net.ListenTCP("tcp", addr)
		if err == nil {
			ln.Close()
			return addr, nil
		}
		log.Warn("port unavailable, trying next", "port", port, "error", err)
		port++
	}
	return nil, fmt.Errorf("no available port found in range %d-%d", startPort, port-1)
}
