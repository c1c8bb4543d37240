package srv

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devrs/devrs/internal/log"
)

const shutdownTimeout = 5 * time.Second

// Run finds an available port starting at cfg.Port, starts the HTTP
// server, prints a startup banner, and blocks until ctx is canceled or the
// process receives SIGINT/SIGTERM, at which point it shuts down gracefully.
func Run(ctx context.Context, cfg *Config) error {
	addr, err := FindAvailablePort(cfg.Host, cfg.Port)
	if err != nil {
		return err
	}

	printBanner(cfg, addr)

	server := &http.Server{
		Addr:    addr.String(),
		Handler: NewRouter(cfg),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func printBanner(cfg *Config, addr *net.TCPAddr) {
	localURL := fmt.Sprintf("http://%s", addr.String())
	networkURL := fmt.Sprintf("http://%s:%d", localIP(), addr.Port)

	fmt.Printf("📂 Serving %s\n", cfg.Directory)
	fmt.Printf("🔗 Local:   %s\n", localURL)
	fmt.Printf("🌐 Network: %s\n", networkURL)
	fmt.Printf("⚙️  Bind:    %s\n", addr.String())
	fmt.Printf("❓ Index:   %s\n", cfg.IndexFile)
	corsState := "disabled"
	if cfg.EnableCORS {
		corsState = "enabled"
	}
	fmt.Printf("🔒 CORS:    %s\n", corsState)
	if cfg.ShowHidden {
		fmt.Printf("👻 Hidden files: shown\n")
	}
}

// localIP returns the first non-loopback IPv4 address found on any
// interface, or "localhost" if none is found. Unlike the source (which
// shells out to ipconfig/ip/ifconfig), this queries the standard library
// directly.
func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		log.Debug("failed to enumerate interfaces for network URL", "error", err)
		return "localhost"
	}
	for _, a := range addrs {
		ipNet, ok := a.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ip4 := ipNet.IP.To4(); ip4 != nil {
			return ip4.String()
		}
	}
	return "localhost"
}
