package docker

import (
	"strings"

	"github.com/docker/go-connections/nat"

	"github.com/devrs/devrs/internal/log"
)

// ParsedPorts is the result of turning a Config's "HOST:CONTAINER[/proto]"
// port strings into the types the Docker SDK's container-create call wants.
type ParsedPorts struct {
	Exposed  nat.PortSet
	Bindings nat.PortMap
}

// ParsePorts parses each entry in specs, logging and skipping any entry
// that doesn't parse rather than failing the whole operation — matching
// the source's "warn and drop" handling of malformed port mappings.
func ParsePorts(specs []string) ParsedPorts {
	exposed := make(nat.PortSet)
	bindings := make(nat.PortMap)

	for _, spec := range specs {
		hostPort, containerPortProto, ok := splitHostContainer(spec)
		if !ok {
			log.Warn("skipping malformed port mapping", "spec", spec)
			continue
		}

		port, err := nat.NewPort(containerPortProto.proto, containerPortProto.port)
		if err != nil {
			log.Warn("skipping malformed port mapping", "spec", spec, "error", err)
			continue
		}

		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{HostPort: hostPort})
	}

	return ParsedPorts{Exposed: exposed, Bindings: bindings}
}

type containerPortSpec struct {
	port  string
	proto string
}

// splitHostContainer splits "HOST:CONTAINER[/proto]" into its host port and
// a container port/protocol pair. proto defaults to "tcp".
func splitHostContainer(spec string) (hostPort string, cps containerPortSpec, ok bool) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", containerPortSpec{}, false
	}
	hostPort = parts[0]

	containerPart := parts[1]
	proto := "tcp"
	if idx := strings.Index(containerPart, "/"); idx != -1 {
		proto = containerPart[idx+1:]
		containerPart = containerPart[:idx]
	}
	if containerPart == "" || proto == "" {
		return "", containerPortSpec{}, false
	}
	return hostPort, containerPortSpec{port: containerPart, proto: proto}, true
}
