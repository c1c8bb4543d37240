// Package devrserr defines the tagged error-kind taxonomy shared by every
// devrs component that talks to the Docker daemon. Callers inspect errors
// by Kind, never by matching on Error() text or the concrete type of a
// wrapped SDK error.
package devrserr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the fixed set of ways a devrs operation can fail.
type Kind int

const (
	// Unknown is the zero value; never constructed intentionally.
	Unknown Kind = iota
	DaemonUnreachable
	ContainerNotFound
	ContainerRunning
	ImageNotFound
	ImageInUse
	NameConflict
	BuildFailed
	RemovalConflict
	StartedButNotRunning
	CommandExitNonZero
	DaemonOperation
	Config
)

func (k Kind) String() string {
	switch k {
	case DaemonUnreachable:
		return "daemon_unreachable"
	case ContainerNotFound:
		return "container_not_found"
	case ContainerRunning:
		return "container_running"
	case ImageNotFound:
		return "image_not_found"
	case ImageInUse:
		return "image_in_use"
	case NameConflict:
		return "name_conflict"
	case BuildFailed:
		return "build_failed"
	case RemovalConflict:
		return "removal_conflict"
	case StartedButNotRunning:
		return "started_but_not_running"
	case CommandExitNonZero:
		return "command_exit_non_zero"
	case DaemonOperation:
		return "daemon_operation"
	case Config:
		return "config"
	default:
		return "unknown"
	}
}

// Error is the single error type for every devrs operation. It carries a
// Kind for discriminant-based handling plus whatever context fields apply
// to that kind, and wraps the underlying cause (if any) for %w chains.
type Error struct {
	Kind Kind

	Name string // container or image name, for Kind in {ContainerNotFound,ContainerRunning,NameConflict}
	Ref  string // image reference, for Kind in {ImageNotFound,ImageInUse}
	Msg  string // free-form detail, for Kind in {BuildFailed(short),RemovalConflict,Config}
	Code int    // exit/status code, for Kind == CommandExitNonZero

	Err error // wrapped cause, if any
}

func (e *Error) Error() string {
	switch e.Kind {
	case DaemonUnreachable:
		return fmt.Sprintf("cannot reach the Docker daemon: %v", e.Err)
	case ContainerNotFound:
		return fmt.Sprintf("container %q not found", e.Name)
	case ContainerRunning:
		return fmt.Sprintf("container %q is running (use --force to remove it anyway)", e.Name)
	case ImageNotFound:
		return fmt.Sprintf("image %q not found (try running `env build`)", e.Ref)
	case ImageInUse:
		return fmt.Sprintf("image %q is in use by a container (stop it first)", e.Ref)
	case NameConflict:
		return fmt.Sprintf("a container named %q already exists", e.Name)
	case BuildFailed:
		return fmt.Sprintf("build failed: %s: %v", e.Msg, e.Err)
	case RemovalConflict:
		return fmt.Sprintf("removal conflict: %s", e.Msg)
	case StartedButNotRunning:
		return "container was started but is not running"
	case CommandExitNonZero:
		return fmt.Sprintf("command exited with code %d", e.Code)
	case DaemonOperation:
		return fmt.Sprintf("docker daemon operation failed: %v", e.Err)
	case Config:
		return fmt.Sprintf("configuration error: %s", e.Msg)
	default:
		return "devrs: unknown error"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func NewDaemonUnreachable(cause error) *Error {
	return &Error{Kind: DaemonUnreachable, Err: cause}
}

func NewContainerNotFound(name string) *Error {
	return &Error{Kind: ContainerNotFound, Name: name}
}

func NewContainerRunning(name string) *Error {
	return &Error{Kind: ContainerRunning, Name: name}
}

func NewImageNotFound(ref string) *Error {
	return &Error{Kind: ImageNotFound, Ref: ref}
}

func NewImageInUse(ref string) *Error {
	return &Error{Kind: ImageInUse, Ref: ref}
}

func NewNameConflict(name string) *Error {
	return &Error{Kind: NameConflict, Name: name}
}

func NewBuildFailed(short, detail string) *Error {
	return &Error{Kind: BuildFailed, Msg: short, Err: errors.New(detail)}
}

func NewRemovalConflict(msg string) *Error {
	return &Error{Kind: RemovalConflict, Msg: msg}
}

func NewStartedButNotRunning() *Error {
	return &Error{Kind: StartedButNotRunning}
}

func NewCommandExitNonZero(code int) *Error {
	return &Error{Kind: CommandExitNonZero, Code: code}
}

func NewDaemonOperation(cause error) *Error {
	return &Error{Kind: DaemonOperation, Err: cause}
}

func NewConfig(msg string) *Error {
	return &Error{Kind: Config, Msg: msg}
}

// Is reports whether err is a devrs error of the given kind.
func Is(err error, kind Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

// KindOf returns the Kind of err if it is a devrs error, else Unknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return Unknown
}
