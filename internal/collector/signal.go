//go:build linux || darwin

package collector

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/sys/unix"
)

// SignalKind is a process-control action.
type SignalKind int

const (
	Terminate SignalKind = iota
	Suspend
	Resume
)

// Verb is the imperative form, e.g. "kill".
func (k SignalKind) Verb() string {
	switch k {
	case Suspend:
		return "suspend"
	case Resume:
		return "resume"
	default:
		return "kill"
	}
}

// Past is the past-tense form, e.g. "killed".
func (k SignalKind) Past() string {
	switch k {
	case Suspend:
		return "suspended"
	case Resume:
		return "resumed"
	default:
		return "killed"
	}
}

// ErrInvalidPID is returned for pids that would address a process group,
// including values the kernel would truncate to one.
var ErrInvalidPID = errors.New("invalid pid")

// SignalError reports a failed delivery. Err is the underlying errno.
type SignalError struct {
	PID  int
	Kind SignalKind
	Err  error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("%s pid %d: %s", e.Kind.Verb(), e.PID, e.Reason())
}

func (e *SignalError) Unwrap() error { return e.Err }

// Reason is a short human description of the failure.
func (e *SignalError) Reason() string {
	switch {
	case errors.Is(e.Err, unix.ESRCH):
		return "no such process"
	case errors.Is(e.Err, unix.EPERM):
		return "permission denied"
	case e.Err != nil:
		return e.Err.Error()
	default:
		return "unknown error"
	}
}

// Signaler delivers process-control signals.
type Signaler interface {
	Signal(pid int, kind SignalKind) error
}

// UnixSignaler sends signals with kill(2). KillSignal is used for Terminate.
type UnixSignaler struct {
	KillSignal unix.Signal
	kill       func(pid int, sig unix.Signal) error
}

// NewUnixSignaler returns a signaler that terminates with killSig.
func NewUnixSignaler(killSig unix.Signal) *UnixSignaler {
	if killSig == 0 {
		killSig = unix.SIGKILL
	}
	return &UnixSignaler{KillSignal: killSig, kill: unix.Kill}
}

func (s *UnixSignaler) Signal(pid int, kind SignalKind) error {
	if pid <= 0 || pid > math.MaxInt32 {
		return &SignalError{PID: pid, Kind: kind, Err: ErrInvalidPID}
	}
	if err := s.kill(pid, s.signalFor(kind)); err != nil {
		return &SignalError{PID: pid, Kind: kind, Err: err}
	}
	return nil
}

func (s *UnixSignaler) signalFor(kind SignalKind) unix.Signal {
	switch kind {
	case Suspend:
		return unix.SIGSTOP
	case Resume:
		return unix.SIGCONT
	default:
		return s.KillSignal
	}
}

var allowedKillSignals = map[string]bool{
	"SIGKILL": true,
	"SIGTERM": true,
	"SIGINT":  true,
	"SIGHUP":  true,
	"SIGQUIT": true,
}

// ParseKillSignal accepts names like "KILL", "sigterm" or "SIGINT".
func ParseKillSignal(name string) (unix.Signal, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return unix.SIGKILL, nil
	}
	if !strings.HasPrefix(n, "SIG") {
		n = "SIG" + n
	}
	if !allowedKillSignals[n] {
		return 0, fmt.Errorf("unsupported kill signal %q - expected SIGKILL, SIGTERM, SIGINT, SIGHUP or SIGQUIT", name)
	}
	return unix.SignalNum(n), nil
}
