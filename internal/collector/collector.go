// Package collector reads raw process and system counters from the OS and
// delivers control signals to processes.
package collector

import (
	"errors"
	"fmt"
)

// userHZ is the clock tick rate counters are normalized to (USER_HZ).
const userHZ = 100

// ErrVanished reports that a process exited between enumeration and read.
var ErrVanished = errors.New("process vanished")

// RawProcess is the per-process reading a Source returns. Owner resolution
// is left to the caller.
type RawProcess struct {
	PID        int
	Name       string
	UID        uint32
	HasUID     bool
	CPUTicks   uint64
	ResidentKB uint64
}

// Source is the counter side of the OS boundary.
type Source interface {
	// SystemCPUTicks returns cumulative system-wide CPU ticks.
	SystemCPUTicks() (uint64, error)
	// ListPIDs returns the currently live process identifiers.
	ListPIDs() ([]int, error)
	// ReadProcess returns ErrVanished when the name can no longer be read.
	// An unreadable tick counter yields 0 ticks rather than an error.
	ReadProcess(pid int) (RawProcess, error)
}

// MetadataReader renders a process's status/metadata as display lines.
type MetadataReader interface {
	RawMetadata(pid int) ([]string, error)
}

// Host is a Source that can also describe single processes.
type Host interface {
	Source
	MetadataReader
}

// UserResolver maps numeric owner ids to display names.
type UserResolver interface {
	UserName(uid uint32) string
}

func vanished(pid int) error {
	return fmt.Errorf("pid %d: %w", pid, ErrVanished)
}

func secondsToTicks(sec float64) uint64 {
	if sec <= 0 {
		return 0
	}
	return uint64(sec*userHZ + 0.5)
}
