package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// UnknownOwner is shown when a process owner cannot be resolved.
const UnknownOwner = "unknown"

// ProcessSample is one process's raw state at a sampling instant.
type ProcessSample struct {
	PID        int    `json:"pid" yaml:"pid"`
	UID        uint32 `json:"uid" yaml:"uid"`
	Owner      string `json:"owner" yaml:"owner"`
	Name       string `json:"name" yaml:"name"`
	CPUTicks   uint64 `json:"cpu_ticks" yaml:"cpu_ticks"`
	ResidentKB uint64 `json:"resident_kb" yaml:"resident_kb"`
}

// ProcessView is a ProcessSample plus the values derived for one cycle.
type ProcessView struct {
	ProcessSample `yaml:",inline"`
	CPUPercent    float64 `json:"cpu_percent" yaml:"cpu_percent"`
	MemoryMB      float64 `json:"memory_mb" yaml:"memory_mb"`
}

// CycleState carries the previous cycle's counters into the next one.
// A pid missing from Ticks counts as zero prior ticks.
type CycleState struct {
	SystemTicks uint64
	Ticks       map[int]uint64
}

// SortMode selects the table ordering.
type SortMode int

const (
	ByPID SortMode = iota
	ByCPU
	ByMemory
)

func (m SortMode) String() string {
	switch m {
	case ByCPU:
		return "cpu"
	case ByMemory:
		return "mem"
	default:
		return "pid"
	}
}

// ParseSortMode accepts pid, cpu, mem or memory (case-insensitive).
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pid", "":
		return ByPID, nil
	case "cpu":
		return ByCPU, nil
	case "mem", "memory":
		return ByMemory, nil
	}
	return ByPID, fmt.Errorf("invalid sort mode %q - expected pid, cpu or mem", s)
}

// ProcmonHome returns the procmon state directory, respecting PROCMON_HOME.
func ProcmonHome() string {
	if h := os.Getenv("PROCMON_HOME"); h != "" {
		return h
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".procmon")
}

// LogFilePath is the default location of the procmon log.
func LogFilePath() string { return filepath.Join(ProcmonHome(), "procmon.log") }
