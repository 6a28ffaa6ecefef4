//go:build linux

package collector

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/prometheus/procfs"

	"github.com/7c/procmon/internal/procinspect"
)

// ProcFS reads counters from a mounted proc filesystem.
type ProcFS struct {
	fs      procfs.FS
	inspect *procinspect.Inspector
}

// Open returns the host reader for this platform.
func Open() (Host, error) {
	return NewProcFS(procfs.DefaultMountPoint)
}

// NewProcFS opens the proc filesystem mounted at mountPoint.
func NewProcFS(mountPoint string) (*ProcFS, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", mountPoint, err)
	}
	in, err := procinspect.New(mountPoint)
	if err != nil {
		return nil, err
	}
	return &ProcFS{fs: fs, inspect: in}, nil
}

// SystemCPUTicks sums user, nice, system, idle, iowait, irq, softirq and
// steal time from the aggregate cpu line of /proc/stat.
func (p *ProcFS) SystemCPUTicks() (uint64, error) {
	stat, err := p.fs.Stat()
	if err != nil {
		return 0, fmt.Errorf("read system cpu: %w", err)
	}
	c := stat.CPUTotal
	return secondsToTicks(c.User) + secondsToTicks(c.Nice) + secondsToTicks(c.System) +
		secondsToTicks(c.Idle) + secondsToTicks(c.Iowait) + secondsToTicks(c.IRQ) +
		secondsToTicks(c.SoftIRQ) + secondsToTicks(c.Steal), nil
}

func (p *ProcFS) ListPIDs() ([]int, error) {
	procs, err := p.fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	pids := make([]int, 0, len(procs))
	for _, proc := range procs {
		pids = append(pids, proc.PID)
	}
	return pids, nil
}

func (p *ProcFS) ReadProcess(pid int) (RawProcess, error) {
	proc, err := p.fs.Proc(pid)
	if err != nil {
		return RawProcess{}, vanished(pid)
	}
	name, err := proc.Comm()
	if err != nil || name == "" {
		return RawProcess{}, vanished(pid)
	}

	rp := RawProcess{PID: pid, Name: name}
	if status, err := proc.NewStatus(); err == nil {
		rp.UID = uint32(status.UIDs[0])
		rp.HasUID = true
		rp.ResidentKB = status.VmRSS / 1024
	}
	if stat, err := proc.Stat(); err == nil {
		rp.CPUTicks = uint64(stat.UTime) + uint64(stat.STime)
	}
	return rp, nil
}

// RawMetadata renders the full inspection report for pid.
func (p *ProcFS) RawMetadata(pid int) ([]string, error) {
	info, err := p.inspect.Inspect(pid)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	procinspect.FormatFull(&buf, info)
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

// Inspector exposes the underlying inspector for the CLI.
func (p *ProcFS) Inspector() *procinspect.Inspector { return p.inspect }
