//go:build darwin

package collector

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/process"
)

// Gopsutil reads counters through gopsutil, for hosts without procfs.
type Gopsutil struct{}

// Open returns the host reader for this platform.
func Open() (Host, error) {
	return Gopsutil{}, nil
}

func (Gopsutil) SystemCPUTicks() (uint64, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return 0, fmt.Errorf("read system cpu: %w", err)
	}
	if len(times) == 0 {
		return 0, fmt.Errorf("read system cpu: no data")
	}
	c := times[0]
	return secondsToTicks(c.User) + secondsToTicks(c.Nice) + secondsToTicks(c.System) +
		secondsToTicks(c.Idle) + secondsToTicks(c.Iowait) + secondsToTicks(c.Irq) +
		secondsToTicks(c.Softirq) + secondsToTicks(c.Steal), nil
}

func (Gopsutil) ListPIDs() ([]int, error) {
	pids, err := process.Pids()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]int, 0, len(pids))
	for _, pid := range pids {
		if pid > 0 {
			out = append(out, int(pid))
		}
	}
	return out, nil
}

func (Gopsutil) ReadProcess(pid int) (RawProcess, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return RawProcess{}, vanished(pid)
	}
	name, err := p.Name()
	if err != nil || name == "" {
		return RawProcess{}, vanished(pid)
	}

	rp := RawProcess{PID: pid, Name: name}
	if uids, err := p.Uids(); err == nil && len(uids) > 0 {
		rp.UID = uids[0]
		rp.HasUID = true
	}
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		rp.ResidentKB = mem.RSS / 1024
	}
	if t, err := p.Times(); err == nil && t != nil {
		rp.CPUTicks = secondsToTicks(t.User) + secondsToTicks(t.System)
	}
	return rp, nil
}

func (Gopsutil) RawMetadata(pid int) ([]string, error) {
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return nil, fmt.Errorf("PID %d - no such process", pid)
	}

	var lines []string
	add := func(key, val string) {
		lines = append(lines, fmt.Sprintf("%-16s %s", key+":", val))
	}
	if name, err := p.Name(); err == nil {
		add("Name", name)
	}
	if status, err := p.Status(); err == nil {
		add("State", strings.Join(status, ","))
	}
	if ppid, err := p.Ppid(); err == nil {
		add("PPid", fmt.Sprintf("%d", ppid))
	}
	if user, err := p.Username(); err == nil {
		add("User", user)
	}
	if exe, err := p.Exe(); err == nil {
		add("Exe", exe)
	}
	if cmd, err := p.Cmdline(); err == nil {
		add("Command", cmd)
	}
	if n, err := p.NumThreads(); err == nil {
		add("Threads", fmt.Sprintf("%d", n))
	}
	if mem, err := p.MemoryInfo(); err == nil && mem != nil {
		add("VmRSS", fmt.Sprintf("%d kB", mem.RSS/1024))
		add("VmSize", fmt.Sprintf("%d kB", mem.VMS/1024))
	}
	if t, err := p.Times(); err == nil && t != nil {
		add("CPU User", fmt.Sprintf("%.2fs", t.User))
		add("CPU System", fmt.Sprintf("%.2fs", t.System))
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("PID %d - no readable metadata", pid)
	}
	return lines, nil
}
