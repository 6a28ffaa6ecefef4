//go:build linux

package procinspect

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"
)

const (
	clockTicksPerSec = 100 // USER_HZ on virtually all Linux systems
	maxTreeDepth     = 64
)

// Inspector reads process details from a proc filesystem.
type Inspector struct {
	fs   procfs.FS
	root string
}

// New opens the proc filesystem mounted at root.
func New(root string) (*Inspector, error) {
	fs, err := procfs.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", root, err)
	}
	return &Inspector{fs: fs, root: root}, nil
}

// Inspect reads /proc/<pid> and returns complete process info.
func (in *Inspector) Inspect(pid int) (*ProcessInfo, error) {
	proc, err := in.fs.Proc(pid)
	if err != nil {
		return nil, fmt.Errorf("PID %d - no such process", pid)
	}

	info := &ProcessInfo{PID: pid}
	info.Identity = in.inspectIdentity(proc)
	info.Resources = inspectResources(proc)
	info.Tree = in.buildProcessTree(pid)
	info.Cgroup = in.inspectCgroup(proc)
	return info, nil
}

func (in *Inspector) inspectIdentity(proc procfs.Proc) Identity {
	id := Identity{}

	if status, err := proc.NewStatus(); err == nil {
		id.Name = status.Name
		id.UID = int(status.UIDs[0])
		id.GID = int(status.GIDs[0])
		if u, err := user.LookupId(strconv.Itoa(id.UID)); err == nil {
			id.User = u.Username
		}
		if g, err := user.LookupGroupId(strconv.Itoa(id.GID)); err == nil {
			id.Group = g.Name
		}
	}

	if args, err := proc.CmdLine(); err == nil {
		id.Cmdline = args
	}
	if exe, err := proc.Executable(); err == nil {
		id.Exe = exe
		id.ExeExists = !strings.HasSuffix(exe, " (deleted)")
	}
	id.CWD, _ = proc.Cwd()
	id.Root, _ = proc.RootDir()

	if stat, err := proc.Stat(); err == nil {
		if id.Name == "" {
			id.Name = stat.Comm
		}
		id.State = stat.State
		id.StateHuman = stateToHuman(stat.State)
		id.PPid = stat.PPID
		id.Session = stat.Session
		if stat.TTY == 0 {
			id.TTY = "(none)"
		} else {
			id.TTY = strconv.Itoa(stat.TTY)
		}
		id.Nice = stat.Nice
		id.Threads = stat.NumThreads
		if start, err := stat.StartTime(); err == nil && start > 0 {
			id.StartedAt = time.Unix(int64(start), 0)
			id.StartedAgo = formatDuration(time.Since(id.StartedAt))
		}
	}
	return id
}

func inspectResources(proc procfs.Proc) Resources {
	r := Resources{}

	if status, err := proc.NewStatus(); err == nil {
		r.VmPeak = status.VmPeak
		r.VmRSS = status.VmRSS
		r.VmSwap = status.VmSwap
		r.VmSize = status.VmSize
		r.VoluntaryCSW = status.VoluntaryCtxtSwitches
		r.InvoluntaryCSW = status.NonVoluntaryCtxtSwitches
	}

	if stat, err := proc.Stat(); err == nil {
		r.CPUTicks = uint64(stat.UTime) + uint64(stat.STime)
		r.CPUUserSec = float64(stat.UTime) / clockTicksPerSec
		r.CPUSystemSec = float64(stat.STime) / clockTicksPerSec
	}

	if n, err := proc.FileDescriptorsLen(); err == nil {
		r.FDsOpen = n
	}
	if limits, err := proc.Limits(); err == nil {
		r.FDsSoftLimit = limits.OpenFiles
	}
	if env, err := proc.Environ(); err == nil {
		r.EnvVars = len(env)
	}
	return r
}

// buildProcessTree walks the parent chain from pid up to init.
func (in *Inspector) buildProcessTree(pid int) []TreeNode {
	var chain []TreeNode
	current := pid
	for current > 0 && len(chain) < maxTreeDepth {
		proc, err := in.fs.Proc(current)
		if err != nil {
			break
		}
		stat, err := proc.Stat()
		if err != nil {
			break
		}
		node := TreeNode{PID: current, PPid: stat.PPID, Comm: stat.Comm}
		if args, err := proc.CmdLine(); err == nil && len(args) > 0 {
			node.Cmdline = strings.Join(args, " ")
		} else {
			node.Cmdline = "[" + stat.Comm + "]"
		}
		chain = append(chain, node)
		if current == 1 {
			break
		}
		current = stat.PPID
	}
	return chain
}

func (in *Inspector) inspectCgroup(proc procfs.Proc) CgroupInfo {
	c := CgroupInfo{}
	if groups, err := proc.Cgroups(); err == nil {
		for _, g := range groups {
			c.Paths = append(c.Paths, g.Path)
		}
	}
	c.OOMScore = in.readIntFile(proc.PID, "oom_score")
	c.OOMAdj = in.readIntFile(proc.PID, "oom_score_adj")
	return c
}

// --- Helpers ---

func (in *Inspector) readProcFile(pid int, name string) string {
	data, err := os.ReadFile(filepath.Join(in.root, strconv.Itoa(pid), name))
	if err != nil {
		return ""
	}
	return string(data)
}

func (in *Inspector) readIntFile(pid int, name string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(in.readProcFile(pid, name)))
	return v
}

func stateToHuman(s string) string {
	switch s {
	case "R":
		return "running"
	case "S":
		return "sleeping"
	case "D":
		return "disk sleep"
	case "Z":
		return "zombie"
	case "T":
		return "stopped"
	case "t":
		return "tracing stop"
	case "I":
		return "idle"
	case "X", "x":
		return "dead"
	default:
		return s
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "0s"
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		seconds := int(d.Seconds()) % 60
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	return strings.Join(parts, " ")
}
