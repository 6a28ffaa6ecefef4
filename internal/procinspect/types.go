//go:build linux

package procinspect

import "time"

// ProcessInfo holds all inspection data for a process.
type ProcessInfo struct {
	PID       int        `json:"pid" yaml:"pid"`
	Identity  Identity   `json:"identity" yaml:"identity"`
	Resources Resources  `json:"resources" yaml:"resources"`
	Tree      []TreeNode `json:"tree" yaml:"tree"`
	Cgroup    CgroupInfo `json:"cgroup" yaml:"cgroup"`
}

type Identity struct {
	Name       string    `json:"name" yaml:"name"`
	State      string    `json:"state" yaml:"state"`
	StateHuman string    `json:"state_human" yaml:"state_human"`
	PPid       int       `json:"ppid" yaml:"ppid"`
	Cmdline    []string  `json:"cmdline" yaml:"cmdline"`
	Exe        string    `json:"exe" yaml:"exe"`
	ExeExists  bool      `json:"exe_exists" yaml:"exe_exists"`
	CWD        string    `json:"cwd" yaml:"cwd"`
	Root       string    `json:"root" yaml:"root"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	StartedAgo string    `json:"started_ago" yaml:"started_ago"`
	UID        int       `json:"uid" yaml:"uid"`
	User       string    `json:"user" yaml:"user"`
	GID        int       `json:"gid" yaml:"gid"`
	Group      string    `json:"group" yaml:"group"`
	Session    int       `json:"session" yaml:"session"`
	TTY        string    `json:"tty" yaml:"tty"`
	Nice       int       `json:"nice" yaml:"nice"`
	Threads    int       `json:"threads" yaml:"threads"`
}

type Resources struct {
	CPUUserSec     float64 `json:"cpu_user_seconds" yaml:"cpu_user_seconds"`
	CPUSystemSec   float64 `json:"cpu_system_seconds" yaml:"cpu_system_seconds"`
	CPUTicks       uint64  `json:"cpu_ticks" yaml:"cpu_ticks"`
	VmPeak         uint64  `json:"vm_peak_bytes" yaml:"vm_peak_bytes"`
	VmRSS          uint64  `json:"vm_rss_bytes" yaml:"vm_rss_bytes"`
	VmSwap         uint64  `json:"vm_swap_bytes" yaml:"vm_swap_bytes"`
	VmSize         uint64  `json:"vm_size_bytes" yaml:"vm_size_bytes"`
	FDsOpen        int     `json:"fds_open" yaml:"fds_open"`
	FDsSoftLimit   uint64  `json:"fds_soft_limit" yaml:"fds_soft_limit"`
	EnvVars        int     `json:"env_vars" yaml:"env_vars"`
	VoluntaryCSW   uint64  `json:"voluntary_ctxt_switches" yaml:"voluntary_ctxt_switches"`
	InvoluntaryCSW uint64  `json:"involuntary_ctxt_switches" yaml:"involuntary_ctxt_switches"`
}

type TreeNode struct {
	PID     int    `json:"pid" yaml:"pid"`
	PPid    int    `json:"ppid" yaml:"ppid"`
	Comm    string `json:"comm" yaml:"comm"`
	Cmdline string `json:"cmdline" yaml:"cmdline"`
}

type CgroupInfo struct {
	Paths    []string `json:"paths" yaml:"paths"`
	OOMScore int      `json:"oom_score" yaml:"oom_score"`
	OOMAdj   int      `json:"oom_score_adj" yaml:"oom_score_adj"`
}
