//go:build linux

package procinspect

import (
	"fmt"
	"io"
	"strings"

	"github.com/7c/procmon/internal/model"
)

// FormatFull writes a complete formatted inspection to w.
func FormatFull(w io.Writer, info *ProcessInfo) {
	line := strings.Repeat("=", 70)
	fmt.Fprintf(w, "%s\n", line)
	fmt.Fprintf(w, "  Details for PID %d\n", info.PID)
	fmt.Fprintf(w, "%s\n\n", line)

	formatIdentity(w, &info.Identity)
	formatResources(w, &info.Resources)
	formatTree(w, info.Tree)
	formatCgroup(w, &info.Cgroup)
}

func sectionHeader(w io.Writer, title string) {
	padding := 64 - len(title)
	if padding < 0 {
		padding = 0
	}
	fmt.Fprintf(w, "  +- %s %s+\n", title, strings.Repeat("-", padding))
}

func sectionRow(w io.Writer, key, val string) {
	fmt.Fprintf(w, "  | %-17s %s\n", key, val)
}

func sectionFooter(w io.Writer) {
	fmt.Fprintf(w, "  +%s+\n\n", strings.Repeat("-", 68))
}

func formatIdentity(w io.Writer, id *Identity) {
	sectionHeader(w, "Identity")
	sectionRow(w, "Name", id.Name)
	sectionRow(w, "State", fmt.Sprintf("%s (%s)", id.State, id.StateHuman))
	sectionRow(w, "Parent PID", fmt.Sprintf("%d", id.PPid))
	if len(id.Cmdline) > 0 {
		sectionRow(w, "Command", model.Truncate(strings.Join(id.Cmdline, " "), 50))
	}
	exe := id.Exe
	if exe != "" && !id.ExeExists {
		exe += " (binary replaced on disk)"
	}
	sectionRow(w, "Exe", exe)
	sectionRow(w, "CWD", id.CWD)
	sectionRow(w, "Root", id.Root)
	if !id.StartedAt.IsZero() {
		sectionRow(w, "Started", fmt.Sprintf("%s (%s ago)", id.StartedAt.Format("2006-01-02 15:04:05 MST"), id.StartedAgo))
	}
	sectionRow(w, "User", fmt.Sprintf("%s (uid=%d)", id.User, id.UID))
	sectionRow(w, "Group", fmt.Sprintf("%s (gid=%d)", id.Group, id.GID))
	sectionRow(w, "Session ID", fmt.Sprintf("%d", id.Session))
	sectionRow(w, "TTY", id.TTY)
	sectionRow(w, "Nice", fmt.Sprintf("%d", id.Nice))
	sectionRow(w, "Threads", fmt.Sprintf("%d", id.Threads))
	sectionFooter(w)
}

func formatResources(w io.Writer, r *Resources) {
	sectionHeader(w, "Resources")
	sectionRow(w, "CPU User", fmt.Sprintf("%.2fs", r.CPUUserSec))
	sectionRow(w, "CPU System", fmt.Sprintf("%.2fs", r.CPUSystemSec))
	sectionRow(w, "CPU Ticks", fmt.Sprintf("%d", r.CPUTicks))
	sectionRow(w, "VmPeak", model.FormatBytes(r.VmPeak))
	sectionRow(w, "VmRSS", model.FormatBytes(r.VmRSS))
	sectionRow(w, "VmSwap", model.FormatBytes(r.VmSwap))
	sectionRow(w, "VmSize", fmt.Sprintf("%s (virtual)", model.FormatBytes(r.VmSize)))
	sectionRow(w, "FDs Open", fmt.Sprintf("%d / %d (soft)", r.FDsOpen, r.FDsSoftLimit))
	sectionRow(w, "Env Vars", fmt.Sprintf("%d", r.EnvVars))
	sectionRow(w, "Voluntary CSW", fmt.Sprintf("%d", r.VoluntaryCSW))
	sectionRow(w, "Involuntary CSW", fmt.Sprintf("%d", r.InvoluntaryCSW))
	sectionFooter(w)
}

func formatTree(w io.Writer, tree []TreeNode) {
	sectionHeader(w, "Process Tree (child -> ancestor)")
	for i, node := range tree {
		indent := strings.Repeat("  ", i)
		prefix := "+-"
		if i == 0 {
			prefix = ""
		}
		sectionRow(w, "", fmt.Sprintf("%s%s PID %-6d %s", indent, prefix, node.PID, model.Truncate(node.Cmdline, 40)))
	}
	sectionFooter(w)
}

func formatCgroup(w io.Writer, c *CgroupInfo) {
	sectionHeader(w, "Cgroup")
	if len(c.Paths) == 0 {
		sectionRow(w, "Cgroup", "-")
	}
	for i, p := range c.Paths {
		key := ""
		if i == 0 {
			key = "Cgroup"
		}
		sectionRow(w, key, model.Truncate(p, 50))
	}
	sectionRow(w, "OOM Score", fmt.Sprintf("%d", c.OOMScore))
	sectionRow(w, "OOM Adj", fmt.Sprintf("%d", c.OOMAdj))
	sectionFooter(w)
}

// FormatRaw dumps key /proc files for the given PID.
func (in *Inspector) FormatRaw(w io.Writer, pid int) {
	files := []string{"status", "stat", "cmdline", "limits", "cgroup", "oom_score", "oom_score_adj"}
	for _, f := range files {
		fmt.Fprintf(w, "=== %s/%d/%s ===\n", in.root, pid, f)
		content := in.readProcFile(pid, f)
		if f == "cmdline" {
			content = strings.ReplaceAll(strings.TrimRight(content, "\x00"), "\x00", " ")
		}
		if content == "" {
			fmt.Fprintln(w, "(empty or unreadable)")
		} else {
			fmt.Fprintf(w, "%s\n", strings.TrimRight(content, "\n"))
		}
		fmt.Fprintln(w)
	}
}
