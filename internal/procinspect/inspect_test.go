//go:build linux

package procinspect

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestStateToHuman(t *testing.T) {
	tests := map[string]string{
		"R": "running",
		"S": "sleeping",
		"Z": "zombie",
		"T": "stopped",
		"?": "?",
	}
	for in, want := range tests {
		if got := stateToHuman(in); got != want {
			t.Errorf("stateToHuman(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "0s"},
		{42 * time.Second, "42s"},
		{90 * time.Minute, "1h 30m"},
		{49 * time.Hour, "2d 1h"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatFull(t *testing.T) {
	info := &ProcessInfo{
		PID: 42,
		Identity: Identity{
			Name: "bash", State: "S", StateHuman: "sleeping", PPid: 1,
			Cmdline: []string{"/bin/bash", "-l"}, Exe: "/bin/bash", User: "alice", UID: 1000,
		},
		Resources: Resources{VmRSS: 2 << 20, CPUTicks: 90},
		Tree: []TreeNode{
			{PID: 42, PPid: 1, Comm: "bash", Cmdline: "/bin/bash -l"},
			{PID: 1, Comm: "init", Cmdline: "/sbin/init"},
		},
		Cgroup: CgroupInfo{Paths: []string{"/user.slice"}, OOMScore: 3},
	}
	var buf bytes.Buffer
	FormatFull(&buf, info)
	out := buf.String()

	for _, want := range []string{
		"Details for PID 42",
		"Identity", "sleeping", "alice (uid=1000)",
		"(binary replaced on disk)",
		"CPU Ticks",
		"PID 1", "/user.slice",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("FormatFull output missing %q", want)
		}
	}
}

func TestInspectorFormatRaw(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "42")
	os.MkdirAll(dir, 0o755)
	os.WriteFile(filepath.Join(dir, "cmdline"), []byte("sleep\x00100\x00"), 0o644)
	os.WriteFile(filepath.Join(dir, "oom_score"), []byte("7\n"), 0o644)

	in, err := New(root)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	in.FormatRaw(&buf, 42)
	out := buf.String()

	if !strings.Contains(out, "sleep 100") {
		t.Errorf("cmdline not decoded: %q", out)
	}
	if !strings.Contains(out, "(empty or unreadable)") {
		t.Error("missing files should be reported as unreadable")
	}
	if got := in.readIntFile(42, "oom_score"); got != 7 {
		t.Errorf("readIntFile = %d, want 7", got)
	}
}
