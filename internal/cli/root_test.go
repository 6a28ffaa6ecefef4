package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/7c/procmon/internal/gui"
	"github.com/7c/procmon/internal/model"
)

func TestRootCmd_Commands(t *testing.T) {
	want := []string{"top", "list", "pid", "kill", "suspend", "resume", "config"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == rootCmd {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	pf := rootCmd.PersistentFlags()
	tests := []struct {
		name string
		def  string
	}{
		{"json", "false"},
		{"yaml", "false"},
		{"config", ""},
		{"refresh", "1s"},
		{"sort", "pid"},
	}
	for _, tt := range tests {
		f := pf.Lookup(tt.name)
		if f == nil {
			t.Errorf("expected --%s flag", tt.name)
			continue
		}
		if f.DefValue != tt.def {
			t.Errorf("--%s default = %q, want %q", tt.name, f.DefValue, tt.def)
		}
	}
}

func TestListCmd_Flags(t *testing.T) {
	f := listCmd.Flags().Lookup("limit")
	if f == nil {
		t.Fatal("expected --limit flag")
	}
	if f.DefValue != "0" || f.Shorthand != "n" {
		t.Errorf("--limit default %q shorthand %q", f.DefValue, f.Shorthand)
	}
	if err := listCmd.Args(listCmd, []string{"x"}); err == nil {
		t.Error("list takes no arguments")
	}
}

func TestSignalCmds(t *testing.T) {
	tests := []struct {
		cmd *cobra.Command
		use string
	}{
		{killCmd, "kill <pid>"},
		{suspendCmd, "suspend <pid>"},
		{resumeCmd, "resume <pid>"},
	}
	for _, tt := range tests {
		if tt.cmd.Use != tt.use {
			t.Errorf("Use = %q, want %q", tt.cmd.Use, tt.use)
		}
		if err := tt.cmd.Args(tt.cmd, []string{}); err == nil {
			t.Errorf("%s: 0 args should be invalid", tt.use)
		}
		if err := tt.cmd.Args(tt.cmd, []string{"42"}); err != nil {
			t.Errorf("%s: 1 arg should be valid: %v", tt.use, err)
		}
	}
}

func TestPidCmd_Args(t *testing.T) {
	if err := pidCmd.Args(pidCmd, []string{"1"}); err != nil {
		t.Errorf("1 arg should be valid: %v", err)
	}
	if err := pidCmd.Args(pidCmd, []string{"1", "2"}); err == nil {
		t.Error("2 args should be invalid")
	}
}

func TestConfigCmd_Flags(t *testing.T) {
	f := configShowCmd.Flags().Lookup("validate")
	if f == nil || f.DefValue != "false" {
		t.Fatal("expected --validate flag defaulting to false")
	}
}

// testCmd binds the layering flags to a throwaway command so tests can
// control which ones count as changed.
func testCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	oldRefresh, oldSort, oldConfig := refreshFlag, sortFlag, configFlag
	t.Cleanup(func() { refreshFlag, sortFlag, configFlag = oldRefresh, oldSort, oldConfig })

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().DurationVar(&refreshFlag, "refresh", time.Second, "")
	cmd.Flags().StringVar(&sortFlag, "sort", "pid", "")
	cmd.Flags().StringVar(&configFlag, "config", "", "")
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestResolveSessionLayering(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PROCMON_HOME", home)
	t.Setenv("PROCMON_REFRESH", "")
	t.Setenv("PROCMON_SORT", "")
	os.WriteFile(filepath.Join(home, "procmon.config.json"), []byte(`{"refresh":"3s","sort":"mem"}`), 0o644)

	s, err := resolveSession(testCmd(t))
	if err != nil {
		t.Fatal(err)
	}
	if s.resolved.Refresh != 3*time.Second || s.resolved.Sort != model.ByMemory {
		t.Errorf("file layer: %+v", s.resolved)
	}
	if s.load.Source != "found" {
		t.Errorf("Source = %q", s.load.Source)
	}

	t.Setenv("PROCMON_SORT", "cpu")
	s, err = resolveSession(testCmd(t))
	if err != nil {
		t.Fatal(err)
	}
	if s.resolved.Sort != model.ByCPU {
		t.Errorf("env layer: sort = %s, want cpu", s.resolved.Sort)
	}

	s, err = resolveSession(testCmd(t, "--sort", "pid", "--refresh", "100ms"))
	if err != nil {
		t.Fatal(err)
	}
	if s.resolved.Sort != model.ByPID {
		t.Errorf("flag layer: sort = %s, want pid", s.resolved.Sort)
	}
	if s.resolved.Refresh != 200*time.Millisecond || len(s.warnings) == 0 {
		t.Errorf("refresh %s warnings %v, want clamp to 200ms with warning", s.resolved.Refresh, s.warnings)
	}
}

func TestResolveSessionErrors(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PROCMON_HOME", home)
	t.Setenv("PROCMON_REFRESH", "")
	t.Setenv("PROCMON_SORT", "")

	if _, err := resolveSession(testCmd(t, "--sort", "size")); err == nil || !strings.Contains(err.Error(), "--sort") {
		t.Errorf("bad --sort: err = %v", err)
	}

	os.WriteFile(filepath.Join(home, "procmon.config.json"), []byte(`{"kill_signal":"USR1"}`), 0o644)
	_, err := resolveSession(testCmd(t))
	if err == nil || !strings.Contains(err.Error(), "procmon.config.json") {
		t.Errorf("config error should name the file: %v", err)
	}
}

func TestLogsDisabledOpensDiscardLogger(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PROCMON_HOME", home)
	t.Setenv("PROCMON_REFRESH", "")
	t.Setenv("PROCMON_SORT", "")
	os.WriteFile(filepath.Join(home, "procmon.config.json"), []byte(`{"logs":null}`), 0o644)

	s, err := resolveSession(testCmd(t))
	if err != nil {
		t.Fatal(err)
	}
	logger, closer, err := s.openLogger()
	if err != nil {
		t.Fatal(err)
	}
	logger.Info("nothing")
	closer.Close()
	if _, err := os.Stat(filepath.Join(home, "procmon.log")); !os.IsNotExist(err) {
		t.Error("log file created although logs are disabled")
	}
}

func TestOutputDataYAML(t *testing.T) {
	old := yamlOutput
	yamlOutput = true
	defer func() { yamlOutput = old }()

	var b strings.Builder
	v := model.ProcessView{ProcessSample: model.ProcessSample{PID: 42, Name: "bash"}, CPUPercent: 20}
	if err := outputData(&b, v); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	if !strings.Contains(out, "pid: 42") || !strings.Contains(out, "cpu_percent: 20") {
		t.Errorf("yaml = %q", out)
	}
}

func TestOutputDataJSON(t *testing.T) {
	var b strings.Builder
	if err := outputData(&b, signalResult{PID: 7, Action: "kill", OK: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(b.String(), `"pid": 7`) {
		t.Errorf("json = %q", b.String())
	}
}

func TestMonitorError(t *testing.T) {
	if got := monitorError(gui.ErrNotTerminal); got != gui.ErrNotTerminal.Error() {
		t.Errorf("monitorError(ErrNotTerminal) = %q", got)
	}
	wrapped := fmt.Errorf("initial sample: %w", errors.New("no /proc"))
	if got := monitorError(wrapped); got != "cannot start monitor: initial sample: no /proc" {
		t.Errorf("monitorError(wrapped) = %q", got)
	}
}
