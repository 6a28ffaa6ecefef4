package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/7c/procmon/internal/model"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromHome(t *testing.T) {
	home := t.TempDir()
	path := writeConfig(t, home, `{"refresh": "2s", "sort": "cpu"}`)

	res, err := Load(home, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != path || res.Source != "found" {
		t.Errorf("Path = %q Source = %q", res.Path, res.Source)
	}
	if res.Config.Refresh != "2s" || res.Config.Sort != "cpu" {
		t.Errorf("Config = %+v", res.Config)
	}
}

func TestLoadConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `{"sort": "mem"}`)

	res, err := Load(t.TempDir(), path)
	if err != nil {
		t.Fatal(err)
	}
	if res.Source != "--config flag" || res.Config.Sort != "mem" {
		t.Errorf("res = %+v", res)
	}

	if _, err := Load(dir, filepath.Join(dir, "missing.json")); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("missing --config file: err = %v", err)
	}
}

func TestLoadSyntaxErrorLineColumn(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "{\n  \"refresh\": \"1s\",\n  \"sort\" \"cpu\"\n}")

	_, err := Load(home, "")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error should name line 3: %v", err)
	}
}

func TestResolveDefaults(t *testing.T) {
	home := t.TempDir()
	r, warnings, err := Resolve(nil, home)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if r.Refresh != DefaultRefresh || r.Sort != model.ByPID || r.KillSignal != unix.SIGKILL {
		t.Errorf("r = %+v", r)
	}
	if !r.LogsEnabled || r.LogFile != filepath.Join(home, "procmon.log") || r.LogMaxSize != 1048576 || r.LogMaxFiles != 3 {
		t.Errorf("log defaults = %+v", r)
	}
}

func TestResolveValues(t *testing.T) {
	cfg := &Config{
		Refresh:    "500ms",
		Sort:       "memory",
		KillSignal: "term",
		Logs:       []byte(`{"file": "/tmp/p.log", "max_size": "5M", "max_files": 7, "level": "debug"}`),
	}
	r, _, err := Resolve(cfg, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if r.Refresh != 500*time.Millisecond || r.Sort != model.ByMemory || r.KillSignal != unix.SIGTERM {
		t.Errorf("r = %+v", r)
	}
	if r.LogFile != "/tmp/p.log" || r.LogMaxSize != 5*1048576 || r.LogMaxFiles != 7 || r.LogLevel != slog.LevelDebug {
		t.Errorf("logs = %+v", r)
	}
}

func TestResolveLogsNullDisables(t *testing.T) {
	r, _, err := Resolve(&Config{Logs: []byte("null")}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if r.LogsEnabled {
		t.Error("logs: null should disable logging")
	}
}

func TestResolveRefreshMinimum(t *testing.T) {
	r, warnings, err := Resolve(&Config{Refresh: "50ms"}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if r.Refresh != MinRefresh {
		t.Errorf("Refresh = %s, want %s", r.Refresh, MinRefresh)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v, want one", warnings)
	}
}

func TestResolveErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{"bad refresh", &Config{Refresh: "soon"}, "refresh"},
		{"bad sort", &Config{Sort: "name"}, "sort"},
		{"bad signal", &Config{KillSignal: "SIGUSR1"}, "kill_signal"},
		{"bad max_size", &Config{Logs: []byte(`{"max_size": "lots"}`)}, "logs.max_size"},
		{"negative max_files", &Config{Logs: []byte(`{"max_files": -1}`)}, "logs.max_files"},
		{"bad level", &Config{Logs: []byte(`{"level": "loud"}`)}, "logs.level"},
		{"empty file", &Config{Logs: []byte(`{"file": ""}`)}, "logs.file"},
		{"logs wrong type", &Config{Logs: []byte(`[1,2]`)}, "logs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Resolve(tt.cfg, t.TempDir())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	r, _, _ := Resolve(nil, t.TempDir())
	env := map[string]string{"PROCMON_REFRESH": "3s", "PROCMON_SORT": "cpu"}
	if _, err := r.ApplyEnv(func(k string) string { return env[k] }); err != nil {
		t.Fatal(err)
	}
	if r.Refresh != 3*time.Second || r.Sort != model.ByCPU {
		t.Errorf("r = %+v", r)
	}

	env["PROCMON_SORT"] = "size"
	if _, err := r.ApplyEnv(func(k string) string { return env[k] }); err == nil {
		t.Error("expected PROCMON_SORT error")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":      slog.LevelInfo,
		"DEBUG": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
}
