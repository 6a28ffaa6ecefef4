package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/model"
)

const (
	DefaultRefresh = time.Second
	MinRefresh     = 200 * time.Millisecond
)

// Resolved holds the fully resolved, validated runtime configuration.
type Resolved struct {
	Refresh    time.Duration
	Sort       model.SortMode
	KillSignal unix.Signal

	LogsEnabled bool
	LogFile     string
	LogMaxSize  int64
	LogMaxFiles int
	LogLevel    slog.Level
}

// Resolve takes a raw Config (may be nil) and returns the validated runtime
// config plus non-fatal warnings.
func Resolve(cfg *Config, home string) (*Resolved, []string, error) {
	r := &Resolved{
		Refresh:     DefaultRefresh,
		Sort:        model.ByPID,
		KillSignal:  unix.SIGKILL,
		LogsEnabled: true,
		LogFile:     filepath.Join(home, "procmon.log"),
		LogMaxSize:  1048576,
		LogMaxFiles: 3,
		LogLevel:    slog.LevelInfo,
	}
	if cfg == nil {
		return r, nil, nil
	}
	var warnings []string

	if cfg.Refresh != "" {
		w, err := r.SetRefresh(cfg.Refresh)
		if err != nil {
			return nil, nil, fmt.Errorf("refresh: %w", err)
		}
		warnings = append(warnings, w...)
	}
	if cfg.Sort != "" {
		mode, err := model.ParseSortMode(cfg.Sort)
		if err != nil {
			return nil, nil, fmt.Errorf("sort: %w", err)
		}
		r.Sort = mode
	}
	if cfg.KillSignal != "" {
		sig, err := collector.ParseKillSignal(cfg.KillSignal)
		if err != nil {
			return nil, nil, fmt.Errorf("kill_signal: %w", err)
		}
		r.KillSignal = sig
	}

	// --- Logs (absent = defaults, null = disabled) ---
	switch {
	case cfg.Logs == nil:
	case isJSONNull(cfg.Logs):
		r.LogsEnabled = false
	default:
		logs := LogsConfig{File: r.LogFile, MaxSize: "1M", MaxFiles: 3, Level: "info"}
		if err := json.Unmarshal(cfg.Logs, &logs); err != nil {
			return nil, nil, fmt.Errorf("logs: %w", err)
		}
		if strings.HasPrefix(logs.File, "~/") {
			if h, _ := os.UserHomeDir(); h != "" {
				logs.File = filepath.Join(h, logs.File[2:])
			}
		}
		maxSize, err := model.ParseSize(logs.MaxSize)
		if err != nil {
			return nil, nil, fmt.Errorf("logs.max_size %q - expected format like \"1M\", \"500K\", \"10M\"", logs.MaxSize)
		}
		if logs.MaxFiles < 0 {
			return nil, nil, fmt.Errorf("logs.max_files must be >= 0 (got: %d)", logs.MaxFiles)
		}
		level, err := ParseLevel(logs.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("logs.level: %w", err)
		}
		if logs.File == "" {
			return nil, nil, fmt.Errorf("logs.file must not be empty (use \"logs\": null to disable logging)")
		}
		r.LogFile = logs.File
		r.LogMaxSize = maxSize
		r.LogMaxFiles = logs.MaxFiles
		r.LogLevel = level
	}

	return r, warnings, nil
}

// SetRefresh parses a duration such as "500ms" or "2s". Values under
// MinRefresh are raised to it with a warning.
func (r *Resolved) SetRefresh(s string) ([]string, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%q - expected a duration like \"1s\" or \"500ms\"", s)
	}
	if d < MinRefresh {
		r.Refresh = MinRefresh
		return []string{fmt.Sprintf("refresh %s is below the %s minimum (using %s)", d, MinRefresh, MinRefresh)}, nil
	}
	r.Refresh = d
	return nil, nil
}

// ApplyEnv overrides refresh and sort from PROCMON_REFRESH and PROCMON_SORT.
func (r *Resolved) ApplyEnv(getenv func(string) string) ([]string, error) {
	var warnings []string
	if v := getenv("PROCMON_REFRESH"); v != "" {
		w, err := r.SetRefresh(v)
		if err != nil {
			return nil, fmt.Errorf("PROCMON_REFRESH: %w", err)
		}
		warnings = append(warnings, w...)
	}
	if v := getenv("PROCMON_SORT"); v != "" {
		mode, err := model.ParseSortMode(v)
		if err != nil {
			return nil, fmt.Errorf("PROCMON_SORT: %w", err)
		}
		r.Sort = mode
	}
	return warnings, nil
}

// ParseLevel maps debug, info, warn or error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("%q - expected debug, info, warn or error", s)
}
