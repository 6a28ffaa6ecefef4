// Package config loads and resolves procmon.config.json.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the configuration file procmon looks for.
const FileName = "procmon.config.json"

// Config is the raw parsed procmon.config.json.
// Logs uses json.RawMessage for three-state handling:
// nil (absent) = defaults, "null" = disabled, "{...}" = configured.
type Config struct {
	Refresh    string          `json:"refresh"`
	Sort       string          `json:"sort"`
	KillSignal string          `json:"kill_signal"`
	Logs       json.RawMessage `json:"logs"`
}

type LogsConfig struct {
	File     string `json:"file"`
	MaxSize  string `json:"max_size"`
	MaxFiles int    `json:"max_files"`
	Level    string `json:"level"`
}

type LoadResult struct {
	Config *Config
	Path   string // file path used, empty if none
	Source string // "found", "--config flag", ""
}

// Load searches for the config file and parses it.
// Search order: configFlag (if set), then home/procmon.config.json, then
// /etc/procmon.config.json. A missing --config file is an error; finding no
// file at all yields an empty LoadResult (all defaults).
func Load(home string, configFlag string) (*LoadResult, error) {
	if configFlag != "" {
		cfg, err := readFile(configFlag)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", configFlag)
		}
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Path: configFlag, Source: "--config flag"}, nil
	}

	for _, path := range searchPaths(home) {
		cfg, err := readFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Path: path, Source: "found"}, nil
	}
	return &LoadResult{}, nil
}

func searchPaths(home string) []string {
	return []string{
		filepath.Join(home, FileName),
		filepath.Join("/etc", FileName),
	}
}

func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("config file not readable: %s - %w", path, err)
	}
	var cfg Config
	if err := unmarshalStrict(data, &cfg, path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func unmarshalStrict(data []byte, cfg *Config, path string) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		var synErr *json.SyntaxError
		if errors.As(err, &synErr) {
			line, col := lineCol(data, synErr.Offset)
			return fmt.Errorf("%s: invalid JSON at line %d, column %d: %s", path, line, col, synErr)
		}
		return fmt.Errorf("%s: invalid JSON - %w", path, err)
	}
	return nil
}

func lineCol(data []byte, offset int64) (int, int) {
	line, col := 1, 1
	for i := int64(0); i < offset && i < int64(len(data)); i++ {
		if data[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// isJSONNull checks if raw JSON is the literal "null".
func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 4 && string(raw) == "null"
}
