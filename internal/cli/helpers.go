package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/7c/procmon/internal/config"
	"github.com/7c/procmon/internal/display"
	"github.com/7c/procmon/internal/logwriter"
	"github.com/7c/procmon/internal/model"
)

// outputError prints an error and exits. In JSON mode the error is written
// to stdout as {"error": "..."}; otherwise to stderr.
func outputError(msg string) {
	if jsonOutput {
		fmt.Printf("{\"error\":%q}\n", msg)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", display.Red("Error:"), msg)
	}
	os.Exit(1)
}

// outputData writes v as indented JSON or YAML, whichever was requested.
func outputData(w io.Writer, v any) error {
	if yamlOutput {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func machineOutput() bool { return jsonOutput || yamlOutput }

// session is everything a command needs after configuration is resolved.
type session struct {
	load     *config.LoadResult
	resolved *config.Resolved
	warnings []string
}

// resolveSession layers configuration: file, then environment, then flags.
func resolveSession(cmd *cobra.Command) (*session, error) {
	home := model.ProcmonHome()
	load, err := config.Load(home, configFlag)
	if err != nil {
		return nil, err
	}
	r, warnings, err := config.Resolve(load.Config, home)
	if err != nil {
		if load.Path != "" {
			return nil, fmt.Errorf("%s: %w", load.Path, err)
		}
		return nil, err
	}
	envWarnings, err := r.ApplyEnv(os.Getenv)
	if err != nil {
		return nil, err
	}
	warnings = append(warnings, envWarnings...)

	if cmd.Flags().Changed("refresh") {
		w, err := r.SetRefresh(refreshFlag.String())
		if err != nil {
			return nil, fmt.Errorf("--refresh: %w", err)
		}
		warnings = append(warnings, w...)
	}
	if cmd.Flags().Changed("sort") {
		mode, err := model.ParseSortMode(sortFlag)
		if err != nil {
			return nil, fmt.Errorf("--sort: %w", err)
		}
		r.Sort = mode
	}
	return &session{load: load, resolved: r, warnings: warnings}, nil
}

func (s *session) printWarnings() {
	for _, w := range s.warnings {
		fmt.Fprintf(os.Stderr, "WARNING: %s\n", w)
	}
}

// openLogger opens the procmon log file described by the resolved config.
func (s *session) openLogger() (*slog.Logger, io.Closer, error) {
	r := s.resolved
	return logwriter.NewLogger(logwriter.Options{
		Enabled:  r.LogsEnabled,
		File:     r.LogFile,
		MaxSize:  r.LogMaxSize,
		MaxFiles: r.LogMaxFiles,
		Level:    r.LogLevel,
	})
}

// mustSession resolves configuration and opens the log, exiting on failure.
func mustSession(cmd *cobra.Command) (*session, *slog.Logger, io.Closer) {
	s, err := resolveSession(cmd)
	if err != nil {
		outputError(err.Error())
	}
	logger, closer, err := s.openLogger()
	if err != nil {
		outputError(fmt.Sprintf("cannot open log file %s: %s", s.resolved.LogFile, err))
	}
	return s, logger, closer
}
