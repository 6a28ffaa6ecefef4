package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/7c/procmon/internal/display"
	"github.com/7c/procmon/internal/model"
)

var configValidate bool

// configOutput is the machine-readable resolved configuration.
type configOutput struct {
	ConfigFile string `json:"config_file" yaml:"config_file"`
	Source     string `json:"source" yaml:"source"`
	Refresh    string `json:"refresh" yaml:"refresh"`
	Sort       string `json:"sort" yaml:"sort"`
	KillSignal string `json:"kill_signal" yaml:"kill_signal"`
	Logs       struct {
		Enabled  bool   `json:"enabled" yaml:"enabled"`
		File     string `json:"file,omitempty" yaml:"file,omitempty"`
		MaxSize  int64  `json:"max_size,omitempty" yaml:"max_size,omitempty"`
		MaxFiles int    `json:"max_files,omitempty" yaml:"max_files,omitempty"`
		Level    string `json:"level,omitempty" yaml:"level,omitempty"`
	} `json:"logs" yaml:"logs"`
}

var configShowCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s, err := resolveSession(cmd)
		if err != nil {
			outputError(err.Error())
		}
		r := s.resolved

		if configValidate {
			s.printWarnings()
			fmt.Println("Configuration valid")
			return
		}

		out := configOutput{
			ConfigFile: s.load.Path,
			Source:     s.load.Source,
			Refresh:    r.Refresh.String(),
			Sort:       r.Sort.String(),
			KillSignal: unix.SignalName(r.KillSignal),
		}
		out.Logs.Enabled = r.LogsEnabled
		if r.LogsEnabled {
			out.Logs.File = r.LogFile
			out.Logs.MaxSize = r.LogMaxSize
			out.Logs.MaxFiles = r.LogMaxFiles
			out.Logs.Level = r.LogLevel.String()
		}

		if machineOutput() {
			if err := outputData(os.Stdout, out); err != nil {
				outputError(err.Error())
			}
			return
		}

		configLine := "(none found, using defaults)"
		if s.load.Path != "" {
			configLine = fmt.Sprintf("%s (%s)", s.load.Path, s.load.Source)
		}
		logs := "disabled"
		if r.LogsEnabled {
			logs = fmt.Sprintf("%s (max %s x %d, level %s)",
				r.LogFile, model.FormatBytes(uint64(r.LogMaxSize)), r.LogMaxFiles, out.Logs.Level)
		}
		display.RenderKV(os.Stdout, [][2]string{
			{"Config file", configLine},
			{"Home", model.ProcmonHome()},
			{"Refresh", out.Refresh},
			{"Sort", out.Sort},
			{"Kill signal", out.KillSignal},
			{"Logs", logs},
		})
		s.printWarnings()
	},
}

func init() {
	configShowCmd.Flags().BoolVar(&configValidate, "validate", false, "validate config only")
}
