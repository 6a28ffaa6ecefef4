//go:build linux

package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/procfs"
	"github.com/spf13/cobra"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/control"
	"github.com/7c/procmon/internal/procinspect"
)

var pidRaw bool

var pidCmd = &cobra.Command{
	Use:   "pid <pid>",
	Short: "Show details for one process",
	Long:  "Reads /proc directly and prints identity, resources, ancestry and cgroup\ninformation for a single process.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pid, err := control.ParsePID(args[0])
		if err != nil {
			outputError(fmt.Sprintf("invalid PID: %s", args[0]))
		}

		src, err := collector.NewProcFS(procfs.DefaultMountPoint)
		if err != nil {
			outputError(err.Error())
		}
		in := src.Inspector()
		if pidRaw {
			in.FormatRaw(os.Stdout, pid)
			return
		}

		info, err := in.Inspect(pid)
		if err != nil {
			outputError(err.Error())
		}
		if machineOutput() {
			if err := outputData(os.Stdout, info); err != nil {
				outputError(err.Error())
			}
			return
		}
		procinspect.FormatFull(os.Stdout, info)
	},
}

func init() {
	pidCmd.Flags().BoolVar(&pidRaw, "raw", false, "dump raw /proc files")
}
