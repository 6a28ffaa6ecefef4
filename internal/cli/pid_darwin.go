//go:build darwin

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/control"
)

var pidCmd = &cobra.Command{
	Use:   "pid <pid>",
	Short: "Show details for one process",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		pid, err := control.ParsePID(args[0])
		if err != nil {
			outputError(fmt.Sprintf("invalid PID: %s", args[0]))
		}
		host, err := collector.Open()
		if err != nil {
			outputError(err.Error())
		}
		lines, err := host.RawMetadata(pid)
		if err != nil {
			outputError(err.Error())
		}
		if machineOutput() {
			out := map[string]any{"pid": pid, "details": lines}
			if err := outputData(os.Stdout, out); err != nil {
				outputError(err.Error())
			}
			return
		}
		for _, l := range lines {
			fmt.Println(l)
		}
	},
}
