package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/control"
	"github.com/7c/procmon/internal/display"
)

// signalResult is the machine-readable outcome of kill/suspend/resume.
type signalResult struct {
	PID    int    `json:"pid" yaml:"pid"`
	Action string `json:"action" yaml:"action"`
	OK     bool   `json:"ok" yaml:"ok"`
}

var (
	killCmd    = newSignalCmd(collector.Terminate, "Terminate a process (configured kill signal, SIGKILL by default)")
	suspendCmd = newSignalCmd(collector.Suspend, "Suspend a process (SIGSTOP)")
	resumeCmd  = newSignalCmd(collector.Resume, "Resume a suspended process (SIGCONT)")
)

func newSignalCmd(kind collector.SignalKind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind.Verb() + " <pid>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			pid, err := control.ParsePID(args[0])
			if err != nil {
				outputError(fmt.Sprintf("invalid PID: %s", args[0]))
			}
			s, logger, closer := mustSession(cmd)
			defer closer.Close()

			sig := collector.NewUnixSignaler(s.resolved.KillSignal)
			if err := sig.Signal(pid, kind); err != nil {
				logger.Info("signal failed", "pid", pid, "action", kind.Verb(), "error", err)
				closer.Close()
				outputError(err.Error())
			}
			logger.Info("signal sent", "pid", pid, "action", kind.Verb())

			if machineOutput() {
				if err := outputData(os.Stdout, signalResult{PID: pid, Action: kind.Verb(), OK: true}); err != nil {
					outputError(err.Error())
				}
				return
			}
			fmt.Printf("%s Process %d %s.\n", display.Green("✓"), pid, kind.Past())
		},
	}
}
