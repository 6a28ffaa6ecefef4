package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/control"
	"github.com/7c/procmon/internal/gui"
	"github.com/7c/procmon/internal/sampler"
)

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Launch the interactive process monitor",
	Long: "Live process table. Keys: q quit, up/down scroll, o/m/p sort by\n" +
		"cpu/memory/pid, k/s/r/d kill, suspend, resume or show details for a pid.",
	Args: cobra.NoArgs,
	Run:  runTop,
}

func runTop(cmd *cobra.Command, args []string) {
	s, logger, closer := mustSession(cmd)
	s.printWarnings()

	host, err := collector.Open()
	if err != nil {
		closer.Close()
		outputError(err.Error())
	}
	r := s.resolved
	engine := sampler.New(host, collector.NewUserCache(), logger)
	ctl := control.New(r.Sort, collector.NewUnixSignaler(r.KillSignal), host, logger)

	err = gui.Run(gui.Options{
		Engine:     engine,
		Controller: ctl,
		Host:       collector.ReadHostInfo(),
		Refresh:    r.Refresh,
		Logger:     logger,
	})
	closer.Close()
	if err != nil {
		outputError(monitorError(err))
	}
}

// monitorError passes the terminal check through as is and prefixes
// everything else.
func monitorError(err error) string {
	if errors.Is(err, gui.ErrNotTerminal) {
		return err.Error()
	}
	return "cannot start monitor: " + err.Error()
}
