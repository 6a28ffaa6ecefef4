package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/display"
	"github.com/7c/procmon/internal/model"
	"github.com/7c/procmon/internal/sampler"
	"github.com/7c/procmon/internal/view"
)

var listLimit int

// listOutput is the machine-readable form of one snapshot.
type listOutput struct {
	Sort      string              `json:"sort" yaml:"sort"`
	Interval  string              `json:"interval" yaml:"interval"`
	Summary   view.Summary        `json:"summary" yaml:"summary"`
	Processes []model.ProcessView `json:"processes" yaml:"processes"`
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print one snapshot of the process table",
	Long: "Samples the process table twice, one refresh interval apart, and prints\n" +
		"the resulting CPU and memory figures.",
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s, logger, closer := mustSession(cmd)
		defer closer.Close()
		if !machineOutput() {
			s.printWarnings()
		}

		host, err := collector.Open()
		if err != nil {
			outputError(err.Error())
		}
		engine := sampler.New(host, collector.NewUserCache(), logger)
		views, err := snapshot(engine, s.resolved.Refresh)
		if err != nil {
			outputError(fmt.Sprintf("sampling failed: %s", err))
		}

		views = view.ApplySort(views, s.resolved.Sort)
		summary := view.Summarize(views)
		if listLimit > 0 && len(views) > listLimit {
			views = views[:listLimit]
		}

		if machineOutput() {
			out := listOutput{
				Sort:      s.resolved.Sort.String(),
				Interval:  s.resolved.Refresh.String(),
				Summary:   summary,
				Processes: views,
			}
			if err := outputData(os.Stdout, out); err != nil {
				outputError(err.Error())
			}
			return
		}

		fmt.Printf("CPU: %.1f%%   Memory: %.1f MB   Processes: %d\n", summary.TotalCPU, summary.TotalMB, summary.Count)
		if len(views) == 0 {
			fmt.Println("No processes found")
			return
		}
		display.RenderProcessList(os.Stdout, views)
	},
}

// snapshot primes the engine, waits one interval and samples again.
func snapshot(engine *sampler.Engine, interval time.Duration) ([]model.ProcessView, error) {
	state, err := engine.Prime()
	if err != nil {
		return nil, err
	}
	time.Sleep(interval)
	views, _, err := engine.Sample(state)
	return views, err
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "show at most N processes (0 = all)")
}
