// Package sampler turns cumulative CPU tick counters into per-cycle
// percentages.
//
// Engine state is not kept inside the Engine: every call takes the previous
// cycle's model.CycleState and returns the next one, so the caller owns it.
package sampler

import (
	"errors"
	"io"
	"log/slog"

	"github.com/7c/procmon/internal/collector"
	"github.com/7c/procmon/internal/model"
)

// Engine runs sampling cycles against a collector.Source.
type Engine struct {
	src    collector.Source
	users  collector.UserResolver
	logger *slog.Logger
}

// New creates an engine. A nil logger discards output.
func New(src collector.Source, users collector.UserResolver, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{src: src, users: users, logger: logger}
}

// Prime runs a cycle against an empty state and keeps only the counters, so
// the first visible cycle measures a real interval instead of time since boot.
func (e *Engine) Prime() (model.CycleState, error) {
	_, state, err := e.Sample(model.CycleState{})
	return state, err
}

// Sample runs one cycle. On a system-level read failure it returns the prior
// state unchanged together with the error. Processes that vanish mid-scan are
// skipped.
func (e *Engine) Sample(prior model.CycleState) ([]model.ProcessView, model.CycleState, error) {
	curT, err := e.src.SystemCPUTicks()
	if err != nil {
		return nil, prior, err
	}
	pids, err := e.src.ListPIDs()
	if err != nil {
		return nil, prior, err
	}

	views := make([]model.ProcessView, 0, len(pids))
	next := model.CycleState{SystemTicks: curT, Ticks: make(map[int]uint64, len(pids))}
	skipped := 0

	for _, pid := range pids {
		rp, err := e.src.ReadProcess(pid)
		if err != nil {
			if !errors.Is(err, collector.ErrVanished) {
				e.logger.Debug("process read failed", "pid", pid, "error", err)
			}
			skipped++
			continue
		}

		owner := model.UnknownOwner
		if rp.HasUID && e.users != nil {
			owner = e.users.UserName(rp.UID)
		}

		sample := model.ProcessSample{
			PID:        rp.PID,
			UID:        rp.UID,
			Owner:      owner,
			Name:       rp.Name,
			CPUTicks:   rp.CPUTicks,
			ResidentKB: rp.ResidentKB,
		}
		views = append(views, model.ProcessView{
			ProcessSample: sample,
			CPUPercent:    CPUPercent(prior.Ticks[pid], rp.CPUTicks, prior.SystemTicks, curT),
			MemoryMB:      float64(rp.ResidentKB) / 1024,
		})
		next.Ticks[pid] = rp.CPUTicks
	}

	if skipped > 0 {
		e.logger.Debug("sampling cycle skipped vanished processes", "count", skipped)
	}
	return views, next, nil
}

// CPUPercent is 100*(now-prev)/(curT-prevT), zero when the system counter
// did not advance and never negative. The result is not divided by the core
// count, so a busy process can exceed 100.
func CPUPercent(prev, now, prevT, curT uint64) float64 {
	if curT <= prevT || now <= prev {
		return 0
	}
	return 100 * float64(now-prev) / float64(curT-prevT)
}

