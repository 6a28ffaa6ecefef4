// Package view holds the sorted, scrollable process table shown by the TUI.
package view

import (
	"sort"

	"github.com/7c/procmon/internal/model"
)

// ApplySort returns a sorted copy of views. Ties keep their encounter order.
func ApplySort(views []model.ProcessView, mode model.SortMode) []model.ProcessView {
	out := make([]model.ProcessView, len(views))
	copy(out, views)

	var less func(a, b model.ProcessView) bool
	switch mode {
	case model.ByCPU:
		less = func(a, b model.ProcessView) bool { return a.CPUPercent > b.CPUPercent }
	case model.ByMemory:
		less = func(a, b model.ProcessView) bool { return a.MemoryMB > b.MemoryMB }
	default:
		less = func(a, b model.ProcessView) bool { return a.PID < b.PID }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Summary is the aggregate line shown above the table.
type Summary struct {
	TotalCPU float64 `json:"total_cpu" yaml:"total_cpu"`
	TotalMB  float64 `json:"total_mb" yaml:"total_mb"`
	Count    int     `json:"count" yaml:"count"`
}

// Summarize reduces one cycle's views.
func Summarize(views []model.ProcessView) Summary {
	s := Summary{Count: len(views)}
	for _, v := range views {
		s.TotalCPU += v.CPUPercent
		s.TotalMB += v.MemoryMB
	}
	return s
}

// State is the ordered snapshot plus the scroll window over it.
// Scroll always stays within [0, MaxScroll()].
type State struct {
	Views       []model.ProcessView
	Mode        model.SortMode
	Scroll      int
	VisibleRows int
}

// NewState returns an empty state sorted by mode.
func NewState(mode model.SortMode) *State {
	return &State{Mode: mode, VisibleRows: 1}
}

// SetSnapshot replaces the rows with a freshly sampled cycle.
func (s *State) SetSnapshot(views []model.ProcessView) {
	s.Views = ApplySort(views, s.Mode)
	s.Clamp()
}

func (s *State) SetSortMode(mode model.SortMode) {
	s.Mode = mode
	s.Views = ApplySort(s.Views, mode)
	s.Clamp()
}

// SetVisibleRows sets the window height; values below 1 are raised to 1.
func (s *State) SetVisibleRows(n int) {
	if n < 1 {
		n = 1
	}
	s.VisibleRows = n
	s.Clamp()
}

func (s *State) MaxScroll() int {
	rows := s.VisibleRows
	if rows < 1 {
		rows = 1
	}
	if m := len(s.Views) - rows; m > 0 {
		return m
	}
	return 0
}

func (s *State) Clamp() {
	if m := s.MaxScroll(); s.Scroll > m {
		s.Scroll = m
	}
	if s.Scroll < 0 {
		s.Scroll = 0
	}
}

func (s *State) ScrollUp() {
	s.Scroll--
	s.Clamp()
}

func (s *State) ScrollDown() {
	s.Scroll++
	s.Clamp()
}

func (s *State) PageUp() {
	s.Scroll -= s.VisibleRows
	s.Clamp()
}

func (s *State) PageDown() {
	s.Scroll += s.VisibleRows
	s.Clamp()
}

func (s *State) Home() { s.Scroll = 0 }

func (s *State) End() { s.Scroll = s.MaxScroll() }

// VisibleSlice returns the rows currently inside the window.
func (s *State) VisibleSlice() []model.ProcessView {
	if len(s.Views) == 0 {
		return nil
	}
	end := s.Scroll + s.VisibleRows
	if end > len(s.Views) {
		end = len(s.Views)
	}
	return s.Views[s.Scroll:end]
}
