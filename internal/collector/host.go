package collector

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostInfo describes the machine for the summary line.
type HostInfo struct {
	TotalMemory uint64 // bytes, 0 if unknown
	CPUs        int    // logical cores, 0 if unknown
}

// ReadHostInfo is best-effort; unreadable fields are left zero.
func ReadHostInfo() HostInfo {
	var h HostInfo
	if vm, err := mem.VirtualMemory(); err == nil && vm != nil {
		h.TotalMemory = vm.Total
	}
	if n, err := cpu.Counts(true); err == nil {
		h.CPUs = n
	}
	return h
}
