//go:build !js

package system

import (
	"os"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// MemoryReport is a point-in-time view of process and machine memory, used
// to judge what a fully decoded frame set costs.
type MemoryReport struct {
	ProcessRSS      uint64
	SystemTotal     uint64
	SystemAvailable uint64
	UsedPercent     float64
}

// ReadMemory samples the current process and the host. A failure to read
// the process RSS is not fatal; the field is left at zero.
func ReadMemory() (MemoryReport, error) {
	var r MemoryReport

	vm, err := mem.VirtualMemory()
	if err != nil {
		return r, err
	}
	r.SystemTotal = vm.Total
	r.SystemAvailable = vm.Available
	r.UsedPercent = vm.UsedPercent

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil {
			r.ProcessRSS = info.RSS
		}
	}
	return r, nil
}

func (r MemoryReport) Fields() logrus.Fields {
	return logrus.Fields{
		"rss_mb":       r.ProcessRSS >> 20,
		"available_mb": r.SystemAvailable >> 20,
		"used_percent": r.UsedPercent,
	}
}
