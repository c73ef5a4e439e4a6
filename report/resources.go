package report

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

// ResourceSnapshot is a point-in-time reading of the run's own process
// resource usage, printed alongside the property report so a long run's
// memory growth or CPU share is visible without external tooling.
type ResourceSnapshot struct {
	RSSBytes   uint64
	CPUPercent float64
	NumThreads int32
	SampledAt  time.Time
}

// SampleResources reads the current process's resource usage via
// gopsutil, promoted here from a transitive-only dependency to direct
// use (the teacher's go.mod already required it, unexercised).
func SampleResources() (ResourceSnapshot, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ResourceSnapshot{}, fmt.Errorf("report: opening self process handle: %w", err)
	}
	mem, err := proc.MemoryInfo()
	if err != nil {
		return ResourceSnapshot{}, fmt.Errorf("report: reading memory info: %w", err)
	}
	cpuPct, err := proc.CPUPercent()
	if err != nil {
		return ResourceSnapshot{}, fmt.Errorf("report: reading cpu percent: %w", err)
	}
	threads, err := proc.NumThreads()
	if err != nil {
		return ResourceSnapshot{}, fmt.Errorf("report: reading thread count: %w", err)
	}
	return ResourceSnapshot{
		RSSBytes:   mem.RSS,
		CPUPercent: cpuPct,
		NumThreads: threads,
		SampledAt:  time.Now(),
	}, nil
}

// String renders a single diagnostics line, the shape a ticker writes
// to the log alongside each periodic report.
func (r ResourceSnapshot) String() string {
	return fmt.Sprintf("rss=%.1fMiB cpu=%.1f%% threads=%d", float64(r.RSSBytes)/(1<<20), r.CPUPercent, r.NumThreads)
}
