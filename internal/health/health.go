package health

import (
	"os"
	"path/filepath"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type HealthChecker struct {
	journalDir string
}

type HealthStatus struct {
	Status  string        `json:"status"`
	Journal JournalHealth `json:"journal"`
	System  SystemHealth  `json:"system"`
}

type JournalHealth struct {
	Status       string `json:"status"`
	Dir          string `json:"dir"`
	ResponseTime int64  `json:"response_time_ms"`
}

type SystemHealth struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
	DiskPercent   float64 `json:"disk_percent"`
}

func NewHealthChecker(journalDir string) *HealthChecker {
	return &HealthChecker{journalDir: journalDir}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	journalHealth := h.checkJournalDir()

	status := "healthy"
	if journalHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:  status,
		Journal: journalHealth,
		System:  h.systemStats(),
	}
}

// checkJournalDir verifies the journal directory is writable by creating
// and removing a probe file.
func (h *HealthChecker) checkJournalDir() JournalHealth {
	start := time.Now()

	probe := filepath.Join(h.journalDir, ".health-probe")
	err := os.WriteFile(probe, []byte("ok"), 0o644)
	if err == nil {
		err = os.Remove(probe)
	}
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return JournalHealth{
			Status:       "unhealthy",
			Dir:          h.journalDir,
			ResponseTime: responseTime,
		}
	}

	return JournalHealth{
		Status:       "healthy",
		Dir:          h.journalDir,
		ResponseTime: responseTime,
	}
}

func (h *HealthChecker) systemStats() SystemHealth {
	var stats SystemHealth

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryPercent = vm.UsedPercent
	}
	if du, err := disk.Usage(h.journalDir); err == nil {
		stats.DiskPercent = du.UsedPercent
	}

	return stats
}
