package server

import (
	"time"

	"github.com/jkirker/Page-Exec-Timer/internal/gitinfo"
	"github.com/jkirker/Page-Exec-Timer/internal/pageview"
)

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// StatusResponse is the /api/status payload: what the instance serves and
// the latest sampled system metrics.
type StatusResponse struct {
	Status          string               `json:"status"`
	PID             int                  `json:"pid"`
	Title           string               `json:"title"`
	ContentDir      string               `json:"content_dir"`
	Pages           int                  `json:"pages"`
	CachedPages     int                  `json:"cached_pages"`
	TotalViews      int64                `json:"total_views"`
	TopPages        []pageview.PageCount `json:"top_pages,omitempty"`
	PeakMemoryBytes uint64               `json:"peak_memory_bytes"`
	PeakMemory      string               `json:"peak_memory"`
	Load1           *float64             `json:"load1,omitempty"`
	Git             *gitinfo.Info        `json:"git,omitempty"`
	Version         string               `json:"version"`
	Uptime          float64              `json:"uptime"`
	Timestamp       time.Time            `json:"timestamp"`
}
