// Package metrics provides Prometheus metrics for Quarry ingestion and the
// dataset cache, plus host resource sampling.
//
// # Basic Usage
//
//	timer := metrics.NewTimer("ingest")
//	table, stats, err := ingest.ReadFileParallel(ctx, path, opts)
//	metrics.IngestDuration.WithLabelValues("sales", "parallel").Observe(timer.Stop().Seconds())
//
//	// Expose the default registry
//	http.Handle("/metrics", promhttp.Handler())
//
// All metrics are registered on the default registry at package
// initialization.
package metrics

import (
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

var (
	// RowsIngested counts data rows kept by ingestion.
	RowsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_rows_ingested_total",
			Help: "Total number of data rows parsed into tables",
		},
		[]string{"source"},
	)

	// RowsSkipped counts data rows dropped for a field-count mismatch.
	RowsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_rows_skipped_total",
			Help: "Total number of malformed data rows skipped during ingestion",
		},
		[]string{"source"},
	)

	// IngestDuration tracks wall time of whole-file ingestion.
	IngestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "quarry_ingest_duration_seconds",
			Help:    "Time taken to ingest a delimited file",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms .. ~4.4min
		},
		[]string{"source", "mode"},
	)

	// IngestChunks counts byte-range chunks processed by parallel ingestion.
	IngestChunks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_ingest_chunks_total",
			Help: "Total number of chunks parsed by parallel ingestion workers",
		},
		[]string{"source"},
	)

	// DatasetCacheRequests counts cache lookups by result (hit, miss, error).
	DatasetCacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_dataset_cache_requests_total",
			Help: "Dataset cache lookups by result",
		},
		[]string{"dataset", "result"},
	)

	// DatasetLoads counts dataset loads by status (success, error).
	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quarry_dataset_loads_total",
			Help: "Dataset loads by status",
		},
		[]string{"dataset", "status"},
	)

	// DatasetRows reports the row count of each loaded dataset.
	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quarry_dataset_rows",
			Help: "Rows held by a cached dataset",
		},
		[]string{"dataset"},
	)

	// ProcessMemory reports the resident set size of this process.
	ProcessMemory = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quarry_process_resident_memory_bytes",
			Help: "Resident memory of the quarry process",
		},
	)

	// HostMemoryUsed reports host memory utilisation in percent.
	HostMemoryUsed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quarry_host_memory_used_percent",
			Help: "Host memory utilisation",
		},
	)
)

// Timer measures elapsed time since creation.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
// The name parameter is for identification in logs or metrics.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer name.
func (t *Timer) Name() string { return t.name }

// Stop returns the elapsed duration since creation. It can be called
// repeatedly.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}

// ResourceUsage is a point-in-time sample of process and host memory.
type ResourceUsage struct {
	ResidentBytes  uint64
	HostUsedPct    float64
	HostTotalBytes uint64
}

var (
	procOnce sync.Once
	proc     *process.Process
	procErr  error
)

// SampleResources reads process and host memory through gopsutil and
// updates ProcessMemory and HostMemoryUsed.
func SampleResources() (ResourceUsage, error) {
	procOnce.Do(func() {
		proc, procErr = process.NewProcess(int32(os.Getpid()))
	})
	if procErr != nil {
		return ResourceUsage{}, procErr
	}

	var usage ResourceUsage
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		return usage, err
	}
	usage.ResidentBytes = memInfo.RSS

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return usage, err
	}
	usage.HostUsedPct = vmStat.UsedPercent
	usage.HostTotalBytes = vmStat.Total

	ProcessMemory.Set(float64(usage.ResidentBytes))
	HostMemoryUsed.Set(usage.HostUsedPct)
	return usage, nil
}
