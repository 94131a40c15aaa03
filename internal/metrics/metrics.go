package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Download metrics
var (
	// DownloadsTotal tracks finished file downloads by outcome
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aifs_downloads_total",
			Help: "Total number of forecast file downloads by status",
		},
		[]string{"status"},
	)

	// DownloadRetriesTotal counts retry attempts after a failed primary attempt
	DownloadRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aifs_download_retries_total",
			Help: "Total number of download retry attempts",
		},
	)

	// DownloadDuration tracks time spent per file, retries and backoff included
	DownloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aifs_download_duration_seconds",
			Help:    "Duration of forecast file downloads in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
		[]string{"status"},
	)

	// DownloadBytesTotal counts bytes written to disk
	DownloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "aifs_download_bytes_total",
			Help: "Total number of bytes written to local forecast files",
		},
	)
)

// Batch metrics
var (
	// BatchFiles reports the per-status file counts of the most recent batch
	BatchFiles = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "aifs_batch_files",
			Help: "Number of files in the most recent batch by status",
		},
		[]string{"status"},
	)

	// BatchLastCompletion records when the most recent batch finished
	BatchLastCompletion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aifs_batch_last_completion_timestamp_seconds",
			Help: "Unix timestamp of the most recent batch completion",
		},
	)

	// BatchLastRunInit records the initialization time of the most recent run fetched
	BatchLastRunInit = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aifs_batch_last_run_init_timestamp_seconds",
			Help: "Unix timestamp of the initialization time of the most recently fetched run",
		},
	)
)

var (
	// AppInfo provides static information about the application
	AppInfo = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aifsfetch_app_info",
			Help: "Application information (always 1)",
		},
	)

	// AppStartTime records when the application started
	AppStartTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "aifsfetch_app_start_time_seconds",
			Help: "Unix timestamp of when the application started",
		},
	)
)

func init() {
	AppInfo.Set(1)
	AppStartTime.SetToCurrentTime()
}

// RecordDownload records one finished file download
func RecordDownload(status string, duration time.Duration, bytes int64) {
	DownloadsTotal.WithLabelValues(status).Inc()
	DownloadDuration.WithLabelValues(status).Observe(duration.Seconds())
	if bytes > 0 {
		DownloadBytesTotal.Add(float64(bytes))
	}
}

// RecordRetry records one retry attempt
func RecordRetry() {
	DownloadRetriesTotal.Inc()
}

// RecordBatch updates the gauges describing the most recent batch
func RecordBatch(succeeded, failed int, runInit, finishedAt time.Time) {
	BatchFiles.WithLabelValues("ok").Set(float64(succeeded))
	BatchFiles.WithLabelValues("failed").Set(float64(failed))
	BatchLastRunInit.Set(float64(runInit.Unix()))
	BatchLastCompletion.Set(float64(finishedAt.Unix()))
}

// WriteTextfile writes all registered metrics in the node_exporter textfile format
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
