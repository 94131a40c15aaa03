package models

import (
	"fmt"
	"time"
)

// Cycle is the nominal initialization hour of a model run
type Cycle string

const (
	Cycle00 Cycle = "00"
	Cycle06 Cycle = "06"
	Cycle12 Cycle = "12"
	Cycle18 Cycle = "18"
)

// Hour returns the initialization hour of the cycle
func (c Cycle) Hour() int {
	switch c {
	case Cycle06:
		return 6
	case Cycle12:
		return 12
	case Cycle18:
		return 18
	default:
		return 0
	}
}

// Valid reports whether c is one of the four published cycles
func (c Cycle) Valid() bool {
	switch c {
	case Cycle00, Cycle06, Cycle12, Cycle18:
		return true
	}
	return false
}

// Run identifies one forecast run: a cycle on a UTC reference date
type Run struct {
	Cycle         Cycle     `json:"cycle"`
	ReferenceDate time.Time `json:"reference_date"`
}

// DateStamp formats the reference date as YYYYMMDD
func (r Run) DateStamp() string {
	return r.ReferenceDate.Format("20060102")
}

// InitTime returns the UTC initialization time of the run
func (r Run) InitTime() time.Time {
	d := r.ReferenceDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), r.Cycle.Hour(), 0, 0, 0, time.UTC)
}

// Key formats the run as YYYYMMDDHH, the form accepted by selector.Parse
func (r Run) Key() string {
	return r.DateStamp() + string(r.Cycle)
}

func (r Run) String() string {
	return fmt.Sprintf("%s%sz", r.DateStamp(), r.Cycle)
}

// ForecastFile pairs a remote resource with its local artifact
type ForecastFile struct {
	ForecastHour int    `json:"forecast_hour"`
	URL          string `json:"url"`
	Name         string `json:"name"`
	Path         string `json:"path"`
}

// FileStatus is the outcome of a single file download
type FileStatus string

const (
	StatusOK     FileStatus = "ok"
	StatusFailed FileStatus = "failed"
)

// FailureKind classifies why a download failed
type FailureKind string

const (
	FailureNone      FailureKind = ""
	FailureNetwork   FailureKind = "network"
	FailureHTTP      FailureKind = "http"
	FailureIO        FailureKind = "io"
	FailureCanceled  FailureKind = "canceled"
	FailureUnhandled FailureKind = "unhandled"
)

// FileResult is the typed outcome of downloading one ForecastFile
type FileResult struct {
	File     ForecastFile  `json:"file"`
	Status   FileStatus    `json:"status"`
	Attempts int           `json:"attempts"`
	Bytes    int64         `json:"bytes"`
	Duration time.Duration `json:"duration_ns"`
	Kind     FailureKind   `json:"kind,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// BatchReport aggregates the results of one fetch invocation
type BatchReport struct {
	RunID            string       `json:"run_id"`
	Run              Run          `json:"run"`
	Directory        string       `json:"directory"`
	DirectoryCreated bool         `json:"directory_created"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`
	Results          []FileResult `json:"results"`
}

// Succeeded returns the number of files downloaded successfully
func (b *BatchReport) Succeeded() int {
	n := 0
	for _, r := range b.Results {
		if r.Status == StatusOK {
			n++
		}
	}
	return n
}

// Failed returns the number of files that could not be downloaded
func (b *BatchReport) Failed() int {
	return len(b.Results) - b.Succeeded()
}

// OK reports whether every file in the batch was downloaded
func (b *BatchReport) OK() bool {
	return b.Failed() == 0
}

// Bytes returns the total number of bytes written across the batch
func (b *BatchReport) Bytes() int64 {
	var total int64
	for _, r := range b.Results {
		total += r.Bytes
	}
	return total
}
