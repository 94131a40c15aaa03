// Package fetcher downloads the GRIB2 files of one forecast run, one file at
// a time in ascending forecast-hour order, retrying failed files.
package fetcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"aifsfetch/internal/metrics"
	"aifsfetch/internal/models"
)

// Source builds file URLs and streams their content
type Source interface {
	BuildURL(run models.Run, forecastHour int) string
	Get(ctx context.Context, url string) (io.ReadCloser, error)
}

// Fetcher downloads forecast files into a fixed destination directory
type Fetcher struct {
	src     Source
	destDir string
	policy  RetryPolicy
	sleep   Sleeper
	now     func() time.Time
	log     *slog.Logger
}

// Option customizes a Fetcher
type Option func(*Fetcher)

// WithRetryPolicy replaces DefaultRetryPolicy
func WithRetryPolicy(p RetryPolicy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithSleeper replaces the pause used between retries
func WithSleeper(s Sleeper) Option {
	return func(f *Fetcher) { f.sleep = s }
}

// WithClock replaces time.Now for report timestamps and durations
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

// WithLogger sets the logger; slog.Default() is used otherwise
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// New creates a Fetcher writing into destDir
func New(src Source, destDir string, opts ...Option) *Fetcher {
	f := &Fetcher{
		src:     src,
		destDir: destDir,
		policy:  DefaultRetryPolicy,
		sleep:   SleepContext,
		now:     time.Now,
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Directory returns the destination directory
func (f *Fetcher) Directory() string {
	return f.destDir
}

// Plan lists the files of run up to final under the destination directory
func (f *Fetcher) Plan(run models.Run, final int) ([]models.ForecastFile, error) {
	return Plan(f.src, run, final, f.destDir)
}

// Fetch downloads every file of run from forecast hour 0 to final.
// A file that cannot be fetched does not stop the batch. The returned error
// is non-nil only when the batch could not start or ctx was canceled; in the
// latter case the partial report is returned too.
func (f *Fetcher) Fetch(ctx context.Context, run models.Run, final int) (*models.BatchReport, error) {
	files, err := f.Plan(run, final)
	if err != nil {
		return nil, err
	}

	report := &models.BatchReport{
		RunID:     uuid.NewString(),
		Run:       run,
		Directory: f.destDir,
		StartedAt: f.now().UTC(),
		Results:   make([]models.FileResult, 0, len(files)),
	}

	created, err := EnsureDir(f.destDir)
	if err != nil {
		return nil, err
	}
	report.DirectoryCreated = created
	if created {
		f.log.Info("folder created", "path", f.destDir)
	} else {
		f.log.Info("folder already exists", "path", f.destDir)
	}

	f.log.Info("fetching run",
		"run", run.String(),
		"run_id", report.RunID,
		"files", len(files),
		"final_forecast_hour", final,
	)

	for i, file := range files {
		if ctx.Err() != nil {
			for _, skipped := range files[i:] {
				report.Results = append(report.Results, canceledResult(skipped, ctx.Err()))
			}
			break
		}
		report.Results = append(report.Results, f.Download(ctx, file))
	}

	report.FinishedAt = f.now().UTC()
	f.log.Info("run finished",
		"run", run.String(),
		"succeeded", report.Succeeded(),
		"failed", report.Failed(),
		"elapsed", report.FinishedAt.Sub(report.StartedAt),
	)

	return report, ctx.Err()
}

// Download fetches one file. When the primary attempt fails it retries up to
// policy.MaxRetries times, pausing policy.Delay before each retry.
func (f *Fetcher) Download(ctx context.Context, file models.ForecastFile) models.FileResult {
	start := f.now()
	result := models.FileResult{File: file, Attempts: 1}

	n, err := f.attempt(ctx, file)
	if err != nil && ctx.Err() == nil {
		f.log.Warn("error downloading file", "file", file.Name, "error", err)

		for retry := 1; retry <= f.policy.MaxRetries; retry++ {
			f.log.Info("retrying download",
				"file", file.Name,
				"retries_left", f.policy.MaxRetries-retry+1,
				"delay", f.policy.Delay,
			)
			if sleepErr := f.sleep(ctx, f.policy.Delay); sleepErr != nil {
				err = sleepErr
				break
			}

			metrics.RecordRetry()
			result.Attempts++
			n, err = f.attempt(ctx, file)
			if err == nil || ctx.Err() != nil {
				break
			}
			f.log.Warn("retry failed", "file", file.Name, "attempt", result.Attempts, "error", err)
		}

		if err != nil && ctx.Err() == nil {
			f.log.Error("cannot reconnect, giving up on file", "file", file.Name, "attempts", result.Attempts)
		}
	}

	result.Duration = f.now().Sub(start)
	switch {
	case err == nil:
		result.Status = models.StatusOK
		result.Bytes = n
		f.log.Info("file downloaded successfully", "path", file.Path, "bytes", n)
	case ctx.Err() != nil:
		result.Status = models.StatusFailed
		result.Kind = models.FailureCanceled
		result.Error = err.Error()
	default:
		result.Status = models.StatusFailed
		result.Kind = Classify(err)
		result.Error = err.Error()
	}

	metrics.RecordDownload(string(result.Status), result.Duration, result.Bytes)
	return result
}

// attempt performs one GET and streams the body into file.Path.
// The local file is only created once the server has answered 200.
func (f *Fetcher) attempt(ctx context.Context, file models.ForecastFile) (int64, error) {
	body, err := f.src.Get(ctx, file.URL)
	if err != nil {
		if Classify(err) == models.FailureHTTP {
			return 0, err
		}
		return 0, &NetworkError{Op: "request", Err: err}
	}
	defer body.Close()

	out, err := os.Create(file.Path)
	if err != nil {
		return 0, &IOError{Op: "create", Path: file.Path, Err: err}
	}

	n, err := io.Copy(&fileWriter{f: out}, body)
	if err != nil {
		out.Close()
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			return n, err
		}
		return n, &NetworkError{Op: "read", Err: err}
	}

	if err := out.Close(); err != nil {
		return n, &IOError{Op: "close", Path: file.Path, Err: err}
	}
	return n, nil
}

// fileWriter tags write failures as IOError so they can be told apart from
// read failures on the response body.
type fileWriter struct {
	f *os.File
}

func (w *fileWriter) Write(p []byte) (int, error) {
	n, err := w.f.Write(p)
	if err != nil {
		return n, &IOError{Op: "write", Path: w.f.Name(), Err: err}
	}
	return n, nil
}

func canceledResult(file models.ForecastFile, err error) models.FileResult {
	return models.FileResult{
		File:   file,
		Status: models.StatusFailed,
		Kind:   models.FailureCanceled,
		Error:  err.Error(),
	}
}
