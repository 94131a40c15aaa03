package scheduler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew_InvalidSpec(t *testing.T) {
	for _, spec := range []string{"", "every morning", "61 * * * *"} {
		if _, err := New(spec, discardLogger()); err == nil {
			t.Errorf("New(%q) expected error, got nil", spec)
		}
	}
}

func TestNext(t *testing.T) {
	s, err := New("0 1,7,13,19 * * *", discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	tests := []struct {
		from time.Time
		want time.Time
	}{
		{
			from: time.Date(2025, 6, 1, 0, 30, 0, 0, time.UTC),
			want: time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC),
		},
		{
			from: time.Date(2025, 6, 1, 7, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
		},
		{
			from: time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC),
			want: time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC),
		},
		{
			// evaluated in UTC regardless of the caller's zone
			from: time.Date(2025, 6, 1, 9, 30, 0, 0, time.FixedZone("CEST", 2*3600)),
			want: time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		if got := s.Next(tt.from); !got.Equal(tt.want) {
			t.Errorf("Next(%v) = %v, want %v", tt.from, got, tt.want)
		}
	}
}

func TestRun_RunOnStartAndStop(t *testing.T) {
	s, err := New("0 1 1 1 *", discardLogger(), WithRunOnStart())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	ran := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(jobCtx context.Context) error {
			if calls.Add(1) == 1 {
				close(ran)
			}
			return nil
		})
	}()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run on start")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if calls.Load() != 1 {
		t.Errorf("job ran %d times, want 1", calls.Load())
	}
}

func TestRun_WaitsForRunningJob(t *testing.T) {
	s, _ := New("0 1 1 1 *", discardLogger(), WithRunOnStart())

	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var finished atomic.Bool

	done := make(chan struct{})
	go func() {
		s.Run(ctx, func(jobCtx context.Context) error {
			close(started)
			<-jobCtx.Done()
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
			return jobCtx.Err()
		})
		close(done)
	}()

	<-started
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return")
	}
	if !finished.Load() {
		t.Error("Run() returned before the running job finished")
	}
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	l.Info("skip", "entry", 1)
	l.Error(errors.New("boom"), "panic", "stack", "...")

	out := buf.String()
	for _, want := range []string{"cron: skip", "entry=1", "cron: panic", "error=boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}
