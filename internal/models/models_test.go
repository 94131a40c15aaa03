package models

import (
	"testing"
	"time"
)

func TestRun(t *testing.T) {
	run := Run{Cycle: Cycle18, ReferenceDate: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)}

	if got := run.DateStamp(); got != "20241231" {
		t.Errorf("DateStamp() = %v, want 20241231", got)
	}
	if got := run.Key(); got != "2024123118" {
		t.Errorf("Key() = %v, want 2024123118", got)
	}
	if got := run.String(); got != "2024123118z" {
		t.Errorf("String() = %v, want 2024123118z", got)
	}
	if want := time.Date(2024, 12, 31, 18, 0, 0, 0, time.UTC); !run.InitTime().Equal(want) {
		t.Errorf("InitTime() = %v, want %v", run.InitTime(), want)
	}
}

func TestCycle(t *testing.T) {
	tests := []struct {
		cycle Cycle
		hour  int
		valid bool
	}{
		{Cycle00, 0, true},
		{Cycle06, 6, true},
		{Cycle12, 12, true},
		{Cycle18, 18, true},
		{Cycle("03"), 0, false},
	}

	for _, tt := range tests {
		if got := tt.cycle.Valid(); got != tt.valid {
			t.Errorf("Cycle(%q).Valid() = %v, want %v", tt.cycle, got, tt.valid)
		}
		if tt.valid && tt.cycle.Hour() != tt.hour {
			t.Errorf("Cycle(%q).Hour() = %v, want %v", tt.cycle, tt.cycle.Hour(), tt.hour)
		}
	}
}

func TestBatchReport_Counts(t *testing.T) {
	report := &BatchReport{
		Results: []FileResult{
			{Status: StatusOK, Bytes: 100},
			{Status: StatusFailed, Kind: FailureHTTP},
			{Status: StatusOK, Bytes: 50},
		},
	}

	if report.Succeeded() != 2 {
		t.Errorf("Succeeded() = %d, want 2", report.Succeeded())
	}
	if report.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", report.Failed())
	}
	if report.OK() {
		t.Error("OK() = true with a failed file")
	}
	if report.Bytes() != 150 {
		t.Errorf("Bytes() = %d, want 150", report.Bytes())
	}

	empty := &BatchReport{}
	if !empty.OK() {
		t.Error("OK() = false for an empty report")
	}
}
