package jobs

import (
	"testing"
	"time"
)

func TestMarkCompleted(t *testing.T) {
	started := time.Date(2025, 6, 16, 2, 0, 0, 0, time.UTC)
	finished := started.Add(4500 * time.Millisecond)

	exec := &Execution{ID: "exec-1", JobName: JobRenewals, Status: StatusRunning, StartedAt: started}
	exec.MarkCompleted(finished, 42, 3)

	if exec.Status != StatusCompleted {
		t.Errorf("status = %s, want %s", exec.Status, StatusCompleted)
	}
	if exec.CompletedAt == nil || !exec.CompletedAt.Equal(finished) {
		t.Errorf("completedAt = %v, want %v", exec.CompletedAt, finished)
	}
	if exec.ItemsProcessed != 42 || exec.ItemsFailed != 3 {
		t.Errorf("counts = %d/%d, want 42/3", exec.ItemsProcessed, exec.ItemsFailed)
	}
	if exec.DurationMs == nil || *exec.DurationMs != 4500 {
		t.Errorf("durationMs = %v, want 4500", exec.DurationMs)
	}
}

func TestMarkFailed(t *testing.T) {
	started := time.Date(2025, 6, 16, 2, 0, 0, 0, time.UTC)
	finished := started.Add(250 * time.Millisecond)

	t.Run("with stack trace", func(t *testing.T) {
		exec := &Execution{Status: StatusRunning, StartedAt: started}
		exec.MarkFailed(finished, "charge declined", "goroutine 1 [running]:")

		if exec.Status != StatusFailed {
			t.Errorf("status = %s, want %s", exec.Status, StatusFailed)
		}
		if exec.ErrorMessage == nil || *exec.ErrorMessage != "charge declined" {
			t.Errorf("errorMessage = %v, want charge declined", exec.ErrorMessage)
		}
		if exec.StackTrace == nil || *exec.StackTrace != "goroutine 1 [running]:" {
			t.Errorf("stackTrace = %v, want trace", exec.StackTrace)
		}
		if exec.DurationMs == nil || *exec.DurationMs != 250 {
			t.Errorf("durationMs = %v, want 250", exec.DurationMs)
		}
	})

	t.Run("empty stack trace stays nil", func(t *testing.T) {
		exec := &Execution{Status: StatusRunning, StartedAt: started}
		exec.MarkFailed(finished, "timeout", "")

		if exec.StackTrace != nil {
			t.Errorf("stackTrace = %v, want nil", exec.StackTrace)
		}
	})
}

func TestMarkCanceled(t *testing.T) {
	started := time.Date(2025, 6, 16, 2, 0, 0, 0, time.UTC)
	finished := started.Add(time.Second)

	exec := &Execution{Status: StatusRunning, StartedAt: started}
	exec.MarkCanceled(finished)

	if exec.Status != StatusCanceled {
		t.Errorf("status = %s, want %s", exec.Status, StatusCanceled)
	}
	if exec.CompletedAt == nil || !exec.CompletedAt.Equal(finished) {
		t.Errorf("completedAt = %v, want %v", exec.CompletedAt, finished)
	}
	if exec.DurationMs == nil || *exec.DurationMs != 1000 {
		t.Errorf("durationMs = %v, want 1000", exec.DurationMs)
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{StatusRunning, false},
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusCanceled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			exec := &Execution{Status: tt.status}
			if got := exec.IsTerminal(); got != tt.want {
				t.Errorf("IsTerminal() = %v, want %v", got, tt.want)
			}
		})
	}
}
