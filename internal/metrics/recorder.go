// Package metrics defines the instrumentation interface used by the
// pipeline. The orchestrator records through the Recorder interface so
// library consumers can plug in their own backend; the CLI wires the
// Prometheus implementation, tests use the noop.
package metrics

import "time"

// Recorder receives pipeline instrumentation events.
type Recorder interface {
	// RunStarted marks the beginning of a generation run.
	RunStarted()

	// RunCompleted records the terminal status and total duration of a run.
	RunCompleted(status string, d time.Duration)

	// StageCompleted records one stage outcome.
	StageCompleted(stage, status string, d time.Duration)

	// FilesWritten records the number of files materialized to disk.
	FilesWritten(n int)

	// ProviderCall records one provider invocation and whether it failed.
	ProviderCall(capability string, failed bool)
}

// Noop discards all events.
type Noop struct{}

func (Noop) RunStarted()                                  {}
func (Noop) RunCompleted(string, time.Duration)           {}
func (Noop) StageCompleted(string, string, time.Duration) {}
func (Noop) FilesWritten(int)                             {}
func (Noop) ProviderCall(string, bool)                    {}

var _ Recorder = Noop{}
