package pipeline

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/logfields"
	"git.home.luguber.info/inful/pkgfoundry/internal/metrics"
)

// Orchestrator executes a fixed stage sequence against one run. The
// failure policy is uniform: a fatal error aborts the run and unwinds
// the failed stage's partial writes, anything less degrades the stage
// and continues. Completed stages are never rolled back.
type Orchestrator struct {
	stages   []Stage
	log      *slog.Logger
	recorder metrics.Recorder
}

// NewOrchestrator builds an orchestrator over the given stages. Stage
// order is execution order.
func NewOrchestrator(log *slog.Logger, recorder metrics.Recorder, stages ...Stage) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Orchestrator{stages: stages, log: log, recorder: recorder}
}

// Execute runs all stages and always returns a report, even for aborted
// runs. Cancellation is checked between stages so a cancelled context
// stops the pipeline at the next stage boundary.
func (o *Orchestrator) Execute(ctx context.Context, run *Run) *Report {
	o.recorder.RunStarted()
	log := run.Log()
	log.Info("run started",
		logfields.Project(run.Config().ProjectName),
		logfields.Package(run.Config().PackageName),
		"output_dir", run.OutputDir())

	results := make([]StageResult, 0, len(o.stages))
	aborted := false

	for _, stage := range o.stages {
		if aborted {
			results = append(results, StageResult{Stage: stage.Name(), Status: StatusNotRun})
			continue
		}
		if err := ctx.Err(); err != nil {
			log.Warn("run cancelled", logfields.Stage(stage.Name()))
			results = append(results, StageResult{Stage: stage.Name(), Status: StatusFailed, Error: err.Error()})
			aborted = true
			continue
		}

		if ok, reason := stage.Precondition(run); !ok {
			log.Info("stage skipped", logfields.Stage(stage.Name()), "reason", reason)
			result := StageResult{Stage: stage.Name(), Status: StatusSkipped, Skipped: reason}
			results = append(results, result)
			o.recorder.StageCompleted(stage.Name(), string(StatusSkipped), 0)
			continue
		}

		warningsBefore := len(run.Warnings())
		started := run.Now()
		err := stage.Execute(ctx, run)
		elapsed := run.Now().Sub(started)

		result := StageResult{Stage: stage.Name(), Duration: elapsed}
		switch {
		case err != nil && errors.IsFatal(err):
			result.Status = StatusFailed
			result.Error = err.Error()
			log.Error("stage failed", logfields.Stage(stage.Name()), logfields.Error(err))
			o.compensate(ctx, run, stage)
			aborted = true
		case err != nil:
			result.Status = StatusDegraded
			result.Error = err.Error()
			run.AddWarning(stage.Name(), err.Error())
			log.Warn("stage degraded", logfields.Stage(stage.Name()), logfields.Error(err))
		default:
			result.Status = StatusSucceeded
			if len(run.Warnings()) > warningsBefore {
				result.Status = StatusDegraded
			}
			log.Info("stage completed", logfields.Stage(stage.Name()), logfields.Status(string(result.Status)), "duration", elapsed)
		}
		result.Warnings = run.Warnings()[warningsBefore:]
		results = append(results, result)
		o.recorder.StageCompleted(stage.Name(), string(result.Status), elapsed)
	}

	report := o.buildReport(run, results)
	o.recorder.RunCompleted(string(report.Status), report.Duration())
	if report.Files != nil {
		o.recorder.FilesWritten(len(report.Files))
	}
	log.Info("run finished", logfields.Status(string(report.Status)), "duration", report.Duration(), "files", len(report.Files))
	return report
}

// compensate unwinds only the failed stage's own partial writes.
// Output from stages that completed stays on disk and is reported;
// compensation failures are logged and swallowed since the run is
// already failing for the original reason.
func (o *Orchestrator) compensate(ctx context.Context, run *Run, failed Stage) {
	if err := failed.Compensate(ctx, run); err != nil {
		run.Log().Warn("compensation failed", logfields.Stage(failed.Name()), logfields.Error(err))
	}
}

func (o *Orchestrator) buildReport(run *Run, results []StageResult) *Report {
	report := &Report{
		RunID:       run.ID(),
		ProjectName: run.Config().ProjectName,
		PackageName: run.Config().PackageName,
		OutputDir:   run.OutputDir(),
		StartedAt:   run.StartedAt(),
		FinishedAt:  run.Now(),
		Status:      overallStatus(results),
		Stages:      results,
		Warnings:    run.Warnings(),
		Providers:   run.ProviderResults(),
	}
	if exp := run.Expansion(); exp != nil {
		report.Files = exp.Manifest.Summaries()
		report.Descriptors = exp.Descriptors
	}
	return report
}
