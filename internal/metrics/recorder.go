// Package metrics defines the observability hooks for builds.
package metrics

import "time"

// ResultLabel enumerates stage and build result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// PageLabel enumerates per-page processing outcomes.
type PageLabel string

const (
	PageRewritten PageLabel = "rewritten"
	PageUnchanged PageLabel = "unchanged"
)

// Recorder defines observability hooks for build and stage metrics.
// Implementations must tolerate nil receivers so injection stays optional.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome ResultLabel)
	AddPages(result PageLabel, n int)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing, the default when metrics
// are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(ResultLabel)                {}
func (NoopRecorder) AddPages(PageLabel, int)                    {}
func (NoopRecorder) SetWorkers(int)                             {}
