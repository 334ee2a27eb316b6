package pipelineapi

import (
	"context"
	"time"
)

// Api is the external pythonPipeline entry point. The pipeline service owns
// every execution semantic: stage scheduling, test runs, wheel builds,
// retries. This side only submits the configuration record and polls status.
type Api interface {
	SubmitRun(ctx context.Context, spec RunSpec) (*RunStatus, error)
	GetRunStatus(ctx context.Context, runId string) (*RunStatus, error)
}

const (
	RunStatusQueued    = "queued"
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

type RunStatus struct {
	RunId     string     `json:"run_id"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Output    string     `json:"output,omitempty"`
}

type NoopApi struct{}

func (n NoopApi) SubmitRun(ctx context.Context, spec RunSpec) (*RunStatus, error) {
	return &RunStatus{RunId: spec.RunId, Status: RunStatusQueued}, nil
}

func (n NoopApi) GetRunStatus(ctx context.Context, runId string) (*RunStatus, error) {
	return &RunStatus{RunId: runId, Status: RunStatusSucceeded}, nil
}

type MockApi struct {
	SubmittedRuns []RunSpec
	Statuses      map[string]string
}

func (m *MockApi) SubmitRun(ctx context.Context, spec RunSpec) (*RunStatus, error) {
	m.SubmittedRuns = append(m.SubmittedRuns, spec)
	return &RunStatus{RunId: spec.RunId, Status: RunStatusQueued}, nil
}

func (m *MockApi) GetRunStatus(ctx context.Context, runId string) (*RunStatus, error) {
	status, ok := m.Statuses[runId]
	if !ok {
		status = RunStatusQueued
	}
	return &RunStatus{RunId: runId, Status: status}, nil
}
