package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/ports"
	"github.com/healytics/healytics-client/internal/observability/metrics"
)

// UploadSnapshot is one consistent view of the upload workflow.
type UploadSnapshot struct {
	Phase      domain.UploadPhase
	Filename   string
	PreviewRef string
	Result     *domain.PredictionResult
	Err        *domain.ErrorInfo
}

// UploadJob runs the select-then-submit image analysis workflow as a
// strict state machine. Selection is rejected while a submission is in
// flight, and submission is only legal from the selected phase; a job
// that finished, either way, needs a fresh selection before it can be
// submitted again.
type UploadJob struct {
	api     ports.PredictionAPI
	log     *slog.Logger
	metrics *metrics.ClientMetrics

	mu         sync.Mutex
	phase      domain.UploadPhase
	image      *domain.ImageUpload
	previewRef string
	result     *domain.PredictionResult
	err        *domain.ErrorInfo
}

func NewUploadJob(api ports.PredictionAPI, log *slog.Logger, m *metrics.ClientMetrics) *UploadJob {
	if log == nil {
		log = slog.Default()
	}
	return &UploadJob{
		api:     api,
		log:     log,
		metrics: m,
		phase:   domain.PhaseEmpty,
	}
}

// Select validates and installs a file. A rejected file leaves the job
// exactly where it was; a valid one replaces any previous selection or
// finished outcome and issues a fresh preview reference.
func (j *UploadJob) Select(image domain.ImageUpload) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.phase == domain.PhaseSubmitting {
		return domain.WrapError(domain.ErrIllegalState, "select image",
			fmt.Errorf("a submission is in flight"))
	}
	if err := image.Validate(); err != nil {
		return err
	}

	j.image = &image
	j.previewRef = "blob:" + uuid.NewString()
	j.result = nil
	j.err = nil
	j.phase = domain.PhaseSelected
	return nil
}

// Submit sends the selected image for analysis. Exactly one submission
// runs at a time; the call blocks until the outcome is installed.
func (j *UploadJob) Submit(ctx context.Context) error {
	j.mu.Lock()
	if j.phase != domain.PhaseSelected {
		j.mu.Unlock()
		return domain.WrapError(domain.ErrIllegalState, "submit image",
			fmt.Errorf("nothing selected to submit"))
	}
	image := *j.image
	j.phase = domain.PhaseSubmitting
	j.err = nil
	j.mu.Unlock()

	result, err := j.api.Analyze(ctx, image)

	j.mu.Lock()
	defer j.mu.Unlock()
	if err != nil {
		info := domain.ErrorInfoFrom(err)
		j.err = &info
		j.phase = domain.PhaseFailed
		j.metrics.RecordUploadJob(serviceName, "failed")
		j.log.Warn("upload_failed", "filename", image.Filename, "origin", string(info.Origin))
		return err
	}
	j.result = &result
	j.phase = domain.PhaseSucceeded
	j.metrics.RecordUploadJob(serviceName, "succeeded")
	j.log.Info("upload_succeeded", "filename", image.Filename, "condition", result.PredictedCancerType)
	return nil
}

// Reset returns the job to its initial phase and drops the selection.
func (j *UploadJob) Reset() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.phase == domain.PhaseSubmitting {
		return domain.WrapError(domain.ErrIllegalState, "reset upload",
			fmt.Errorf("a submission is in flight"))
	}
	j.image = nil
	j.previewRef = ""
	j.result = nil
	j.err = nil
	j.phase = domain.PhaseEmpty
	return nil
}

func (j *UploadJob) Snapshot() UploadSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snapshot := UploadSnapshot{
		Phase:      j.phase,
		PreviewRef: j.previewRef,
	}
	if j.image != nil {
		snapshot.Filename = j.image.Filename
	}
	if j.result != nil {
		result := *j.result
		snapshot.Result = &result
	}
	if j.err != nil {
		errCopy := *j.err
		snapshot.Err = &errCopy
	}
	return snapshot
}
