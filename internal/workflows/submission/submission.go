// Package submission implements the application submission workflow: two
// blob uploads followed by one row insert, with compensating deletes on
// partial failure. The storage and relational layers share no transaction
// context, so cleanup is explicit, reverse-order and best-effort.
package submission

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"jobboard/internal/auth"
	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/logger"
	"jobboard/internal/common/metrics"
	"jobboard/internal/common/observability"
	"jobboard/internal/common/validation"
	"jobboard/internal/models"
)

// State tracks saga progress; each value has one compensating action.
type State int

const (
	StateNotStarted State = iota
	StateCvUploaded
	StateBothUploaded
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StateCvUploaded:
		return "cv_uploaded"
	case StateBothUploaded:
		return "both_uploaded"
	case StatePersisted:
		return "persisted"
	default:
		return "not_started"
	}
}

type BlobStore interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) error
	Remove(ctx context.Context, paths ...string) error
}

type ApplicationCreator interface {
	Create(ctx context.Context, app *models.Application) error
}

type Notifier interface {
	ApplicationSubmitted(ctx context.Context, app *models.Application) error
}

type Workflow struct {
	blobs    BlobStore
	apps     ApplicationCreator
	notifier Notifier
	obs      *observability.Observability
	logger   logger.Logger
}

// timeNow is swapped in tests for deterministic blob paths.
var timeNow = time.Now

func NewWorkflow(blobs BlobStore, apps ApplicationCreator, notifier Notifier, obs *observability.Observability, log logger.Logger) *Workflow {
	return &Workflow{
		blobs:    blobs,
		apps:     apps,
		notifier: notifier,
		obs:      obs,
		logger:   log.WithFields(map[string]interface{}{"component": "submission"}),
	}
}

// Submit runs the full workflow. Either both blobs and the row exist
// afterwards, or none do. The notification at the end is best-effort and
// never fails a completed submission. ctx aborts any remaining steps.
func (w *Workflow) Submit(ctx context.Context, sess *auth.Session, jobID string, form *validation.ApplicationForm) (*models.Application, error) {
	start := timeNow()
	outcome := "failed"
	defer func() {
		metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
		metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
		if w.obs != nil {
			w.obs.RecordSubmission(ctx, outcome)
			w.obs.RecordSubmissionDuration(ctx, time.Since(start), outcome)
		}
	}()

	if sess == nil {
		return nil, apperrors.NewUnauthenticatedError()
	}

	if result := form.Validate(); !result.Valid {
		outcome = "invalid"
		return nil, apperrors.NewValidationFailedError(result.Errors)
	}

	log := w.logger.WithFields(map[string]interface{}{
		"userId": sess.UserID,
		"jobId":  jobID,
	})

	state := StateNotStarted
	cvPath := w.blobPath(sess.UserID, jobID, form.CV.Filename)
	clPath := w.blobPath(sess.UserID, jobID, form.CoverLetter.Filename)

	if err := w.blobs.Upload(ctx, cvPath, form.CV.Data, form.CV.ContentType); err != nil {
		// Nothing created yet; no cleanup needed.
		log.WithError(err).Error("cv upload failed", nil)
		return nil, apperrors.NewUploadFailedError(apperrors.DocumentCV, err)
	}
	state = StateCvUploaded

	if err := w.blobs.Upload(ctx, clPath, form.CoverLetter.Data, form.CoverLetter.ContentType); err != nil {
		log.WithError(err).Error("cover letter upload failed", nil)
		w.compensate(ctx, state, cvPath, clPath, log)
		return nil, apperrors.NewUploadFailedError(apperrors.DocumentCoverLetter, err)
	}
	state = StateBothUploaded

	app := &models.Application{
		JobID:                  jobID,
		UserID:                 sess.UserID,
		FirstName:              form.FirstName,
		LastName:               form.LastName,
		Email:                  form.Email,
		Phone:                  form.Phone,
		Gender:                 form.Gender,
		Age:                    form.Age,
		ProfessionalExperience: form.ProfessionalExperience,
		Skills:                 form.Skills,
		Diploma:                form.Diploma,
		YearsOfExperience:      form.YearsOfExperience,
		PreviousCompany:        form.PreviousCompany,
		CVPath:                 cvPath,
		CoverLetterPath:        clPath,
	}
	if err := w.apps.Create(ctx, app); err != nil {
		log.WithError(err).Error("application insert failed", nil)
		w.compensate(ctx, state, cvPath, clPath, log)
		return nil, apperrors.NewPersistFailedError(err)
	}
	state = StatePersisted

	// Outside the atomicity boundary: a notification failure is logged
	// but the submission already succeeded.
	if w.notifier != nil {
		if err := w.notifier.ApplicationSubmitted(ctx, app); err != nil {
			log.WithError(err).Warn("notification fan-out failed", map[string]interface{}{
				"applicationId": app.ID,
			})
		}
	}

	outcome = "success"
	log.Info("application submitted", map[string]interface{}{
		"applicationId": app.ID,
		"state":         state.String(),
	})
	return app, nil
}

// compensate deletes whatever blobs the failed run left behind, newest
// first. Failures here are logged, never escalated.
func (w *Workflow) compensate(ctx context.Context, state State, cvPath, clPath string, log logger.Logger) {
	var orphans []string
	switch state {
	case StateCvUploaded:
		orphans = []string{cvPath}
	case StateBothUploaded:
		orphans = []string{clPath, cvPath}
	default:
		return
	}

	metrics.SubmissionCompensations.WithLabelValues(state.String()).Inc()
	if err := w.blobs.Remove(ctx, orphans...); err != nil {
		log.WithError(err).Warn("compensating delete failed, blobs may be orphaned", map[string]interface{}{
			"paths": orphans,
		})
		return
	}
	log.Info("compensating delete completed", map[string]interface{}{
		"paths": orphans,
	})
}

// blobPath namespaces a document under {userID}/{jobID} with a timestamp
// prefix so re-submissions never collide.
func (w *Workflow) blobPath(userID, jobID, filename string) string {
	return fmt.Sprintf("%s/%s/%d-%s", userID, jobID, timeNow().UnixMilli(), path.Base(filename))
}
