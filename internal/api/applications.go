package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	apperrors "jobboard/internal/common/errors"
	"jobboard/internal/common/validation"
	"jobboard/internal/models"
)

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSONStatus(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "request too large"})
			return
		}
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart body"})
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	form := &validation.ApplicationForm{
		FirstName:              r.FormValue("firstName"),
		LastName:               r.FormValue("lastName"),
		Email:                  r.FormValue("email"),
		Phone:                  r.FormValue("phone"),
		Gender:                 r.FormValue("gender"),
		Age:                    atoi(r.FormValue("age")),
		ProfessionalExperience: r.FormValue("professionalExperience"),
		Skills:                 r.FormValue("skills"),
		Diploma:                r.FormValue("diploma"),
		YearsOfExperience:      atoi(r.FormValue("yearsOfExperience")),
		PreviousCompany:        r.FormValue("previousCompany"),
	}

	cv, cvClose := formUpload(r, "cv")
	if cvClose != nil {
		defer cvClose()
	}
	form.CV = cv

	coverLetter, clClose := formUpload(r, "coverLetter")
	if clClose != nil {
		defer clClose()
	}
	form.CoverLetter = coverLetter

	app, err := s.submit.Submit(r.Context(), sessionFrom(r), r.PathValue("id"), form)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSONStatus(w, http.StatusCreated, app)
}

// formUpload reads one uploaded file from the multipart form. A missing
// file is not an error here; validation reports it as a field failure.
func formUpload(r *http.Request, field string) (*validation.Upload, func()) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil
	}
	return &validation.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	}, func() { _ = file.Close() }
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		apps []*models.Application
		err  error
	)
	if jobID := r.URL.Query().Get("job_id"); jobID != "" {
		apps, err = s.apps.ListByJob(ctx, jobID)
	} else {
		apps, err = s.apps.ListAll(ctx)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, apps)
}

func (s *Server) handleMyApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.apps.ListByUser(r.Context(), sessionFrom(r).UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, apps)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.apps.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, app)
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if !models.IsValidStatus(req.Status) {
		s.writeError(w, apperrors.NewInvalidStatusError(req.Status))
		return
	}

	id := r.PathValue("id")
	if err := s.apps.UpdateStatus(r.Context(), id, req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	app, err := s.apps.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// The status row is already committed; a failed notification must not
	// undo the review decision.
	if s.fanout != nil {
		if err := s.fanout.StatusChanged(r.Context(), app, req.Status); err != nil {
			s.logger.WithError(err).Warn("status change notification failed", map[string]interface{}{
				"applicationId": id,
			})
		}
	}
	s.writeJSON(w, app)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
