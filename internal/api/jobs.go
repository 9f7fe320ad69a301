package api

import (
	"encoding/json"
	"net/http"

	"jobboard/internal/models"
)

type jobRequest struct {
	Title          string `json:"title"`
	Department     string `json:"department"`
	Description    string `json:"description"`
	Location       string `json:"location"`
	ContractType   string `json:"contractType"`
	Positions      int    `json:"positions"`
	ExpirationDate string `json:"expirationDate"`
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if q := r.URL.Query().Get("q"); q != "" && s.searcher != nil {
		ids, err := s.searcher.Search(ctx, q)
		if err != nil {
			s.writeError(w, err)
			return
		}
		jobs := make([]*models.Job, 0, len(ids))
		for _, id := range ids {
			job, err := s.jobs.GetByID(ctx, id)
			if err != nil {
				// Index can lag behind deletes; skip stale hits.
				continue
			}
			if job.IsActive {
				jobs = append(jobs, job)
			}
		}
		s.writeJSON(w, jobs)
		return
	}

	jobs, err := s.jobs.ListActive(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, jobs)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, job)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.Title == "" || req.Description == "" {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "title and description are required"})
		return
	}

	expiration, err := parseDate(req.ExpirationDate)
	if err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid expirationDate"})
		return
	}

	job := &models.Job{
		Title:          req.Title,
		Department:     req.Department,
		Description:    req.Description,
		Location:       req.Location,
		ContractType:   req.ContractType,
		Positions:      req.Positions,
		ExpirationDate: expiration,
		CreatedBy:      sessionFrom(r).UserID,
	}
	if err := s.jobs.Create(r.Context(), job); err != nil {
		s.writeError(w, err)
		return
	}
	s.indexJob(r, job)
	s.writeJSONStatus(w, http.StatusCreated, job)
}

func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req jobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	if req.ExpirationDate != "" {
		expiration, err := parseDate(req.ExpirationDate)
		if err != nil {
			s.writeJSONStatus(w, http.StatusBadRequest, map[string]string{"error": "invalid expirationDate"})
			return
		}
		job.ExpirationDate = expiration
	}
	if req.Title != "" {
		job.Title = req.Title
	}
	if req.Department != "" {
		job.Department = req.Department
	}
	if req.Description != "" {
		job.Description = req.Description
	}
	if req.Location != "" {
		job.Location = req.Location
	}
	if req.ContractType != "" {
		job.ContractType = req.ContractType
	}
	if req.Positions > 0 {
		job.Positions = req.Positions
	}

	if err := s.jobs.Update(r.Context(), job); err != nil {
		s.writeError(w, err)
		return
	}
	s.indexJob(r, job)
	s.writeJSON(w, job)
}

func (s *Server) handleToggleJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	active := parseBool(r.URL.Query().Get("active"), false)

	if err := s.jobs.SetActive(r.Context(), id, active); err != nil {
		s.writeError(w, err)
		return
	}
	if job, err := s.jobs.GetByID(r.Context(), id); err == nil {
		s.indexJob(r, job)
		s.writeJSON(w, job)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.jobs.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	if s.indexer != nil {
		if err := s.indexer.Delete(r.Context(), id); err != nil {
			s.logger.WithError(err).Warn("index delete failed", map[string]interface{}{"jobId": id})
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) indexJob(r *http.Request, job *models.Job) {
	if s.indexer == nil {
		return
	}
	if err := s.indexer.Index(r.Context(), job); err != nil {
		s.logger.WithError(err).Warn("index update failed", map[string]interface{}{"jobId": job.ID})
	}
}
