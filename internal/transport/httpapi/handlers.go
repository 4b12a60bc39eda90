package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domainintake "github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/ports"
	usecase "github.com/chittyos/intake/internal/usecase/intake"
)

type Handler struct {
	service *usecase.Service
}

func NewHandler(service *usecase.Service) *Handler {
	return &Handler{service: service}
}

type considerRequest struct {
	SubmissionID string             `json:"submission_id,omitempty"`
	Source       string             `json:"source"`
	SourceRef    string             `json:"source_ref"`
	SourceHash   string             `json:"source_hash,omitempty"`
	FileName     string             `json:"file_name"`
	SizeBytes    int64              `json:"size_bytes,omitempty"`
	MimeType     string             `json:"mime_type,omitempty"`
	SubmittedBy  string             `json:"submitted_by,omitempty"`
	Hints        domainintake.Hints `json:"hints,omitempty"`
}

func (r considerRequest) toInput() usecase.ConsiderInput {
	return usecase.ConsiderInput{
		SubmissionID: r.SubmissionID,
		Source:       r.Source,
		SourceRef:    r.SourceRef,
		SourceHash:   r.SourceHash,
		FileName:     r.FileName,
		SizeBytes:    r.SizeBytes,
		MimeType:     r.MimeType,
		SubmittedBy:  r.SubmittedBy,
		Hints:        r.Hints,
	}
}

type considerResponse struct {
	SubmissionID  string  `json:"submission_id"`
	Status        string  `json:"status"`
	Reason        string  `json:"reason,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Priority      int     `json:"priority,omitempty"`
	Outcome       string  `json:"outcome,omitempty"`
	DocumentID    string  `json:"document_id,omitempty"`
	WorkflowRunID string  `json:"workflow_run_id,omitempty"`
	CanRetry      bool    `json:"can_retry,omitempty"`
	Detail        string  `json:"detail,omitempty"`
}

func toResponse(result usecase.ConsiderResult) considerResponse {
	response := considerResponse{
		SubmissionID:  result.SubmissionID,
		Reason:        string(result.Reason),
		Score:         result.Score,
		Priority:      result.Priority,
		Outcome:       string(result.Outcome),
		DocumentID:    result.DocumentID,
		WorkflowRunID: result.WorkflowRunID,
		CanRetry:      result.CanRetry,
		Detail:        result.Detail,
	}
	if result.Accepted {
		response.Status = "submitted"
	} else {
		response.Status = string(result.Decision)
	}
	return response
}

func (h *Handler) Consider(w http.ResponseWriter, r *http.Request) {
	var request considerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.service.Consider(r.Context(), request.toInput())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, toResponse(result))
}

type considerBatchRequest struct {
	Documents []considerRequest `json:"documents"`
}

type considerBatchResponse struct {
	Results []considerResponse `json:"results"`
}

func (h *Handler) ConsiderBatch(w http.ResponseWriter, r *http.Request) {
	var request considerBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(request.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "documents array is required")
		return
	}
	if len(request.Documents) > usecase.MaxBatchSize {
		writeError(w, http.StatusBadRequest, "batch exceeds 100 documents")
		return
	}
	for i, document := range request.Documents {
		if strings.TrimSpace(document.Source) == "" ||
			strings.TrimSpace(document.SourceRef) == "" ||
			strings.TrimSpace(document.FileName) == "" {
			writeError(w, http.StatusBadRequest, "documents["+strconv.Itoa(i)+"] requires source, source_ref and file_name")
			return
		}
	}

	inputs := make([]usecase.ConsiderInput, 0, len(request.Documents))
	for _, document := range request.Documents {
		inputs = append(inputs, document.toInput())
	}

	results, err := h.service.ConsiderBatch(r.Context(), inputs)
	if err != nil {
		if errors.Is(err, usecase.ErrBatchTooLarge) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	responses := make([]considerResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, toResponse(result))
	}
	writeJSON(w, http.StatusAccepted, considerBatchResponse{Results: responses})
}

type statusResponse struct {
	SubmissionID  string  `json:"submission_id"`
	Outcome       string  `json:"outcome"`
	Reason        string  `json:"reason,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Priority      int     `json:"priority,omitempty"`
	DocumentID    string  `json:"document_id,omitempty"`
	WorkflowRunID string  `json:"workflow_run_id,omitempty"`
	Detail        string  `json:"detail,omitempty"`
	CanRetry      bool    `json:"can_retry"`
	RecordedAt    string  `json:"recorded_at,omitempty"`
}

func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submission_id")

	status, err := h.service.Status(r.Context(), submissionID)
	if err != nil {
		if errors.Is(err, ports.ErrSubmissionNotFound) {
			writeError(w, http.StatusNotFound, "submission not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		SubmissionID:  status.SubmissionID,
		Outcome:       status.Outcome,
		Reason:        status.Reason,
		Score:         status.Score,
		Priority:      status.Priority,
		DocumentID:    status.DocumentID,
		WorkflowRunID: status.WorkflowRunID,
		Detail:        status.Detail,
		CanRetry:      status.CanRetry,
		RecordedAt:    status.RecordedAt,
	})
}

type retryRequest struct {
	Hints domainintake.Hints `json:"hints,omitempty"`
}

func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "submission_id")

	var request retryRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	result, err := h.service.Retry(r.Context(), submissionID, request.Hints)
	if err != nil {
		switch {
		case errors.Is(err, ports.ErrSubmissionNotFound):
			writeError(w, http.StatusNotFound, "submission not found")
		case errors.Is(err, domainintake.ErrRetryNotAllowed):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusAccepted, toResponse(result))
}

type statsResponse struct {
	WindowStart       string           `json:"window_start"`
	Total             int64            `json:"total"`
	Counts            map[string]int64 `json:"counts"`
	QualificationRate float64          `json:"qualification_rate"`
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	window := 24 * time.Hour
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "window must be a positive duration such as 1h or 30m")
			return
		}
		window = parsed
	}

	stats, err := h.service.Stats(r.Context(), window)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		WindowStart:       stats.WindowStart,
		Total:             stats.Total,
		Counts:            stats.Counts,
		QualificationRate: stats.QualificationRate,
	})
}
