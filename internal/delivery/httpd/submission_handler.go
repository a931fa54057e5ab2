package httpd

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studyhall/portal/internal/middleware"
	"github.com/studyhall/portal/internal/models"
	"github.com/studyhall/portal/internal/service"
)

// SubmitAssignment accepts a multipart upload and runs it through grading.
// Format and size are pre-checked here so an oversized or mis-typed file never
// reaches storage.
func (h *Handler) SubmitAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(assignmentID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		h.handleServiceError(w, service.ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !h.isAllowedExtension(ext) {
		h.handleServiceError(w, service.ErrUnsupportedFormat)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	studentID, err := h.currentStudent(r)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	result, err := h.submissionService.SubmitAssignment(r.Context(), studentID, assignmentID, header.Filename, content)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, result)
}

func (h *Handler) GetSubmissionsByAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(assignmentID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	page, limit, offset := pageParams(r)

	submissions, total, err := h.submissionService.ListByAssignment(r.Context(), assignmentID, limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, models.SubmissionsResponse{
		Submissions: submissions,
		Total:       total,
		Page:        page,
		Limit:       limit,
	})
}

func (h *Handler) GetMySubmissions(w http.ResponseWriter, r *http.Request) {
	studentID, err := h.currentStudent(r)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	page, limit, offset := pageParams(r)

	submissions, total, err := h.submissionService.ListByStudent(r.Context(), studentID, limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, models.SubmissionsResponse{
		Submissions: submissions,
		Total:       total,
		Page:        page,
		Limit:       limit,
	})
}

// GetTeachingSubmissions lists submissions across all assignments the calling
// teacher created.
func (h *Handler) GetTeachingSubmissions(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	page, limit, offset := pageParams(r)

	submissions, total, err := h.submissionService.ListForTeacher(r.Context(), identity.UserID, limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, models.SubmissionsResponse{
		Submissions: submissions,
		Total:       total,
		Page:        page,
		Limit:       limit,
	})
}

func (h *Handler) GetSubmissionByID(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(submissionID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid submission ID format")
		return
	}

	submission, err := h.submissionService.GetSubmission(r.Context(), submissionID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, submission)
}

func (h *Handler) DownloadSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(submissionID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid submission ID format")
		return
	}

	submission, content, err := h.submissionService.DownloadArtifact(r.Context(), submissionID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", submission.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

func (h *Handler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(submissionID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid submission ID format")
		return
	}

	if err := h.submissionService.DeleteSubmission(r.Context(), submissionID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Submission deleted successfully",
	})
}

func (h *Handler) isAllowedExtension(ext string) bool {
	for _, allowed := range h.allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
