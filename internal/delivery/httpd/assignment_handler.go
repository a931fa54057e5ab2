package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studyhall/portal/internal/middleware"
	"github.com/studyhall/portal/internal/models"
)

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Missing identity")
		return
	}

	assignment, err := h.assignmentService.CreateAssignment(r.Context(), identity.UserID, &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) GetAllAssignments(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pageParams(r)

	ctx := r.Context()
	identity, _ := middleware.IdentityFromContext(ctx)

	var (
		assignments []models.Assignment
		total       int
		err         error
	)

	switch {
	case r.URL.Query().Get("open") == "true":
		// Студенту по умолчанию интересны только открытые задания.
		assignments, total, err = h.assignmentService.ListOpenAssignments(ctx, limit, offset)
	case r.URL.Query().Get("mine") == "true" && identity.Role == middleware.RoleTeacher:
		assignments, total, err = h.assignmentService.ListAssignmentsByCreator(ctx, identity.UserID, limit, offset)
	default:
		assignments, total, err = h.assignmentService.ListAssignments(ctx, limit, offset)
	}

	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"assignments": assignments,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

func (h *Handler) GetAssignmentByID(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(assignmentID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	assignment, err := h.assignmentService.GetAssignment(r.Context(), assignmentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, assignment)
}

func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	assignmentID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(assignmentID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	if err := h.assignmentService.DeleteAssignment(r.Context(), assignmentID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Assignment deleted successfully",
	})
}
