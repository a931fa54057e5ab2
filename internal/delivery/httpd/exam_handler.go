package httpd

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/studyhall/portal/internal/models"
)

func (h *Handler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	course, err := h.examService.CreateCourse(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, course)
}

func (h *Handler) GetAllCourses(w http.ResponseWriter, r *http.Request) {
	page, limit, offset := pageParams(r)

	courses, total, err := h.examService.ListCourses(r.Context(), limit, offset)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"courses": courses,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func (h *Handler) GetCourseByID(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(courseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	course, err := h.examService.GetCourse(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, course)
}

func (h *Handler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(courseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	if err := h.examService.DeleteCourse(r.Context(), courseID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"message": "Course deleted successfully",
	})
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	question, err := h.examService.AddQuestion(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, question)
}

func (h *Handler) GetQuestionsByCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(courseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	questions, err := h.examService.ListQuestions(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"questions": questions,
		"total":     len(questions),
	})
}

func (h *Handler) GetExamInfo(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if _, err := uuid.Parse(courseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	info, err := h.examService.GetExamInfo(r.Context(), courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, info)
}

func (h *Handler) StartExam(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if _, err := uuid.Parse(courseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	studentID, err := h.currentStudent(r)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response, err := h.examService.StartExam(r.Context(), studentID, courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) SubmitExam(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	studentID, err := h.currentStudent(r)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	response, err := h.examService.SubmitExam(r.Context(), studentID, req.Answers)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, response)
}

func (h *Handler) GetExamResults(w http.ResponseWriter, r *http.Request) {
	studentID, err := h.currentStudent(r)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	results, err := h.examService.GetResults(r.Context(), studentID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

func (h *Handler) GetCourseResult(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if _, err := uuid.Parse(courseID); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid course ID format")
		return
	}

	studentID, err := h.currentStudent(r)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	results, err := h.examService.GetCourseResult(r.Context(), studentID, courseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}
