package httpd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/studyhall/portal/internal/middleware"
	"github.com/studyhall/portal/internal/service"
)

type Handler struct {
	assignmentService service.AssignmentService
	submissionService service.SubmissionService
	studentService    service.StudentService
	examService       service.ExamService
	maxUploadSize     int64
	allowedExtensions []string
	validate          *validator.Validate
	logger            zerolog.Logger
}

func NewHandler(
	assignmentService service.AssignmentService,
	submissionService service.SubmissionService,
	studentService service.StudentService,
	examService service.ExamService,
	maxUploadSize int64,
	allowedExtensions []string,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		assignmentService: assignmentService,
		submissionService: submissionService,
		studentService:    studentService,
		examService:       examService,
		maxUploadSize:     maxUploadSize,
		allowedExtensions: allowedExtensions,
		validate:          validator.New(),
		logger:            logger,
	}
}

// RegisterRoutes mounts the API. Every group under /api/v1 is explicitly
// guarded: a route either names the roles allowed to reach it or it is the
// unauthenticated health probe.
func (h *Handler) RegisterRoutes(router chi.Router, jwtSecret string) {
	router.Get("/health", h.HealthCheck)

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Authenticate(jwtSecret, h.logger))

		api.Route("/assignments", func(r chi.Router) {
			r.With(middleware.RequireRole(middleware.RoleTeacher, middleware.RoleAdmin)).
				Post("/", h.CreateAssignment)
			r.Get("/", h.GetAllAssignments)
			r.Get("/{id}", h.GetAssignmentByID)
			r.With(middleware.RequireRole(middleware.RoleTeacher, middleware.RoleAdmin)).
				Delete("/{id}", h.DeleteAssignment)
			r.With(middleware.RequireRole(middleware.RoleTeacher, middleware.RoleAdmin)).
				Get("/{id}/submissions", h.GetSubmissionsByAssignment)
			r.With(middleware.RequireRole(middleware.RoleStudent)).
				Post("/{id}/submissions", h.SubmitAssignment)
		})

		api.Route("/submissions", func(r chi.Router) {
			r.With(middleware.RequireRole(middleware.RoleStudent)).
				Get("/my", h.GetMySubmissions)
			r.With(middleware.RequireRole(middleware.RoleTeacher)).
				Get("/teaching", h.GetTeachingSubmissions)
			r.With(middleware.RequireRole(middleware.RoleTeacher, middleware.RoleAdmin)).
				Get("/{id}", h.GetSubmissionByID)
			r.With(middleware.RequireRole(middleware.RoleTeacher, middleware.RoleAdmin)).
				Get("/{id}/download", h.DownloadSubmission)
			r.With(middleware.RequireRole(middleware.RoleTeacher, middleware.RoleAdmin)).
				Delete("/{id}", h.DeleteSubmission)
		})

		api.Route("/students", func(r chi.Router) {
			r.With(middleware.RequireRole(middleware.RoleStudent)).
				Get("/me", h.GetMyProfile)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Post("/", h.CreateStudent)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Get("/", h.GetAllStudents)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Get("/{id}", h.GetStudentByID)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Put("/{id}", h.UpdateStudent)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Delete("/{id}", h.DeleteStudent)
		})

		api.Route("/courses", func(r chi.Router) {
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Post("/", h.CreateCourse)
			r.Get("/", h.GetAllCourses)
			r.Get("/{id}", h.GetCourseByID)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Delete("/{id}", h.DeleteCourse)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Post("/questions", h.CreateQuestion)
			r.With(middleware.RequireRole(middleware.RoleAdmin)).
				Get("/{id}/questions", h.GetQuestionsByCourse)
		})

		api.Route("/exams", func(r chi.Router) {
			r.Use(middleware.RequireRole(middleware.RoleStudent))
			r.Get("/{courseID}", h.GetExamInfo)
			r.Post("/{courseID}/start", h.StartExam)
			r.Post("/submit", h.SubmitExam)
			r.Get("/results", h.GetExamResults)
			r.Get("/results/{courseID}", h.GetCourseResult)
		})
	})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "portal",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

// currentStudent resolves the authenticated user to their student profile.
func (h *Handler) currentStudent(r *http.Request) (string, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return "", service.ErrStudentNotFound
	}

	student, err := h.studentService.GetStudentByUserID(r.Context(), identity.UserID)
	if err != nil {
		return "", err
	}

	return student.ID, nil
}

func getIntQueryParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

func pageParams(r *http.Request) (page, limit, offset int) {
	page = getIntQueryParam(r, "page", 1)
	limit = getIntQueryParam(r, "limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":   http.StatusText(status),
		"message": message,
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	response := map[string]interface{}{
		"success": true,
		"data":    data,
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrAssignmentNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrQuestionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDeadlinePassed),
		errors.Is(err, service.ErrAlreadyGraded),
		errors.Is(err, service.ErrAlreadyAttempted),
		errors.Is(err, service.ErrAttemptExists),
		errors.Is(err, service.ErrStudentExists):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnsupportedFormat),
		errors.Is(err, service.ErrSessionMissing),
		errors.Is(err, service.ErrNoActiveAttempt):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		h.logger.Error().Err(err).Msg("Service error")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
