package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/studyhall/portal/internal/models"
	"github.com/studyhall/portal/internal/repository"
)

// In-memory doubles for the repository and storage interfaces.

type fakeStudentRepo struct {
	students map[string]*models.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[string]*models.Student)}
}

func (f *fakeStudentRepo) Create(ctx context.Context, s *models.Student) error {
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) GetByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentRepo) GetByUserID(ctx context.Context, userID string) (*models.Student, error) {
	for _, s := range f.students {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStudentRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range f.students {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, s *models.Student) error {
	cp := *s
	f.students[s.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.students[id]
	return ok, nil
}

type fakeAssignmentRepo struct {
	assignments map[string]*models.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*models.Assignment)}
}

func (f *fakeAssignmentRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return nil, nil
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, a *models.Assignment) error {
	cp := *a
	f.assignments[a.ID] = &cp
	return nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (*models.Assignment, error) {
	a, ok := f.assignments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAssignmentRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Assignment, int, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (f *fakeAssignmentRepo) GetByCreator(ctx context.Context, createdBy string, limit, offset int) ([]models.Assignment, int, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		if a.CreatedBy == createdBy {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (f *fakeAssignmentRepo) GetOpen(ctx context.Context, now time.Time, limit, offset int) ([]models.Assignment, int, error) {
	var out []models.Assignment
	for _, a := range f.assignments {
		if !a.DueDate.Before(now) {
			out = append(out, *a)
		}
	}
	return out, len(out), nil
}

func (f *fakeAssignmentRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	delete(f.assignments, id)
	return nil
}

func (f *fakeAssignmentRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.assignments[id]
	return ok, nil
}

type fakeSubmissionRepo struct {
	submissions map[string]*models.Submission
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{submissions: make(map[string]*models.Submission)}
}

func (f *fakeSubmissionRepo) Create(ctx context.Context, s *models.Submission) error {
	cp := *s
	f.submissions[s.ID] = &cp
	return nil
}

func (f *fakeSubmissionRepo) GetByID(ctx context.Context, id string) (*models.Submission, error) {
	s, ok := f.submissions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubmissionRepo) GetByStudentAndAssignment(ctx context.Context, studentID, assignmentID string) (*models.Submission, error) {
	for _, s := range f.submissions {
		if s.StudentID == studentID && s.AssignmentID == assignmentID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSubmissionRepo) GetByAssignmentID(ctx context.Context, assignmentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	var out []models.SubmissionWithDetails
	for _, s := range f.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, models.SubmissionWithDetails{Submission: *s})
		}
	}
	return out, len(out), nil
}

func (f *fakeSubmissionRepo) GetByStudentID(ctx context.Context, studentID string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	var out []models.SubmissionWithDetails
	for _, s := range f.submissions {
		if s.StudentID == studentID {
			out = append(out, models.SubmissionWithDetails{Submission: *s})
		}
	}
	return out, len(out), nil
}

func (f *fakeSubmissionRepo) GetByAssignments(ctx context.Context, createdBy string, limit, offset int) ([]models.SubmissionWithDetails, int, error) {
	return nil, 0, nil
}

func (f *fakeSubmissionRepo) UpdateArtifact(ctx context.Context, id, fileName string, submittedAt time.Time) error {
	if s, ok := f.submissions[id]; ok {
		s.FileName = fileName
		s.SubmittedAt = submittedAt
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeSubmissionRepo) UpdateGrade(ctx context.Context, id string, grade float64, feedback string) error {
	if s, ok := f.submissions[id]; ok {
		s.Grade = &grade
		s.Feedback = &feedback
		s.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakeSubmissionRepo) Delete(ctx context.Context, id string) error {
	delete(f.submissions, id)
	return nil
}

func (f *fakeSubmissionRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id string) error {
	delete(f.submissions, id)
	return nil
}

func (f *fakeSubmissionRepo) GetAllByAssignmentID(ctx context.Context, assignmentID string) ([]models.Submission, error) {
	var out []models.Submission
	for _, s := range f.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, *s)
		}
	}
	return out, nil
}

type fakeStorage struct {
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (f *fakeStorage) Upload(ctx context.Context, key string, data io.Reader, size int64) error {
	content, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.objects[key] = content
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	content, ok := f.objects[key]
	if !ok {
		return nil, 0, io.ErrUnexpectedEOF
	}
	return io.NopCloser(bytes.NewReader(content)), int64(len(content)), nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

type fakeCourseRepo struct {
	courses map[string]*models.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*models.Course)}
}

func (f *fakeCourseRepo) Create(ctx context.Context, c *models.Course) error {
	cp := *c
	f.courses[c.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, id string) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) GetAll(ctx context.Context, limit, offset int) ([]models.Course, int, error) {
	var out []models.Course
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (f *fakeCourseRepo) Delete(ctx context.Context, id string) error {
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseRepo) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := f.courses[id]
	return ok, nil
}

type fakeQuestionRepo struct {
	questions map[string]*models.Question
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[string]*models.Question)}
}

func (f *fakeQuestionRepo) Create(ctx context.Context, q *models.Question) error {
	cp := *q
	f.questions[q.ID] = &cp
	return nil
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, id string) (*models.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, nil
	}
	cp := *q
	return &cp, nil
}

func (f *fakeQuestionRepo) GetByCourseID(ctx context.Context, courseID string) ([]models.Question, error) {
	var out []models.Question
	for _, q := range f.questions {
		if q.CourseID == courseID {
			out = append(out, *q)
		}
	}
	return out, nil
}

func (f *fakeQuestionRepo) SumMarksByCourseID(ctx context.Context, courseID string) (int, error) {
	total := 0
	for _, q := range f.questions {
		if q.CourseID == courseID {
			total += q.Marks
		}
	}
	return total, nil
}

func (f *fakeQuestionRepo) Delete(ctx context.Context, id string) error {
	delete(f.questions, id)
	return nil
}

type fakeAttemptRepo struct {
	attempts map[string]*models.ExamAttempt // keyed by student_id + "/" + course_id
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{attempts: make(map[string]*models.ExamAttempt)}
}

func attemptKey(studentID, courseID string) string {
	return studentID + "/" + courseID
}

func (f *fakeAttemptRepo) Create(ctx context.Context, a *models.ExamAttempt) error {
	key := attemptKey(a.StudentID, a.CourseID)
	if _, ok := f.attempts[key]; ok {
		return repository.ErrDuplicateAttempt
	}
	cp := *a
	f.attempts[key] = &cp
	return nil
}

func (f *fakeAttemptRepo) GetByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.ExamAttempt, error) {
	a, ok := f.attempts[attemptKey(studentID, courseID)]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAttemptRepo) GetCompletedByStudent(ctx context.Context, studentID string) ([]models.ExamAttemptWithCourse, error) {
	var out []models.ExamAttemptWithCourse
	for _, a := range f.attempts {
		if a.StudentID == studentID && a.Completed {
			out = append(out, models.ExamAttemptWithCourse{ExamAttempt: *a})
		}
	}
	return out, nil
}

func (f *fakeAttemptRepo) GetByStudentAndCourseCompleted(ctx context.Context, studentID, courseID string) ([]models.ExamAttemptWithCourse, error) {
	var out []models.ExamAttemptWithCourse
	if a, ok := f.attempts[attemptKey(studentID, courseID)]; ok && a.Completed {
		out = append(out, models.ExamAttemptWithCourse{ExamAttempt: *a})
	}
	return out, nil
}

func (f *fakeAttemptRepo) Complete(ctx context.Context, studentID, courseID string, marksObtained int, submissionTime time.Time) (bool, error) {
	a, ok := f.attempts[attemptKey(studentID, courseID)]
	if !ok || a.Completed {
		return false, nil
	}
	a.Completed = true
	a.MarksObtained = &marksObtained
	a.SubmissionTime = &submissionTime
	return true, nil
}

type fakePublisher struct {
	gradedEvents    []*models.SubmissionGradedEvent
	completedEvents []*models.ExamCompletedEvent
}

func (f *fakePublisher) PublishSubmissionGraded(ctx context.Context, event *models.SubmissionGradedEvent) error {
	f.gradedEvents = append(f.gradedEvents, event)
	return nil
}

func (f *fakePublisher) PublishExamCompleted(ctx context.Context, event *models.ExamCompletedEvent) error {
	f.completedEvents = append(f.completedEvents, event)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
