package service

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studyhall/portal/internal/models"
	"github.com/studyhall/portal/internal/service/extractor"
	"github.com/studyhall/portal/internal/service/grader"
)

// makeDocx builds a minimal valid document containing the given paragraphs.
func makeDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)

	var doc strings.Builder
	doc.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		doc.WriteString(`<w:p><w:r><w:t>`)
		doc.WriteString(p)
		doc.WriteString(`</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	_, err = w.Write([]byte(doc.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	return buf.Bytes()
}

// words produces n filler words so the length rule can be driven precisely.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

type submissionFixture struct {
	service      SubmissionService
	submissions  *fakeSubmissionRepo
	assignments  *fakeAssignmentRepo
	students     *fakeStudentRepo
	storage      *fakeStorage
	publisher    *fakePublisher
	assignmentID string
	studentID    string
}

func newSubmissionFixture(t *testing.T, dueDate time.Time, keywords string) *submissionFixture {
	t.Helper()

	f := &submissionFixture{
		submissions:  newFakeSubmissionRepo(),
		assignments:  newFakeAssignmentRepo(),
		students:     newFakeStudentRepo(),
		storage:      newFakeStorage(),
		publisher:    &fakePublisher{},
		assignmentID: "a1111111-1111-1111-1111-111111111111",
		studentID:    "s1111111-1111-1111-1111-111111111111",
	}

	require.NoError(t, f.assignments.Create(context.Background(), &models.Assignment{
		ID:               f.assignmentID,
		Title:            "Essay on distributed systems",
		DueDate:          dueDate,
		RequiredKeywords: keywords,
		Marks:            5,
	}))
	require.NoError(t, f.students.Create(context.Background(), &models.Student{
		ID:     f.studentID,
		UserID: "u1111111-1111-1111-1111-111111111111",
		Name:   "Test Student",
		Email:  "student@test.local",
	}))

	f.service = NewSubmissionService(
		f.submissions,
		f.assignments,
		f.students,
		f.storage,
		extractor.New(),
		grader.New(nil, 0),
		f.publisher,
		zerolog.Nop(),
	)

	return f
}

func TestSubmitAssignmentDeadlinePassed(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(-time.Hour), "")

	content := makeDocx(t, words(600))
	_, err := f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay.docx", content)

	assert.ErrorIs(t, err, ErrDeadlinePassed)
	assert.Empty(t, f.submissions.submissions)
	assert.Empty(t, f.storage.objects)
}

func TestSubmitAssignmentAccepted(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "consensus, replication")

	content := makeDocx(t, words(600)+" consensus replication")
	result, err := f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay.docx", content)

	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, 5.0, result.Grade)
	assert.Equal(t, 5, result.MaxGrade)
	assert.Contains(t, result.Feedback, "Word count is sufficient")
	assert.Contains(t, result.Feedback, "All required keywords are present")

	// Строка и артефакт сохранены, оценка записана.
	require.Len(t, f.submissions.submissions, 1)
	for _, sub := range f.submissions.submissions {
		require.NotNil(t, sub.Grade)
		assert.Equal(t, 5.0, *sub.Grade)
		assert.True(t, sub.IsGraded())
		_, stored := f.storage.objects[sub.FileKey]
		assert.True(t, stored)
	}

	require.Len(t, f.publisher.gradedEvents, 1)
	assert.True(t, f.publisher.gradedEvents[0].Accepted)
}

func TestSubmitAssignmentMissingKeywords(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "consensus, summary")

	// 600 слов, "consensus" есть, "summary" нет: 1 + 1 + 0 + 1 = 3.
	content := makeDocx(t, words(600)+" consensus")
	result, err := f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay.docx", content)

	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Equal(t, 3.0, result.Grade)
	assert.Contains(t, result.Feedback, "Missing keywords: summary")
}

func TestSubmitAssignmentDisqualified(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "")

	// 300 слов: формат проходит, длина нет — 1.0, дисквалификация.
	content := makeDocx(t, words(300))
	result, err := f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay.docx", content)

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, 1.0, result.Grade)
	assert.Contains(t, result.Feedback, "Word count is below 500")

	// Строка и артефакт удалены, пересдача возможна.
	assert.Empty(t, f.submissions.submissions)
	assert.Empty(t, f.storage.objects)

	retry := makeDocx(t, words(600))
	result, err = f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay-v2.docx", retry)
	require.NoError(t, err)
	assert.True(t, result.Accepted)
}

func TestSubmitAssignmentAlreadyGraded(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "")

	content := makeDocx(t, words(600))
	result, err := f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay.docx", content)
	require.NoError(t, err)
	require.True(t, result.Accepted)

	_, err = f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay-v2.docx", content)
	assert.ErrorIs(t, err, ErrAlreadyGraded)
}

func TestSubmitAssignmentCorruptDocument(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "")

	// Извлечение падает, текст считается пустым: балл только за формат.
	content := []byte("definitely not a zip archive")
	result, err := f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay.docx", content)

	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, 1.0, result.Grade)
	assert.Equal(t, 0, result.WordCount)
	assert.Empty(t, f.submissions.submissions)
}

func TestDeleteSubmissionReleasesArtifact(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "")

	result, err := f.service.SubmitAssignment(context.Background(), f.studentID, f.assignmentID, "essay.docx", makeDocx(t, words(600)))
	require.NoError(t, err)
	require.True(t, result.Accepted)

	require.NoError(t, f.service.DeleteSubmission(context.Background(), result.SubmissionID))
	assert.Empty(t, f.submissions.submissions)
	assert.Empty(t, f.storage.objects)

	err = f.service.DeleteSubmission(context.Background(), result.SubmissionID)
	assert.ErrorIs(t, err, ErrSubmissionNotFound)
}

func TestSubmitAssignmentUnknownAssignment(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "")

	_, err := f.service.SubmitAssignment(context.Background(), f.studentID, "missing", "essay.docx", makeDocx(t, words(600)))
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestSubmitAssignmentUnknownStudent(t *testing.T) {
	f := newSubmissionFixture(t, time.Now().Add(24*time.Hour), "")

	_, err := f.service.SubmitAssignment(context.Background(), "missing", f.assignmentID, "essay.docx", makeDocx(t, words(600)))
	assert.ErrorIs(t, err, ErrStudentNotFound)
}
