package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorePutGetClear(t *testing.T) {
	store := NewStore()

	_, ok := store.Get("student-1")
	assert.False(t, ok)

	state := ExamState{
		CourseID:        "course-1",
		StartTime:       "2026-01-15T10:00:00Z",
		DurationMinutes: 30,
	}
	store.Put("student-1", state)

	got, ok := store.Get("student-1")
	assert.True(t, ok)
	assert.Equal(t, state, got)

	store.Clear("student-1")
	_, ok = store.Get("student-1")
	assert.False(t, ok)
}

func TestStoreIsolatedPerStudent(t *testing.T) {
	store := NewStore()

	store.Put("student-1", ExamState{CourseID: "course-1", StartTime: "t", DurationMinutes: 30})
	store.Put("student-2", ExamState{CourseID: "course-2", StartTime: "t", DurationMinutes: 60})

	store.Clear("student-1")

	_, ok := store.Get("student-1")
	assert.False(t, ok)

	got, ok := store.Get("student-2")
	assert.True(t, ok)
	assert.Equal(t, "course-2", got.CourseID)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%10))
			store.Put(key, ExamState{CourseID: key, StartTime: "t", DurationMinutes: 1})
			store.Get(key)
			store.Clear(key)
		}(i)
	}
	wg.Wait()
}

func TestExamStateValid(t *testing.T) {
	assert.False(t, ExamState{}.Valid())
	assert.False(t, ExamState{CourseID: "c", StartTime: "t"}.Valid())
	assert.True(t, ExamState{CourseID: "c", StartTime: "t", DurationMinutes: 1}.Valid())
}
