package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/ghzx55/graderevive/internal/gpa"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/retake"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func newTestRenderer(t *testing.T) (*Renderer, *bytes.Buffer) {
	t.Helper()
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	return NewRenderer(&buf), &buf
}

func TestCourses(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.Courses([]model.Course{
		{ID: "1", Name: "자료구조", Credits: 3, Grade: "A+", OriginalGrade: "C0", IsMajor: true, MajorType: "전필"},
		{ID: "2", Name: "채플", Credits: 0.5, Grade: "P", OriginalGrade: "P"},
	})

	out := buf.String()
	assert.Contains(t, out, "Courses")
	assert.Contains(t, out, "자료구조")
	assert.Contains(t, out, "0.5")
	assert.Contains(t, out, "전필")
	assert.Contains(t, out, "Original")
}

func TestComparisonShowsDeltas(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.Comparison(gpa.Summary{Overall: 3.2, Major: 3.5}, gpa.Summary{Overall: 3.45, Major: 3.5})

	out := buf.String()
	assert.Contains(t, out, "3.20")
	assert.Contains(t, out, "3.45")
	assert.Contains(t, out, "+0.25")
	assert.Contains(t, out, "0.00")
}

func TestRetakeListsOccupiedSlots(t *testing.T) {
	r, buf := newTestRenderer(t)
	courses := []model.Course{{ID: "ds", Name: "자료구조", Credits: 3, Grade: "C0", OriginalGrade: "C0"}}
	r.Retake([]retake.Slot{{}, {CourseID: "ds", Grade: "A0"}}, courses)

	out := buf.String()
	assert.Contains(t, out, "Retake slots (2)")
	assert.Contains(t, out, "자료구조")
	assert.Contains(t, out, "A0")
}

func TestSkippedAndProfile(t *testing.T) {
	r, buf := newTestRenderer(t)
	r.Skipped(nil)
	assert.Empty(t, buf.String())

	r.Skipped([]model.SkippedRow{{Row: 7, Name: "실험", Reason: model.SkipUnknownGrade, Detail: "Z"}})
	assert.Contains(t, buf.String(), string(model.SkipUnknownGrade))

	buf.Reset()
	v := 3.914
	r.Profile(&model.Profile{Email: "kim@example.com", GPA: &v, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	assert.Contains(t, buf.String(), "kim@example.com")
	assert.Contains(t, buf.String(), "3.91")
	assert.Contains(t, buf.String(), "2024-03-01")
}

func TestFormatGPA(t *testing.T) {
	assert.Equal(t, "4.50", FormatGPA(4.5))
	assert.Equal(t, "0.00", FormatGPA(0))
	assert.Equal(t, "3.67", FormatGPA(3.6666))
}
