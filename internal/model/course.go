package model

// Course is one validated transcript row.
type Course struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Credits       float64 `json:"credits"`
	Grade         string  `json:"grade"`
	OriginalGrade string  `json:"original_grade"`
	IsMajor       bool    `json:"is_major"`
	MajorType     string  `json:"major_type,omitempty"`
}

// CloneCourses returns an independent copy of courses. Course holds only
// value fields, so copying the elements is a full copy.
func CloneCourses(courses []Course) []Course {
	if courses == nil {
		return nil
	}
	out := make([]Course, len(courses))
	copy(out, courses)
	return out
}

// FindCourse returns the index of the course with id, or -1.
func FindCourse(courses []Course, id string) int {
	for i := range courses {
		if courses[i].ID == id {
			return i
		}
	}
	return -1
}

type SkipReason string

const (
	SkipShortRow        SkipReason = "SHORT_ROW"
	SkipEmptyName       SkipReason = "EMPTY_NAME"
	SkipEmptyGrade      SkipReason = "EMPTY_GRADE"
	SkipInvalidCredits  SkipReason = "INVALID_CREDITS"
	SkipNegativeCredits SkipReason = "NEGATIVE_CREDITS"
	SkipUnknownGrade    SkipReason = "UNKNOWN_GRADE"
)

// SkippedRow records a data row the parser dropped. Row is 1-based as shown
// in a spreadsheet.
type SkippedRow struct {
	Row    int        `json:"row"`
	Name   string     `json:"name,omitempty"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}
