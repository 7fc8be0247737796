// Package gpa computes credit-weighted grade-point averages.
package gpa

import (
	"github.com/ghzx55/graderevive/internal/grade"
	"github.com/ghzx55/graderevive/internal/model"
)

// Summary is the overall and major-only GPA of one course list.
type Summary struct {
	Overall float64 `json:"overall"`
	Major   float64 `json:"major"`
}

// Calculate returns the credit-weighted average of courses. Only courses with
// a non-negative grade point and positive credits count; P/NP and zero-credit
// courses are ignored. With majorOnly set, non-major courses are ignored too.
// No contributing course yields 0.
func Calculate(courses []model.Course, majorOnly bool) float64 {
	var totalPoints, totalCredits float64

	for _, c := range courses {
		if majorOnly && !c.IsMajor {
			continue
		}
		point, ok := grade.Point(c.Grade)
		if !ok || point < 0 || c.Credits <= 0 {
			continue
		}
		totalPoints += point * c.Credits
		totalCredits += c.Credits
	}

	if totalCredits == 0 {
		return 0.0
	}
	return totalPoints / totalCredits
}

func Summarize(courses []model.Course) Summary {
	return Summary{
		Overall: Calculate(courses, false),
		Major:   Calculate(courses, true),
	}
}

func (s Summary) Pair() model.GPAPair {
	return model.GPAPair{Overall: s.Overall, Major: s.Major}
}
