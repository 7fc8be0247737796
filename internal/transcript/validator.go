package transcript

import (
	"context"

	"github.com/ghzx55/graderevive/internal/grade"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/pkg/errors"
)

// Validator checks the invariants every parsed course set must hold before
// it becomes a session's working set.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return errors.ErrNoValidCourses
	}

	seen := make(map[string]struct{}, len(courses))
	for _, course := range courses {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, dup := seen[course.ID]; dup {
			return errors.ValidationError{
				Field:   "id",
				Value:   course.ID,
				Message: "must be unique",
			}
		}
		seen[course.ID] = struct{}{}

		if err := v.validateCourse(course); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateCourse(course model.Course) error {
	if course.ID == "" {
		return errors.ValidationError{
			Field:   "id",
			Value:   course.ID,
			Message: "cannot be empty",
		}
	}

	if course.Name == "" {
		return errors.ValidationError{
			Field:   "name",
			Value:   course.Name,
			Message: "cannot be empty",
		}
	}

	if course.Credits < 0 {
		return errors.ValidationError{
			Field:   "credits",
			Value:   course.Credits,
			Message: "must not be negative",
		}
	}

	if !grade.IsValid(course.Grade) {
		return errors.ValidationError{
			Field:   "grade",
			Value:   course.Grade,
			Message: "not in grade table",
		}
	}

	if !grade.IsValid(course.OriginalGrade) {
		return errors.ValidationError{
			Field:   "original_grade",
			Value:   course.OriginalGrade,
			Message: "not in grade table",
		}
	}

	return nil
}
