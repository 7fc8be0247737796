package transcript

import (
	"context"
	"testing"

	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatorAcceptsParsedCourses(t *testing.T) {
	courses := []model.Course{
		{ID: "a", Name: "자료구조", Credits: 3, Grade: "A+", OriginalGrade: "A+"},
		{ID: "b", Name: "채플", Credits: 0, Grade: "P", OriginalGrade: "P"},
	}
	assert.NoError(t, NewValidator().Validate(context.Background(), courses))
}

func TestValidatorRejects(t *testing.T) {
	base := model.Course{ID: "a", Name: "자료구조", Credits: 3, Grade: "A+", OriginalGrade: "A+"}

	tests := []struct {
		name   string
		mutate func(c *model.Course)
		field  string
	}{
		{"empty id", func(c *model.Course) { c.ID = "" }, "id"},
		{"empty name", func(c *model.Course) { c.Name = "" }, "name"},
		{"negative credits", func(c *model.Course) { c.Credits = -1 }, "credits"},
		{"bad grade", func(c *model.Course) { c.Grade = "Z" }, "grade"},
		{"bad original grade", func(c *model.Course) { c.OriginalGrade = "" }, "original_grade"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := NewValidator().Validate(context.Background(), []model.Course{c})

			var ve errors.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidatorRejectsDuplicateIDs(t *testing.T) {
	c := model.Course{ID: "a", Name: "x", Credits: 1, Grade: "A0", OriginalGrade: "A0"}
	err := NewValidator().Validate(context.Background(), []model.Course{c, c})

	var ve errors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
}

func TestValidatorRejectsEmpty(t *testing.T) {
	assert.ErrorIs(t, NewValidator().Validate(context.Background(), nil), errors.ErrNoValidCourses)
}
