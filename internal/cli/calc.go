package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ghzx55/graderevive/internal/grade"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/session"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/urfave/cli/v2"
)

func (c *commands) calc(ctx *cli.Context) error {
	s, err := c.loadFile(ctx)
	if err != nil {
		return err
	}

	for _, name := range ctx.StringSlice("major") {
		if err := toggleByName(s, name, true); err != nil {
			return err
		}
	}
	for _, name := range ctx.StringSlice("not-major") {
		if err := toggleByName(s, name, false); err != nil {
			return err
		}
	}

	c.render.Skipped(s.Skipped)
	c.render.Courses(s.Current)
	c.render.GPA("GPA", s.Baseline)

	retakes := ctx.StringSlice("retake")
	if len(retakes) == 0 {
		return nil
	}

	s.SetPremium(ctx.Bool("premium"))
	for i, arg := range retakes {
		name, token, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid --retake %q, want COURSE=GRADE", arg)
		}
		id, err := courseIDByName(s.Original, name)
		if err != nil {
			return err
		}
		if err := s.SelectCourse(i, id); err != nil {
			return err
		}
		if err := s.SetReplacementGrade(i, token); err != nil {
			return err
		}
	}

	if _, err := s.Simulate(); err != nil {
		if errors.Is(err, errors.ErrInvalidGrade) {
			return fmt.Errorf("%w (valid grades: %s)", err, strings.Join(grade.Tokens(), " "))
		}
		return err
	}

	c.render.Retake(s.Slots(), s.Original)
	c.render.Comparison(s.Baseline, s.Simulated)
	return nil
}

// loadFile parses the FILE argument into a fresh local session.
func (c *commands) loadFile(ctx *cli.Context) (*session.Session, error) {
	if ctx.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one transcript FILE")
	}
	path := ctx.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	result, err := c.strategy.Parse(ctx.Context, path, data)
	if err != nil {
		if result != nil {
			c.render.Skipped(result.Skipped)
		}
		return nil, err
	}

	s := session.New("local")
	s.Load(result.Courses, result.Skipped)
	return s, nil
}

func toggleByName(s *session.Session, name string, isMajor bool) error {
	id, err := courseIDByName(s.Current, name)
	if err != nil {
		return err
	}
	return s.ToggleMajor(id, isMajor)
}

func courseIDByName(courses []model.Course, name string) (string, error) {
	name = strings.TrimSpace(name)
	for _, c := range courses {
		if c.Name == name {
			return c.ID, nil
		}
	}
	return "", fmt.Errorf("course %q not found in transcript", name)
}
