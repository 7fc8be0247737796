// Package report renders courses and GPA figures for the terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ghzx55/graderevive/internal/gpa"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/internal/retake"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

type Renderer struct {
	out     io.Writer
	heading *color.Color
	good    *color.Color
	bad     *color.Color
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:     out,
		heading: color.New(color.FgYellow, color.Bold),
		good:    color.New(color.FgGreen),
		bad:     color.New(color.FgRed),
	}
}

func (r *Renderer) Heading(text string) {
	r.heading.Fprintf(r.out, "\n%s\n", text)
}

func (r *Renderer) Success(format string, args ...interface{}) {
	r.good.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Error(format string, args ...interface{}) {
	r.bad.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) Courses(courses []model.Course) {
	r.Heading("Courses")

	table := r.newTable()
	table.SetHeader([]string{"#", "Course", "Credits", "Grade", "Original", "Type", "Major"})
	for i, c := range courses {
		major := ""
		if c.IsMajor {
			major = "Y"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			c.Name,
			formatCredits(c.Credits),
			c.Grade,
			c.OriginalGrade,
			c.MajorType,
			major,
		})
	}
	table.Render()
}

func (r *Renderer) Skipped(rows []model.SkippedRow) {
	if len(rows) == 0 {
		return
	}
	r.Heading(fmt.Sprintf("Skipped rows (%d)", len(rows)))

	table := r.newTable()
	table.SetHeader([]string{"Row", "Course", "Reason", "Value"})
	for _, s := range rows {
		table.Append([]string{strconv.Itoa(s.Row), s.Name, string(s.Reason), s.Detail})
	}
	table.Render()
}

func (r *Renderer) GPA(title string, s gpa.Summary) {
	r.Heading(title)

	table := r.newTable()
	table.SetHeader([]string{"", "GPA"})
	table.Append([]string{"Overall", FormatGPA(s.Overall)})
	table.Append([]string{"Major", FormatGPA(s.Major)})
	table.Render()
}

// Comparison shows the baseline next to the simulated result. Deltas are
// green when the GPA goes up and red when it goes down.
func (r *Renderer) Comparison(baseline, simulated gpa.Summary) {
	r.Heading("Retake simulation")

	table := r.newTable()
	table.SetHeader([]string{"", "Current", "Simulated", "Change"})
	table.Append([]string{"Overall", FormatGPA(baseline.Overall), FormatGPA(simulated.Overall), r.delta(simulated.Overall - baseline.Overall)})
	table.Append([]string{"Major", FormatGPA(baseline.Major), FormatGPA(simulated.Major), r.delta(simulated.Major - baseline.Major)})
	table.Render()
}

// Retake lists the occupied slots with the course they replace.
func (r *Renderer) Retake(slots []retake.Slot, courses []model.Course) {
	r.Heading(fmt.Sprintf("Retake slots (%d)", len(slots)))

	table := r.newTable()
	table.SetHeader([]string{"Slot", "Course", "Grade", "New grade"})
	for i, s := range slots {
		if !s.Occupied() {
			continue
		}
		name, original := s.CourseID, ""
		if idx := model.FindCourse(courses, s.CourseID); idx >= 0 {
			name, original = courses[idx].Name, courses[idx].OriginalGrade
		}
		table.Append([]string{strconv.Itoa(i + 1), name, original, s.Grade})
	}
	table.Render()
}

func (r *Renderer) Profile(p *model.Profile) {
	r.Heading("Profile")

	table := r.newTable()
	table.Append([]string{"Email", p.Email})
	table.Append([]string{"Member since", p.CreatedAt.Format("2006-01-02")})
	if p.GPA != nil {
		table.Append([]string{"Saved GPA", FormatGPA(*p.GPA)})
	} else {
		table.Append([]string{"Saved GPA", "-"})
	}
	table.Render()
}

func (r *Renderer) newTable() *tablewriter.Table {
	table := tablewriter.NewWriter(r.out)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	return table
}

func (r *Renderer) delta(d float64) string {
	text := fmt.Sprintf("%+.2f", d)
	switch {
	case d > 0.005:
		return r.good.Sprint(text)
	case d < -0.005:
		return r.bad.Sprint(text)
	}
	return "0.00"
}

// FormatGPA prints a GPA with two decimals.
func FormatGPA(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatCredits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
