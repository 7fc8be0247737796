package transcript

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ghzx55/graderevive/internal/grade"
	"github.com/ghzx55/graderevive/internal/logger"
	"github.com/ghzx55/graderevive/internal/model"
	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Header labels of a Korean university transcript export. Matching is exact.
const (
	ColumnName       = "교과목명"
	ColumnCredits    = "학점"
	ColumnGrade      = "등급"
	ColumnMajorType  = "이수구분"
	ColumnEvaluation = "평가방식"
)

var requiredColumns = []string{ColumnName, ColumnCredits, ColumnGrade}

// leadingNumber matches the numeric prefix of a credits cell such as "3학점".
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// Grid is the first sheet of a spreadsheet as rows of cell text.
type Grid [][]string

type Result struct {
	Courses []model.Course
	Skipped []model.SkippedRow
	// HeaderRow is the 1-based row number of the detected header.
	HeaderRow int
}

type Parser struct {
	newID func() string
	log   zerolog.Logger
}

func NewParser() *Parser {
	return &Parser{
		newID: uuid.NewString,
		log:   logger.Get(),
	}
}

type columns struct {
	name       int
	credits    int
	grade      int
	majorType  int
	evaluation int
}

// Parse turns a grid into courses. On ErrNoValidCourses the returned Result
// still carries the skipped rows so callers can explain the failure.
func (p *Parser) Parse(grid Grid) (*Result, error) {
	headerIdx := findHeaderRow(grid)
	if headerIdx < 0 {
		return nil, errors.ErrHeaderNotFound
	}

	cols, err := resolveColumns(grid[headerIdx])
	if err != nil {
		return nil, err
	}

	if len(grid) <= headerIdx+1 {
		return nil, errors.ErrEmptyData
	}

	result := &Result{HeaderRow: headerIdx + 1}
	minLen := max(cols.name, cols.credits, cols.grade) + 1

	for i := headerIdx + 1; i < len(grid); i++ {
		rowNum := i + 1
		course, skip := p.parseRow(grid[i], cols, minLen, rowNum)
		if skip != nil {
			p.log.Debug().
				Int("row", skip.Row).
				Str("name", skip.Name).
				Str("reason", string(skip.Reason)).
				Str("detail", skip.Detail).
				Msg("Skipping transcript row")
			result.Skipped = append(result.Skipped, *skip)
			continue
		}
		result.Courses = append(result.Courses, *course)
	}

	if len(result.Courses) == 0 {
		return result, errors.NoValidCoursesError{Skipped: len(result.Skipped)}
	}

	p.log.Info().
		Int("header_row", result.HeaderRow).
		Int("courses", len(result.Courses)).
		Int("skipped", len(result.Skipped)).
		Msg("Transcript parsed")

	return result, nil
}

func (p *Parser) parseRow(row []string, cols columns, minLen, rowNum int) (*model.Course, *model.SkippedRow) {
	if len(row) < minLen {
		return nil, &model.SkippedRow{Row: rowNum, Reason: model.SkipShortRow}
	}

	getValue := func(idx int) string {
		if idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	name := getValue(cols.name)
	if name == "" {
		return nil, &model.SkippedRow{Row: rowNum, Reason: model.SkipEmptyName}
	}

	majorType := getValue(cols.majorType)
	passNonPass := grade.IsPassNonPassScheme(getValue(cols.evaluation))

	g := grade.Normalize(getValue(cols.grade))
	if g == "" && !passNonPass {
		return nil, &model.SkippedRow{Row: rowNum, Name: name, Reason: model.SkipEmptyGrade}
	}
	if passNonPass {
		g = grade.CoercePassNonPass(g)
	}

	creditsText := getValue(cols.credits)
	if creditsText == "" {
		creditsText = "0"
	}
	credits, err := parseCredits(creditsText)
	if err != nil || math.IsNaN(credits) || math.IsInf(credits, 0) {
		return nil, &model.SkippedRow{Row: rowNum, Name: name, Reason: model.SkipInvalidCredits, Detail: creditsText}
	}
	if credits < 0 {
		return nil, &model.SkippedRow{Row: rowNum, Name: name, Reason: model.SkipNegativeCredits, Detail: creditsText}
	}

	if !grade.IsValid(g) {
		return nil, &model.SkippedRow{Row: rowNum, Name: name, Reason: model.SkipUnknownGrade, Detail: g}
	}

	return &model.Course{
		ID:            p.newID(),
		Name:          name,
		Credits:       credits,
		Grade:         g,
		OriginalGrade: g,
		IsMajor:       grade.IsMajor(majorType),
		MajorType:     majorType,
	}, nil
}

// parseCredits reads the leading number of text and ignores any trailing
// unit or junk. Text without a leading number is an error.
func parseCredits(text string) (float64, error) {
	num := leadingNumber.FindString(text)
	if num == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(num, 64)
}

// findHeaderRow returns the index of the first row holding every required
// label as a cell, or -1.
func findHeaderRow(grid Grid) int {
	for i, row := range grid {
		if len(row) == 0 {
			continue
		}
		found := 0
		for _, label := range requiredColumns {
			if containsCell(row, label) {
				found++
			}
		}
		if found == len(requiredColumns) {
			return i
		}
	}
	return -1
}

func containsCell(row []string, label string) bool {
	for _, cell := range row {
		if cell == label {
			return true
		}
	}
	return false
}

// resolveColumns re-reads the header with trimmed cells. Optional columns
// resolve to -1 when absent.
func resolveColumns(header []string) (columns, error) {
	columnMap := make(map[string]int)
	for i, col := range header {
		key := strings.TrimSpace(col)
		if _, exists := columnMap[key]; !exists {
			columnMap[key] = i
		}
	}

	for _, col := range requiredColumns {
		if _, exists := columnMap[col]; !exists {
			return columns{}, errors.RequiredColumnError{Column: col}
		}
	}

	lookup := func(col string) int {
		if idx, exists := columnMap[col]; exists {
			return idx
		}
		return -1
	}

	return columns{
		name:       lookup(ColumnName),
		credits:    lookup(ColumnCredits),
		grade:      lookup(ColumnGrade),
		majorType:  lookup(ColumnMajorType),
		evaluation: lookup(ColumnEvaluation),
	}, nil
}
