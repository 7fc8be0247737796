package transcript

import (
	"context"
	"testing"

	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}

	// A second sheet must be ignored.
	_, err := f.NewSheet("Ignored")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Ignored", "A1", &[]interface{}{"교과목명", "학점", "등급"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExcelDecoderReadsFirstSheet(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"성적표"},
		{"교과목명", "학점", "등급", "이수구분"},
		{"자료구조", 3, "A+", "전공필수"},
	})

	grid, err := NewExcelDecoder().Decode(context.Background(), data)
	require.NoError(t, err)
	require.Len(t, grid, 3)
	assert.Equal(t, []string{"성적표"}, grid[0])
	assert.Equal(t, []string{"교과목명", "학점", "등급", "이수구분"}, grid[1])
	assert.Equal(t, []string{"자료구조", "3", "A+", "전공필수"}, grid[2])
}

func TestExcelDecoderRejectsGarbage(t *testing.T) {
	_, err := NewExcelDecoder().Decode(context.Background(), []byte("not a workbook"))
	assert.ErrorIs(t, err, errors.ErrDecodeFailed)
}

func TestExcelDecoderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExcelDecoder().Decode(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCSVDecoderUTF8WithBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("교과목명,학점,등급\n자료구조,3,A+\n짧은,1\n")...)

	grid, err := NewCSVDecoder().Decode(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, Grid{
		{"교과목명", "학점", "등급"},
		{"자료구조", "3", "A+"},
		{"짧은", "1"},
	}, grid)
}

func TestCSVDecoderEUCKR(t *testing.T) {
	encoded, err := korean.EUCKR.NewEncoder().String("교과목명,학점,등급\n운영체제,3,B0\n")
	require.NoError(t, err)

	grid, err := NewCSVDecoder().Decode(context.Background(), []byte(encoded))
	require.NoError(t, err)
	require.Len(t, grid, 2)
	assert.Equal(t, []string{"운영체제", "3", "B0"}, grid[1])
}

func TestFileStrategyParsesWorkbook(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"교과목명", "학점", "등급", "이수구분", "평가방식"},
		{"자료구조", 3, "A+", "전공필수", "상대평가"},
		{"채플", 0, "", "교양", "P/NP"},
		{"철학", 2, "B0", "교양", "상대평가"},
	})

	result, err := NewFileStrategy().Parse(context.Background(), "transcript.XLSX", data)
	require.NoError(t, err)
	require.Len(t, result.Courses, 3)
	assert.Equal(t, "P", result.Courses[1].Grade)
	assert.True(t, result.Courses[0].IsMajor)
	assert.False(t, result.Courses[2].IsMajor)
}

func TestFileStrategyRejectsUnknownExtension(t *testing.T) {
	_, err := NewFileStrategy().Parse(context.Background(), "transcript.pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, errors.ErrUnsupportedFormat)
}

func TestFileStrategyReturnsSkipsWithNoValidCourses(t *testing.T) {
	data := []byte("교과목명,학점,등급\n자료구조,3,Q\n")

	result, err := NewFileStrategy().Parse(context.Background(), "t.csv", data)
	assert.ErrorIs(t, err, errors.ErrNoValidCourses)
	require.NotNil(t, result)
	assert.Len(t, result.Skipped, 1)
}
