package transcript

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/ghzx55/graderevive/pkg/errors"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// Decoder turns raw file bytes into the first sheet's grid.
type Decoder interface {
	Decode(ctx context.Context, data []byte) (Grid, error)
}

type ExcelDecoder struct{}

func NewExcelDecoder() *ExcelDecoder {
	return &ExcelDecoder{}
}

func (d *ExcelDecoder) Decode(ctx context.Context, data []byte) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecodeFailed, err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", errors.ErrDecodeFailed)
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecodeFailed, err)
	}

	return Grid(rows), nil
}

// CSVDecoder reads comma-separated exports. Files that are not valid UTF-8
// are read as EUC-KR, the default of Korean Excel installs.
type CSVDecoder struct{}

func NewCSVDecoder() *CSVDecoder {
	return &CSVDecoder{}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func (d *CSVDecoder) Decode(ctx context.Context, data []byte) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var src io.Reader = bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))
	if !utf8.Valid(data) {
		src = transform.NewReader(bytes.NewReader(data), korean.EUCKR.NewDecoder())
	}

	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrDecodeFailed, err)
	}

	return Grid(records), nil
}
