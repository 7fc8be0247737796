package transcript

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ghzx55/graderevive/pkg/errors"
)

type ParsingStrategy interface {
	Parse(ctx context.Context, filename string, data []byte) (*Result, error)
}

// FileStrategy picks a decoder by file extension, then parses and validates
// the decoded grid.
type FileStrategy struct {
	decoders  map[string]Decoder
	parser    *Parser
	validator *Validator
}

func NewFileStrategy() ParsingStrategy {
	excel := NewExcelDecoder()
	return &FileStrategy{
		decoders: map[string]Decoder{
			".xlsx": excel,
			".xlsm": excel,
			".csv":  NewCSVDecoder(),
		},
		parser:    NewParser(),
		validator: NewValidator(),
	}
}

// SupportedExtensions lists the accepted upload extensions.
func SupportedExtensions() []string {
	return []string{".xlsx", ".xlsm", ".csv"}
}

func (s *FileStrategy) Parse(ctx context.Context, filename string, data []byte) (*Result, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	decoder, ok := s.decoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, ext)
	}

	grid, err := decoder.Decode(ctx, data)
	if err != nil {
		return nil, err
	}

	result, err := s.parser.Parse(grid)
	if err != nil {
		return result, err
	}

	if err := s.validator.Validate(ctx, result.Courses); err != nil {
		return nil, err
	}

	return result, nil
}
