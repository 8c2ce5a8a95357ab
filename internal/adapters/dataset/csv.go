package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/okian/jobscope/internal/domain/model"
)

const utf8BOM = "\ufeff"

// CSVSource reads a dataset export with a header row. Unknown columns are
// ignored and missing ones leave the field empty.
type CSVSource struct {
	path string
}

var _ Source = (*CSVSource)(nil)

// NewCSVSource creates a source for the file at path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// Name implements Source.
func (s *CSVSource) Name() string { return "csv:" + s.path }

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) ([]model.RawListing, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}
	defer f.Close()
	return ReadCSV(ctx, f)
}

// ReadCSV parses listings from r. Rows are returned in file order.
func ReadCSV(ctx context.Context, r io.Reader) ([]model.RawListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: missing header row", ErrLoadDataset)
		}
		return nil, fmt.Errorf("%w: read header: %w", ErrLoadDataset, err)
	}
	columns := make([]string, len(header))
	known := 0
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)))
		columns[i] = h
		for _, c := range Columns {
			if h == c {
				known++
				break
			}
		}
	}
	if known == 0 {
		return nil, fmt.Errorf("%w: header has none of the dataset columns", ErrLoadDataset)
	}

	var out []model.RawListing
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrLoadDataset, line, err)
		}
		var raw model.RawListing
		for i, v := range record {
			if i < len(columns) {
				set(&raw, columns[i], v)
			}
		}
		out = append(out, raw)
	}
	return out, nil
}

// WriteCSV writes raws with a header row in Columns order.
func WriteCSV(w io.Writer, raws []model.RawListing) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return err
	}
	for i := range raws {
		if err := cw.Write(Values(&raws[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
