package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oklog/ulid/v2"
)

// DefaultPreviewRows is how many rows a Detection previews.
const DefaultPreviewRows = 5

// Options configures Inspect.
type Options struct {
	// PreviewRows caps the preview; 0 means DefaultPreviewRows.
	PreviewRows int
	// Delimiter overrides the field separator; 0 means ','.
	Delimiter rune
}

// Detection is the advisory result of inspecting one upload. Nothing here is
// merged into client data.
type Detection struct {
	ID       string              `json:"id"`
	FileName string              `json:"fileName"`
	FileSize int64               `json:"fileSize"`
	Headers  []string            `json:"headers"`
	Platform Platform            `json:"platform"`
	DataType DataType            `json:"dataType"`
	RowCount int                 `json:"rowCount"`
	Preview  []map[string]string `json:"preview"`
	Warnings []string            `json:"warnings"`
}

// Inspect reads a CSV upload with a header row, classifies it and previews
// the first rows. Blank lines are skipped; malformed or ragged rows become
// warnings. Only an unreadable header row is an error.
func Inspect(fileName string, r io.Reader, opts Options) (*Detection, error) {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}

	counter := &countingReader{r: r}
	reader := csv.NewReader(counter)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: file is empty", fileName)
		}
		return nil, fmt.Errorf("failed to read header row of %s: %w", fileName, err)
	}
	headers = trimBOM(headers)

	d := &Detection{
		ID:       ulid.Make().String(),
		FileName: fileName,
		Headers:  headers,
		Platform: DetectPlatform(headers),
		DataType: DetectDataType(headers),
		Preview:  []map[string]string{},
		Warnings: []string{},
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				d.Warnings = append(d.Warnings, parseErr.Error())
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", fileName, err)
		}
		if blank(record) {
			continue
		}

		d.RowCount++
		if len(record) != len(headers) {
			line, _ := reader.FieldPos(0)
			d.Warnings = append(d.Warnings, fmt.Sprintf("line %d: expected %d fields, got %d", line, len(headers), len(record)))
		}
		if len(d.Preview) < opts.PreviewRows {
			d.Preview = append(d.Preview, rowMap(headers, record))
		}
	}

	d.FileSize = counter.n
	return d, nil
}

func trimBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], "\ufeff")
	}
	return headers
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func rowMap(headers, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(record) {
			row[h] = record[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// Batch summarises several inspected uploads.
type Batch struct {
	Files     int `json:"files"`
	TotalRows int `json:"totalRows"`
	Warnings  int `json:"warnings"`
}

// Summarize totals a set of detections.
func Summarize(detections []*Detection) Batch {
	b := Batch{Files: len(detections)}
	for _, d := range detections {
		b.TotalRows += d.RowCount
		b.Warnings += len(d.Warnings)
	}
	return b
}
