package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"growth-hub/models"
)

var csvColumns = []string{
	models.KeyPlatform,
	models.KeyQuery,
	models.KeyTitle,
	models.KeyPrice,
	models.KeyRating,
	models.KeyReviewsCount,
	models.KeyEngagementRate,
	models.KeyCompetitionLevel,
	models.KeyURL,
}

// CSVWriter writes raw collector output to a CSV file, one row per listing.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	now    func() time.Time
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	header := append(append([]string{}, csvColumns...), "collected_at")
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, now: time.Now}, nil
}

// WriteRaw appends one row per listing. Missing fields become empty cells.
func (c *CSVWriter) WriteRaw(listings []models.RawListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	stamp := c.now().Format(time.RFC3339)
	for _, l := range listings {
		row := make([]string, 0, len(csvColumns)+1)
		for _, key := range csvColumns {
			row = append(row, cell(l[key]))
		}
		row = append(row, stamp)
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.file.Close()
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
