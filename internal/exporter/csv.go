package exporter

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter provides CSV export functionality for the published datasets.
// Output is UTF-8 without BOM and semicolon-separated, matching what the
// BI loaders consume.
type CSVWriter struct {
	separator rune
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{separator: ';'}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteResult reports what a gzip-fallback write produced.
type WriteResult struct {
	// Path is the artifact to reference in the documentation: the plain
	// CSV, or the .gz sibling when the plain file was replaced.
	Path string

	// PlainMB is the size of the uncompressed CSV, measured before any
	// compression.
	PlainMB float64

	// Gzipped reports whether a compressed sibling was written.
	Gzipped bool
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	slog.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	stream, err := w.CreateStreamWriter(filePath, options.Headers)
	if err != nil {
		return err
	}

	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return stream.Close()
}

// WriteWithGzipFallback writes the dataset and, when the plain file exceeds
// limitMB, writes a gzip sibling next to it. The plain CSV is removed once
// the compressed copy fits under the limit; otherwise both stay on disk and
// the caller is warned through the log.
func (w *CSVWriter) WriteWithGzipFallback(filePath string, options WriteOptions, limitMB int) (*WriteResult, error) {
	if err := w.WriteCSV(filePath, options); err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filePath, err)
	}
	plainMB := float64(info.Size()) / (1024 * 1024)

	result := &WriteResult{Path: filePath, PlainMB: plainMB}
	if limitMB <= 0 || plainMB <= float64(limitMB) {
		return result, nil
	}

	gzPath := filePath + ".gz"
	slog.Warn("CSV exceeds the repository file limit, compressing",
		slog.String("file_path", filePath),
		slog.Float64("size_mb", plainMB),
		slog.Int("limit_mb", limitMB))

	if err := gzipFile(filePath, gzPath); err != nil {
		return nil, fmt.Errorf("compress %s: %w", filePath, err)
	}
	result.Gzipped = true

	gzInfo, err := os.Stat(gzPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", gzPath, err)
	}
	gzMB := float64(gzInfo.Size()) / (1024 * 1024)

	if gzMB < float64(limitMB) {
		if err := os.Remove(filePath); err != nil {
			return nil, fmt.Errorf("remove oversized csv %s: %w", filePath, err)
		}
		result.Path = gzPath
		slog.Info("Replaced oversized CSV with compressed copy",
			slog.String("file_path", gzPath),
			slog.Float64("size_mb", gzMB))
		return result, nil
	}

	slog.Warn("Compressed copy still exceeds the limit, keeping both files",
		slog.String("file_path", gzPath),
		slog.Float64("size_mb", gzMB))
	return result, nil
}

// gzipFile compresses src into dst with best compression.
func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	gz, err := gzip.NewWriterLevel(out, gzip.BestCompression)
	if err != nil {
		out.Close()
		return err
	}

	if _, err := io.Copy(gz, in); err != nil {
		gz.Close()
		out.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates a new streaming CSV writer
func (w *CSVWriter) CreateStreamWriter(filePath string, headers []string) (*StreamWriter, error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	writer := csv.NewWriter(file)
	writer.Comma = w.separator

	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{
		file:   file,
		writer: writer,
	}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
