package exporter

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewCSVWriter()

	err := writer.WriteCSV(path, WriteOptions{
		Headers: []string{"CNPJ", "Total de Cooperados", "Periodo"},
		Records: [][]string{
			{"00001234", "1500", "2024-03-01"},
			{"00005678", "200", "2024-03-01"},
		},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.False(t, strings.HasPrefix(string(content), "\xEF\xBB\xBF"), "no UTF-8 BOM")
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "CNPJ;Total de Cooperados;Periodo", lines[0], "semicolon separated")
	assert.Equal(t, "00001234;1500;2024-03-01", lines[1])
}

func TestWriteCSVCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dados", "bcb", "estban", "out.csv")

	err := NewCSVWriter().WriteCSV(path, WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestStreamWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.csv")

	stream, err := NewCSVWriter().CreateStreamWriter(path, []string{"A", "B"})
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
	require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
	require.NoError(t, stream.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A;B\n1;2\n3;4\n", string(content))
}

func TestWriteWithGzipFallbackUnderLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.csv")

	result, err := NewCSVWriter().WriteWithGzipFallback(path, WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	}, 90)
	require.NoError(t, err)

	assert.Equal(t, path, result.Path, "small files stay plain")
	assert.False(t, result.Gzipped)
	assert.Greater(t, result.PlainMB, 0.0)

	_, err = os.Stat(path + ".gz")
	assert.True(t, os.IsNotExist(err), "no compressed sibling for small files")
}

func TestWriteWithGzipFallbackOverLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")

	// ~1.2MB of repetitive rows compresses far below the 1MB limit.
	records := make([][]string, 0, 30000)
	for i := 0; i < 30000; i++ {
		records = append(records, []string{
			fmt.Sprintf("%08d", i), "SAO PAULO", "1234567.89", "0.00", "42.50",
		})
	}

	result, err := NewCSVWriter().WriteWithGzipFallback(path, WriteOptions{
		Headers: []string{"CNPJ", "MUNICIPIO", "A", "B", "C"},
		Records: records,
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, path+".gz", result.Path, "artifact switches to the compressed copy")
	assert.True(t, result.Gzipped)
	assert.Greater(t, result.PlainMB, 1.0, "plain size is measured before compression")

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "oversized plain CSV is removed")

	// The compressed copy must round-trip to the same CSV content.
	f, err := os.Open(result.Path)
	require.NoError(t, err)
	defer f.Close()
	gz, err := gzip.NewReader(f)
	require.NoError(t, err)
	content, err := io.ReadAll(gz)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(content), "CNPJ;MUNICIPIO;A;B;C\n"))
	assert.Contains(t, string(content), "00000000;SAO PAULO;1234567.89;0.00;42.50")
}
