package fetch

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"

	apierrors "bcbdata/internal/errors"
)

// TableKind tells the decoder how an extracted payload is serialized.
type TableKind int

const (
	TableCSV TableKind = iota
	TableXLSX
)

var zipMagic = []byte("PK")

// ExtractTable unwraps a downloaded payload into raw table bytes. Zipped
// payloads are opened and the best entry picked: the first .csv, else the
// first .xlsx, else the first regular file. Payloads that are not
// archives pass through unchanged. sourceName is the URL or file name the
// payload came from; its extension disambiguates xlsx files, which carry
// the same magic bytes as plain zip archives.
func ExtractTable(payload []byte, sourceName string) ([]byte, TableKind, error) {
	lower := strings.ToLower(sourceName)
	if strings.HasSuffix(lower, ".xlsx") {
		return payload, TableXLSX, nil
	}
	if !bytes.HasPrefix(payload, zipMagic) && !strings.HasSuffix(lower, ".zip") {
		return payload, TableCSV, nil
	}

	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, TableCSV, fmt.Errorf("open archive %s: %w", sourceName, err)
	}

	entry := pickEntry(zr.File)
	if entry == nil {
		return nil, TableCSV, fmt.Errorf("%s: %w", sourceName, apierrors.ErrEmptyArchive)
	}

	data, err := readEntry(entry)
	if err != nil {
		return nil, TableCSV, err
	}
	kind := TableCSV
	if strings.HasSuffix(strings.ToLower(entry.Name), ".xlsx") {
		kind = TableXLSX
	}
	return data, kind, nil
}

// pickEntry prefers .csv entries, then .xlsx, then any regular file, each
// in archive order.
func pickEntry(files []*zip.File) *zip.File {
	var xlsx, regular *zip.File
	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		lower := strings.ToLower(f.Name)
		switch {
		case strings.HasSuffix(lower, ".csv"):
			return f
		case strings.HasSuffix(lower, ".xlsx") && xlsx == nil:
			xlsx = f
		case regular == nil:
			regular = f
		}
	}
	if xlsx != nil {
		return xlsx
	}
	return regular
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPayloadBytes))
	if err != nil {
		return nil, fmt.Errorf("read archive entry %s: %w", f.Name, err)
	}
	return data, nil
}
