package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"bcbdata/pkg/contracts/domain"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// PeriodFile is a per-period extract discovered on disk, named by its
// compact period key (202001.csv, 202002.csv, ...).
type PeriodFile struct {
	Period domain.Period
	FileInfo
}

// FindCSVFiles finds all CSV files in the specified directory
func FindCSVFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".csv") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// FindPeriodFiles finds the per-period files with the given extension in
// dir and returns them in chronological order. Files whose stem is not a
// YYYYMM key are ignored; a missing directory yields an empty result, not
// an error, because a first run has downloaded nothing yet.
func FindPeriodFiles(dir, ext string) ([]PeriodFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []PeriodFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		period, err := domain.ParsePeriodKey(strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		files = append(files, PeriodFile{
			Period: period,
			FileInfo: FileInfo{
				Path:    filepath.Join(dir, name),
				Name:    name,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			},
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Period.Before(files[j].Period)
	})

	return files, nil
}
