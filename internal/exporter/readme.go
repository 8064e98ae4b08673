package exporter

import (
	_ "embed"
	"fmt"
	"os"
	"text/template"
	"time"
)

//go:embed readme.tmpl
var readmeTemplate string

// ReadmeData fills the repository README. Each pipeline passes live
// figures for its own dataset and the configured window for the other, so
// either binary can regenerate the whole document.
type ReadmeData struct {
	RepoSlug string

	EstbanFile         string
	EstbanFrom         string
	EstbanTo           string
	EstbanPeriodsOK    int
	EstbanPeriodsTotal int
	EstbanSizeMB       float64

	CooperadosFrom   string
	CooperadosTo     string
	CooperadosMonths int

	GeneratedAt string
}

// WriteReadme renders the repository README to path. GeneratedAt defaults
// to the current UTC time in the DD/MM/YYYY HH:MM shape the document uses.
func WriteReadme(path string, data ReadmeData) error {
	if data.GeneratedAt == "" {
		data.GeneratedAt = time.Now().UTC().Format("02/01/2006 15:04")
	}

	tmpl, err := template.New("readme").Parse(readmeTemplate)
	if err != nil {
		return fmt.Errorf("parse readme template: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create readme %s: %w", path, err)
	}

	if err := tmpl.Execute(file, data); err != nil {
		file.Close()
		return fmt.Errorf("render readme: %w", err)
	}
	return file.Close()
}
