package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all file locations inside the data repository workspace.
// This is the single source of truth for paths in both pipelines.
type Paths struct {
	Workspace string
	DataDir   string
	LogsDir   string

	// ESTBAN municipal outputs
	EstbanDir string
	EstbanCSV string

	// Cooperados outputs and working directories
	CooperadosDir      string
	CooperadosCSV      string
	CooperadosRawDir   string
	CooperadosCacheDir string

	// Repository-level files maintained by the pipelines
	ReadmeFile    string
	GitignoreFile string
}

// ResolveWorkspace picks the data repository root. An explicit value (from
// config or flag) wins, then GITHUB_WORKSPACE for Actions runs, then the
// executable's directory for local runs.
func ResolveWorkspace(explicit string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", fmt.Errorf("resolve workspace %s: %w", explicit, err)
		}
		return abs, nil
	}

	if ws := os.Getenv(WorkspaceEnv); ws != "" {
		return ws, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	// Resolve symlinks so the workspace ends up next to the real binary.
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// NewPaths lays out the workspace. Directory structure:
//
//	workspace/
//	  ├── README.md
//	  ├── dados/
//	  │   └── bcb/
//	  │       ├── estban/       (consolidated strategic CSV)
//	  │       └── cooperados/   (membership CSV, .gitignore, _brutos/, _temp/)
//	  └── logs/
func NewPaths(workspace string) *Paths {
	dataDir := filepath.Join(workspace, "dados", "bcb")
	estbanDir := filepath.Join(dataDir, "estban")
	cooperadosDir := filepath.Join(dataDir, "cooperados")

	return &Paths{
		Workspace: workspace,
		DataDir:   dataDir,
		LogsDir:   filepath.Join(workspace, "logs"),

		EstbanDir: estbanDir,
		EstbanCSV: filepath.Join(estbanDir, EstbanCSVName),

		CooperadosDir:      cooperadosDir,
		CooperadosCSV:      filepath.Join(cooperadosDir, MembershipCSVName),
		CooperadosRawDir:   filepath.Join(cooperadosDir, "_brutos"),
		CooperadosCacheDir: filepath.Join(cooperadosDir, "_temp"),

		ReadmeFile:    filepath.Join(workspace, "README.md"),
		GitignoreFile: filepath.Join(cooperadosDir, ".gitignore"),
	}
}

// EnsureDirectories creates the base directories. The cooperados working
// directories (_brutos, _temp) are created by that pipeline's download
// step, not here.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.DataDir,
		p.EstbanDir,
		p.CooperadosDir,
		p.LogsDir,
	}

	logger := slog.Default()
	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		if logger != nil {
			logger.Debug("Ensured directory exists",
				slog.String("directory", dir))
		}
	}
	return nil
}

// RawExtract returns the per-period raw CSV path under _brutos.
func (p *Paths) RawExtract(periodKey string) string {
	return filepath.Join(p.CooperadosRawDir, periodKey+".csv")
}

// ArchiveCache returns the per-period downloaded archive path under _temp.
// Downloads are cached there so re-runs skip completed periods.
func (p *Paths) ArchiveCache(periodKey string) string {
	return filepath.Join(p.CooperadosCacheDir, periodKey+".zip")
}

// LogFile returns the path of a named log file under logs/.
func (p *Paths) LogFile(name string) string {
	return filepath.Join(p.LogsDir, name)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
