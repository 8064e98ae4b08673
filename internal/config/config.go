package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"bcbdata/internal/validation"
)

// Config is the complete configuration of both pipelines.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http" envconfig:"HTTP"`
	Estban     EstbanConfig     `yaml:"estban" envconfig:"ESTBAN"`
	Cooperados CooperadosConfig `yaml:"cooperados" envconfig:"COOPERADOS"`
	Publish    PublishConfig    `yaml:"publish" envconfig:"PUBLISH"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
}

// HTTPConfig tunes the download client shared by both pipelines.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	Retries      int           `yaml:"retries" envconfig:"RETRIES"`
	RetryDelay   time.Duration `yaml:"retry_delay" envconfig:"RETRY_DELAY"`
	RequestPause time.Duration `yaml:"request_pause" envconfig:"REQUEST_PAUSE"`
	UserAgent    string        `yaml:"user_agent" envconfig:"USER_AGENT"`
}

// EstbanConfig configures the ESTBAN municipal pipeline.
type EstbanConfig struct {
	BaseURL     string `yaml:"base_url" envconfig:"BASE_URL"`
	From        string `yaml:"from" envconfig:"FROM" validate:"omitempty,period"`
	To          string `yaml:"to" envconfig:"TO" validate:"omitempty,period"`
	MinBytes    int    `yaml:"min_bytes" envconfig:"MIN_BYTES"`
	FileLimitMB int    `yaml:"file_limit_mb" envconfig:"FILE_LIMIT_MB"`
}

// CooperadosConfig configures the membership pipeline.
type CooperadosConfig struct {
	APIURL         string `yaml:"api_url" envconfig:"API_URL"`
	PatternBaseURL string `yaml:"pattern_base_url" envconfig:"PATTERN_BASE_URL"`
	PatternCutover string `yaml:"pattern_cutover" envconfig:"PATTERN_CUTOVER" validate:"omitempty,period"`
	Referer        string `yaml:"referer" envconfig:"REFERER"`
	From           string `yaml:"from" envconfig:"FROM" validate:"omitempty,period"`
	To             string `yaml:"to" envconfig:"TO" validate:"omitempty,period"`
	MinBytes       int    `yaml:"min_bytes" envconfig:"MIN_BYTES"`
	SkipLines      int    `yaml:"skip_lines" envconfig:"SKIP_LINES"`
}

// PublishConfig configures the git publishing step.
type PublishConfig struct {
	Enabled     bool   `yaml:"enabled" envconfig:"ENABLED"`
	Remote      string `yaml:"remote" envconfig:"REMOTE"`
	Branch      string `yaml:"branch" envconfig:"BRANCH"`
	AuthorName  string `yaml:"author_name" envconfig:"AUTHOR_NAME"`
	AuthorEmail string `yaml:"author_email" envconfig:"AUTHOR_EMAIL"`
	LFSLimitMB  int    `yaml:"lfs_limit_mb" envconfig:"LFS_LIMIT_MB"`
}

// LoggingConfig configures the structured logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig pins the data repository root. Empty means resolve from the
// environment (see ResolveWorkspace).
type PathsConfig struct {
	Workspace string `yaml:"workspace" envconfig:"WORKSPACE"`
}

// Load builds the configuration in three layers: defaults, then the YAML
// file when one exists, then BCB_* environment overrides. file may be
// empty; the file location is then discovered (BCB_CONFIG_FILE, config.yaml
// beside the executable, config.yaml in the working directory).
func Load(file string) (*Config, error) {
	cfg := Default()

	path := configFilePath(file)
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("BCB", cfg); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration, matching the published BCB
// endpoints and collection windows.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      DefaultHTTPTimeout,
			Retries:      DefaultRetries,
			RetryDelay:   DefaultRetryDelay,
			RequestPause: DefaultRequestPause,
			UserAgent:    DefaultUserAgent,
		},
		Estban: EstbanConfig{
			BaseURL:     EstbanBaseURL,
			From:        DefaultEstbanFrom,
			To:          DefaultEstbanTo,
			MinBytes:    EstbanMinBytes,
			FileLimitMB: GitHubFileLimitMB,
		},
		Cooperados: CooperadosConfig{
			APIURL:         MembershipAPIURL,
			PatternBaseURL: MembershipPatternBaseURL,
			PatternCutover: MembershipPatternCutover,
			Referer:        MembershipRefererURL,
			From:           DefaultMembershipFrom,
			To:             DefaultMembershipTo,
			MinBytes:       MembershipMinBytes,
			SkipLines:      MembershipSkipLines,
		},
		Publish: PublishConfig{
			Enabled:     true,
			Remote:      DefaultRemote,
			Branch:      DefaultBranch,
			AuthorName:  DefaultAuthorName,
			AuthorEmail: DefaultAuthorEmail,
			LFSLimitMB:  LFSLimitMB,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: "",
		},
	}
}

// validate normalizes the free-form fields and rejects values the
// pipelines cannot run with.
func (c *Config) validate() error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTP.Timeout)
	}
	if c.HTTP.Retries <= 0 {
		return fmt.Errorf("http retries must be positive, got %d", c.HTTP.Retries)
	}
	if c.HTTP.RetryDelay < 0 || c.HTTP.RequestPause < 0 {
		return fmt.Errorf("http delays must not be negative")
	}

	if err := validation.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%s: %q is not a valid YYYY-MM period", fe.Namespace(), fe.Value())
		}
		return err
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
		c.Logging.Format = strings.ToLower(c.Logging.Format)
	default:
		c.Logging.Format = DefaultLogFormat
	}
	switch strings.ToLower(c.Logging.Output) {
	case "stdout", "file", "both":
		c.Logging.Output = strings.ToLower(c.Logging.Output)
	default:
		c.Logging.Output = DefaultLogOutput
	}
	return nil
}

// configFilePath picks the config file to load. An explicit path wins and
// must exist later at read time; discovery returns "" when no file is
// found, which is the common case.
func configFilePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fromEnv := os.Getenv(ConfigFileEnv); fromEnv != "" {
		return fromEnv
	}
	if exe, err := os.Executable(); err == nil {
		beside := filepath.Join(filepath.Dir(exe), "config.yaml")
		if FileExists(beside) {
			return beside
		}
	}
	if FileExists("config.yaml") {
		return "config.yaml"
	}
	return ""
}
