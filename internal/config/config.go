package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/build"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSourceURL        = "https://phishing.army/download/phishing_army_blocklist_extended.txt"
	DefaultLastModifiedFile = "last_modified.txt"
	DefaultCacheFile        = "phishing_army_cache.txt"
	DefaultReportFile       = "phishing_army_NEW_last_3_hours.txt"
	DefaultReportTitle      = "Phishing Army Extended Blocklist"
	DefaultCommitMessage    = "Update new phishing records"
	DefaultProbeTimeout     = 30 * time.Second
	DefaultFetchTimeout     = 60 * time.Second
)

type Config struct {
	//===============
	// Source
	//===============
	// Blocklist resource that is probed and downloaded
	sourceURL url.URL
	// Maximum time of the HEAD probe
	probeTimeout time.Duration
	// Maximum time of the full download
	fetchTimeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string

	//===============
	// Output
	//===============
	// Directory holding the state, cache and report files
	workDir          string
	lastModifiedFile string
	cacheFile        string
	reportFile       string
	// Name of the blocklist shown in the report header
	reportTitle string

	//===============
	// Version control
	//===============
	// Whether the generated files are committed after each run
	commit bool
	// Prefix of the commit message; the run time is appended
	commitMessage     string
	commitAuthorName  string
	commitAuthorEmail string

	//===============
	// Logging
	//===============
	logLevel  string
	logFormat string
	// Optional rotated log file, in addition to stderr
	logFile string
}

type configDTO struct {
	SourceURL         string `json:"sourceUrl,omitempty" yaml:"source_url,omitempty"`
	ProbeTimeout      string `json:"probeTimeout,omitempty" yaml:"probe_timeout,omitempty"`
	FetchTimeout      string `json:"fetchTimeout,omitempty" yaml:"fetch_timeout,omitempty"`
	UserAgent         string `json:"userAgent,omitempty" yaml:"user_agent,omitempty"`
	WorkDir           string `json:"workDir,omitempty" yaml:"work_dir,omitempty"`
	LastModifiedFile  string `json:"lastModifiedFile,omitempty" yaml:"last_modified_file,omitempty"`
	CacheFile         string `json:"cacheFile,omitempty" yaml:"cache_file,omitempty"`
	ReportFile        string `json:"reportFile,omitempty" yaml:"report_file,omitempty"`
	ReportTitle       string `json:"reportTitle,omitempty" yaml:"report_title,omitempty"`
	Commit            *bool  `json:"commit,omitempty" yaml:"commit,omitempty"`
	CommitMessage     string `json:"commitMessage,omitempty" yaml:"commit_message,omitempty"`
	CommitAuthorName  string `json:"commitAuthorName,omitempty" yaml:"commit_author_name,omitempty"`
	CommitAuthorEmail string `json:"commitAuthorEmail,omitempty" yaml:"commit_author_email,omitempty"`
	LogLevel          string `json:"logLevel,omitempty" yaml:"log_level,omitempty"`
	LogFormat         string `json:"logFormat,omitempty" yaml:"log_format,omitempty"`
	LogFile           string `json:"logFile,omitempty" yaml:"log_file,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	// Start with default config
	builder := WithDefault()

	// Only override if non-zero value is provided
	if dto.SourceURL != "" {
		u, err := url.Parse(dto.SourceURL)
		if err != nil {
			return Config{}, fmt.Errorf("%w: sourceUrl: %s", ErrInvalidConfig, err.Error())
		}
		builder = builder.WithSourceURL(*u)
	}
	if dto.ProbeTimeout != "" {
		d, err := time.ParseDuration(dto.ProbeTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("%w: probeTimeout: %s", ErrInvalidConfig, err.Error())
		}
		builder = builder.WithProbeTimeout(d)
	}
	if dto.FetchTimeout != "" {
		d, err := time.ParseDuration(dto.FetchTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("%w: fetchTimeout: %s", ErrInvalidConfig, err.Error())
		}
		builder = builder.WithFetchTimeout(d)
	}
	if dto.UserAgent != "" {
		builder = builder.WithUserAgent(dto.UserAgent)
	}
	if dto.WorkDir != "" {
		builder = builder.WithWorkDir(dto.WorkDir)
	}
	if dto.LastModifiedFile != "" {
		builder = builder.WithLastModifiedFile(dto.LastModifiedFile)
	}
	if dto.CacheFile != "" {
		builder = builder.WithCacheFile(dto.CacheFile)
	}
	if dto.ReportFile != "" {
		builder = builder.WithReportFile(dto.ReportFile)
	}
	if dto.ReportTitle != "" {
		builder = builder.WithReportTitle(dto.ReportTitle)
	}
	// Commit defaults to true, so only an explicit value overrides it
	if dto.Commit != nil {
		builder = builder.WithCommit(*dto.Commit)
	}
	if dto.CommitMessage != "" {
		builder = builder.WithCommitMessage(dto.CommitMessage)
	}
	if dto.CommitAuthorName != "" || dto.CommitAuthorEmail != "" {
		builder = builder.WithCommitAuthor(dto.CommitAuthorName, dto.CommitAuthorEmail)
	}
	if dto.LogLevel != "" {
		builder = builder.WithLogLevel(dto.LogLevel)
	}
	if dto.LogFormat != "" {
		builder = builder.WithLogFormat(dto.LogFormat)
	}
	if dto.LogFile != "" {
		builder = builder.WithLogFile(dto.LogFile)
	}

	return builder.Build()
}

// WithConfigFile loads a JSON or YAML config file, chosen by extension.
// Fields absent from the file keep their default value.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(configContent, &cfgDTO)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(configContent, &cfgDTO)
	default:
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// DefaultUserAgent identifies the tracker and its build version.
func DefaultUserAgent() string {
	return "blocklist-tracker/" + build.Version
}

// WithDefault creates a new Config that reproduces a bare run: the Phishing
// Army extended list, the current directory and committing enabled.
func WithDefault() *Config {
	sourceURL, _ := url.Parse(DefaultSourceURL)
	defaultConfig := Config{
		sourceURL:        *sourceURL,
		probeTimeout:     DefaultProbeTimeout,
		fetchTimeout:     DefaultFetchTimeout,
		userAgent:        DefaultUserAgent(),
		workDir:          ".",
		lastModifiedFile: DefaultLastModifiedFile,
		cacheFile:        DefaultCacheFile,
		reportFile:       DefaultReportFile,
		reportTitle:      DefaultReportTitle,
		commit:           true,
		commitMessage:    DefaultCommitMessage,
		logLevel:         "info",
		logFormat:        "console",
	}
	return &defaultConfig
}

func (c *Config) WithSourceURL(u url.URL) *Config {
	c.sourceURL = u
	return c
}

func (c *Config) WithProbeTimeout(timeout time.Duration) *Config {
	c.probeTimeout = timeout
	return c
}

func (c *Config) WithFetchTimeout(timeout time.Duration) *Config {
	c.fetchTimeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithWorkDir(dir string) *Config {
	c.workDir = dir
	return c
}

func (c *Config) WithLastModifiedFile(name string) *Config {
	c.lastModifiedFile = name
	return c
}

func (c *Config) WithCacheFile(name string) *Config {
	c.cacheFile = name
	return c
}

func (c *Config) WithReportFile(name string) *Config {
	c.reportFile = name
	return c
}

func (c *Config) WithReportTitle(title string) *Config {
	c.reportTitle = title
	return c
}

func (c *Config) WithCommit(commit bool) *Config {
	c.commit = commit
	return c
}

func (c *Config) WithCommitMessage(message string) *Config {
	c.commitMessage = message
	return c
}

func (c *Config) WithCommitAuthor(name, email string) *Config {
	c.commitAuthorName = name
	c.commitAuthorEmail = email
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) WithLogFile(path string) *Config {
	c.logFile = path
	return c
}

func (c *Config) Build() (Config, error) {
	if err := validate(c); err != nil {
		return Config{}, err
	}
	return *c, nil
}

func (c Config) SourceURL() url.URL {
	return c.sourceURL
}

func (c Config) ProbeTimeout() time.Duration {
	return c.probeTimeout
}

func (c Config) FetchTimeout() time.Duration {
	return c.fetchTimeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) WorkDir() string {
	return c.workDir
}

func (c Config) LastModifiedFile() string {
	return c.lastModifiedFile
}

func (c Config) CacheFile() string {
	return c.cacheFile
}

func (c Config) ReportFile() string {
	return c.reportFile
}

func (c Config) ReportTitle() string {
	return c.reportTitle
}

func (c Config) Commit() bool {
	return c.commit
}

func (c Config) CommitMessage() string {
	return c.commitMessage
}

func (c Config) CommitAuthorName() string {
	return c.commitAuthorName
}

func (c Config) CommitAuthorEmail() string {
	return c.commitAuthorEmail
}

func (c Config) LogLevel() string {
	return c.logLevel
}

func (c Config) LogFormat() string {
	return c.logFormat
}

func (c Config) LogFile() string {
	return c.logFile
}
