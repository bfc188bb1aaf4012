package cmd

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohmanhakim/blocklist-tracker/internal/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	sourceURL    string
	workDir      string
	probeTimeout time.Duration
	fetchTimeout time.Duration
	userAgent    string
	noCommit     bool
	logLevel     string
	logFormat    string
	logFile      string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "blocklist-tracker",
	Short: "Report records newly added to a remote blocklist.",
	Long: `blocklist-tracker checks a remote text blocklist for changes using its
Last-Modified header. When the list changed it downloads it, compares it with
the previous snapshot and writes a report of the newly added records next to
the refreshed snapshot and timestamp, then commits those files to git.

One invocation performs one check; schedule it externally (cron, CI).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err)
			return err
		}

		_, err = RunCheck(cmd.Context(), cfg, cmd.ErrOrStderr())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err)
			return err
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, JSON or YAML (e.g., /etc/blocklist-tracker/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&sourceURL, "url", "", "blocklist URL (default "+config.DefaultSourceURL+")")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", "", "directory holding the report, cache and timestamp files (default current directory)")
	rootCmd.PersistentFlags().DurationVar(&probeTimeout, "probe-timeout", 0, "timeout for the HEAD request (default 30s)")
	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "fetch-timeout", 0, "timeout for the download (default 1m0s)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().BoolVar(&noCommit, "no-commit", false, "write the files without committing them")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "console, text or json (default console)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotated file")
}

// InitConfigWithError reads in config file if set, otherwise builds the
// config from defaults and CLI flags, returning any errors.
// This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	if cfgFile != "" {
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Start with default config and apply overrides using method chaining
	configBuilder := config.WithDefault()

	if sourceURL != "" {
		parsedURL, err := url.Parse(sourceURL)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: error parsing url %s: %s", config.ErrInvalidConfig, sourceURL, err.Error())
		}
		configBuilder = configBuilder.WithSourceURL(*parsedURL)
	}

	if workDir != "" {
		configBuilder = configBuilder.WithWorkDir(workDir)
	}

	if probeTimeout > 0 {
		configBuilder = configBuilder.WithProbeTimeout(probeTimeout)
	}

	if fetchTimeout > 0 {
		configBuilder = configBuilder.WithFetchTimeout(fetchTimeout)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if noCommit {
		configBuilder = configBuilder.WithCommit(false)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if logFile != "" {
		configBuilder = configBuilder.WithLogFile(logFile)
	}

	return configBuilder.Build()
}

// ExecuteForTest runs the root command with args, writing to out and errOut.
func ExecuteForTest(args []string, out, errOut io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	return rootCmd.ExecuteContext(context.Background())
}

func ResetFlags() {
	cfgFile = ""
	sourceURL = ""
	workDir = ""
	probeTimeout = 0
	fetchTimeout = 0
	userAgent = ""
	noCommit = false
	logLevel = ""
	logFormat = ""
	logFile = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetSourceURLForTest(u string) {
	sourceURL = u
}

func SetWorkDirForTest(dir string) {
	workDir = dir
}

func SetProbeTimeoutForTest(t time.Duration) {
	probeTimeout = t
}

func SetFetchTimeoutForTest(t time.Duration) {
	fetchTimeout = t
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetNoCommitForTest(disable bool) {
	noCommit = disable
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetLogFormatForTest(format string) {
	logFormat = format
}

func SetLogFileForTest(path string) {
	logFile = path
}
