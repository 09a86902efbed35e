// Package config loads and validates worklog's configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// ResumePolicy decides which state the ledger returns to when activity
// resumes after an auto-idle transition.
type ResumePolicy string

const (
	// ResumePrevious reopens the kind of period that was interrupted,
	// so an idle stretch during a break resumes the break.
	ResumePrevious ResumePolicy = "previous"
	// ResumeActive always reopens an active period, treating any input
	// as a return to work.
	ResumeActive ResumePolicy = "active"
)

type (
	// Config holds all configuration settings.
	Config struct {
		Tracking TrackingConfig
		Backup   BackupConfig
		Notify   NotifyConfig
		System   SystemConfig
	}

	// TrackingConfig holds idle-detection and session settings.
	TrackingConfig struct {
		IdleThreshold time.Duration
		PollInterval  time.Duration
		ResumePolicy  ResumePolicy
		DefaultSphere string
	}

	// BackupConfig holds auto-backup settings.
	BackupConfig struct {
		Interval time.Duration
	}

	// NotifyConfig holds desktop notification settings.
	NotifyConfig struct {
		Enabled bool
	}

	// SystemConfig holds system-related settings.
	SystemConfig struct {
		ConfigPath string
		DBPath     string
		LogLevel   string
		SessionCmd string
	}

	// Option is a function that modifies Config.
	Option func(*Config) error
)

var (
	configDir      = "worklog"
	configFileName = "config.yml"
	dbFileName     = "worklog.db"
	logFileName    = "worklog.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func LogFilePath() string {
	return logFilePath
}

func ConfigFilePath() string {
	return configFilePath
}

// InitializePaths resolves the configuration, database, and log file
// locations through XDG. The WORKLOG_ENV variable switches to suffixed
// file names so tests and development never touch real data.
func InitializePaths() error {
	env := strings.TrimSpace(os.Getenv("WORKLOG_ENV"))
	if env != "" {
		configFileName = fmt.Sprintf("config_%s.yml", env)
		dbFileName = fmt.Sprintf("worklog_%s.db", env)
		logFileName = fmt.Sprintf("worklog_%s.log", env)
	}

	relPath := filepath.Join(configDir, configFileName)

	var err error

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return fmt.Errorf("resolving config path: %w", err)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		return fmt.Errorf("resolving data path: %w", err)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)
	logFilePath = filepath.Join(dataDir, "log", logFileName)

	return nil
}

// New creates a new Config with default values and applies options.
func New(opts ...Option) (*Config, error) {
	cfg := &Config{
		Tracking: TrackingConfig{
			IdleThreshold: 5 * time.Minute,
			PollInterval:  10 * time.Second,
			ResumePolicy:  ResumePrevious,
		},
		Backup: BackupConfig{
			Interval: time.Minute,
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
		System: SystemConfig{
			ConfigPath: configFilePath,
			DBPath:     dbFilePath,
			LogLevel:   "info",
		},
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errConfigOption.Wrap(err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return cfg, nil
}

// Validate performs validation checks on the Config struct and its
// fields.
func (c *Config) Validate() error {
	if c.Tracking.IdleThreshold < minIdleThreshold {
		return errIdleThresholdTooShort.Fmt(
			c.Tracking.IdleThreshold,
			minIdleThreshold,
		)
	}

	if c.Tracking.PollInterval <= 0 {
		return errInvalidPollInterval.Fmt(c.Tracking.PollInterval)
	}

	if c.Tracking.PollInterval > c.Tracking.IdleThreshold {
		return errPollExceedsThreshold.Fmt(
			c.Tracking.PollInterval,
			c.Tracking.IdleThreshold,
		)
	}

	switch c.Tracking.ResumePolicy {
	case ResumePrevious, ResumeActive:
	default:
		return errInvalidResumePolicy.Fmt(
			ResumePrevious,
			ResumeActive,
			c.Tracking.ResumePolicy,
		)
	}

	if c.Backup.Interval <= 0 {
		return errInvalidBackupInterval.Fmt(c.Backup.Interval)
	}

	return nil
}
