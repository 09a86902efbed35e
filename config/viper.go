package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// viperKeys defines the mapping between config keys and their Viper
// counterparts.
const (
	keyIdleThreshold  = "tracking.idle_threshold"
	keyPollInterval   = "tracking.poll_interval"
	keyResumePolicy   = "tracking.resume_policy"
	keyDefaultSphere  = "tracking.default_sphere"
	keyBackupInterval = "backup.interval"
	keyNotifyEnabled  = "notifications.enabled"
	keyLogLevel       = "system.log_level"
	keySessionCmd     = "system.cmd"
)

// WithViperConfig returns an Option that loads configuration from the
// given file, writing a default config on first run.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setViperDefaults(v)

		err := v.ReadInConfig()
		if err == nil {
			return loadViperConfig(v, c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("reading config file failed: %w", err)
		}

		if err := v.WriteConfig(); err != nil {
			return fmt.Errorf("writing default config failed: %w", err)
		}

		return loadViperConfig(v, c)
	}
}

func setViperDefaults(v *viper.Viper) {
	v.SetDefault(keyIdleThreshold, "5m")
	v.SetDefault(keyPollInterval, "10s")
	v.SetDefault(keyResumePolicy, string(ResumePrevious))
	v.SetDefault(keyDefaultSphere, "")
	v.SetDefault(keyBackupInterval, "60s")
	v.SetDefault(keyNotifyEnabled, true)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keySessionCmd, "")
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	idle, err := parseDuration(v.GetString(keyIdleThreshold))
	if err != nil {
		return err
	}

	poll, err := parseDuration(v.GetString(keyPollInterval))
	if err != nil {
		return err
	}

	backup, err := parseDuration(v.GetString(keyBackupInterval))
	if err != nil {
		return err
	}

	c.Tracking.IdleThreshold = idle
	c.Tracking.PollInterval = poll
	c.Tracking.ResumePolicy = ResumePolicy(v.GetString(keyResumePolicy))
	c.Tracking.DefaultSphere = v.GetString(keyDefaultSphere)
	c.Backup.Interval = backup
	c.Notify.Enabled = v.GetBool(keyNotifyEnabled)
	c.System.LogLevel = v.GetString(keyLogLevel)
	c.System.SessionCmd = v.GetString(keySessionCmd)
	c.System.ConfigPath = configPath(v)

	return nil
}

func configPath(v *viper.Viper) string {
	if f := v.ConfigFileUsed(); f != "" {
		return f
	}

	return configFilePath
}

// parseDuration accepts both duration strings and bare minute values.
func parseDuration(s string) (time.Duration, error) {
	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	mins, err := time.ParseDuration(s + "m")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return mins, nil
}
