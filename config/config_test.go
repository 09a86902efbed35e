package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Tracking.IdleThreshold != 5*time.Minute {
		t.Errorf(
			"expected a 5m idle threshold, but got: %v",
			cfg.Tracking.IdleThreshold,
		)
	}

	if cfg.Tracking.PollInterval != 10*time.Second {
		t.Errorf(
			"expected a 10s poll interval, but got: %v",
			cfg.Tracking.PollInterval,
		)
	}

	if cfg.Tracking.ResumePolicy != ResumePrevious {
		t.Errorf(
			"expected the previous resume policy, but got: %s",
			cfg.Tracking.ResumePolicy,
		)
	}

	if cfg.Backup.Interval != time.Minute {
		t.Errorf(
			"expected a 1m backup interval, but got: %v",
			cfg.Backup.Interval,
		)
	}

	if !cfg.Notify.Enabled {
		t.Error("expected notifications to default to enabled")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(_ *Config) {},
		},
		{
			name: "idle threshold below the minimum",
			mutate: func(c *Config) {
				c.Tracking.IdleThreshold = 10 * time.Second
			},
			wantErr: true,
		},
		{
			name: "idle threshold at the minimum",
			mutate: func(c *Config) {
				c.Tracking.IdleThreshold = minIdleThreshold
			},
		},
		{
			name: "zero poll interval",
			mutate: func(c *Config) {
				c.Tracking.PollInterval = 0
			},
			wantErr: true,
		},
		{
			name: "poll interval exceeding the threshold",
			mutate: func(c *Config) {
				c.Tracking.PollInterval = 10 * time.Minute
			},
			wantErr: true,
		},
		{
			name: "unknown resume policy",
			mutate: func(c *Config) {
				c.Tracking.ResumePolicy = "ask"
			},
			wantErr: true,
		},
		{
			name: "zero backup interval",
			mutate: func(c *Config) {
				c.Backup.Interval = 0
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := New()
			if err != nil {
				t.Fatal(err)
			}

			tc.mutate(cfg)

			err = cfg.Validate()

			if tc.wantErr && err == nil {
				t.Error("expected a validation error, but got nil")
			}

			if !tc.wantErr && err != nil {
				t.Errorf("expected no error, but got: %v", err)
			}
		})
	}
}

func TestWithViperConfigWritesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	cfg, err := New(WithViperConfig(path))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = os.Stat(path); err != nil {
		t.Fatalf("expected a default config file to be written: %v", err)
	}

	if cfg.Tracking.IdleThreshold != 5*time.Minute {
		t.Errorf(
			"expected the default idle threshold, but got: %v",
			cfg.Tracking.IdleThreshold,
		)
	}

	if cfg.System.ConfigPath != path {
		t.Errorf("expected config path %s, but got: %s", path, cfg.System.ConfigPath)
	}
}

func TestWithViperConfigReadsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	contents := `tracking:
  idle_threshold: 10m
  poll_interval: 30s
  resume_policy: active
  default_sphere: personal
backup:
  interval: 5m
notifications:
  enabled: false
system:
  log_level: debug
`

	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := New(WithViperConfig(path))
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Tracking.IdleThreshold != 10*time.Minute {
		t.Errorf(
			"expected a 10m idle threshold, but got: %v",
			cfg.Tracking.IdleThreshold,
		)
	}

	if cfg.Tracking.PollInterval != 30*time.Second {
		t.Errorf(
			"expected a 30s poll interval, but got: %v",
			cfg.Tracking.PollInterval,
		)
	}

	if cfg.Tracking.ResumePolicy != ResumeActive {
		t.Errorf(
			"expected the active resume policy, but got: %s",
			cfg.Tracking.ResumePolicy,
		)
	}

	if cfg.Tracking.DefaultSphere != "personal" {
		t.Errorf(
			"expected the personal sphere, but got: %q",
			cfg.Tracking.DefaultSphere,
		)
	}

	if cfg.Backup.Interval != 5*time.Minute {
		t.Errorf(
			"expected a 5m backup interval, but got: %v",
			cfg.Backup.Interval,
		)
	}

	if cfg.Notify.Enabled {
		t.Error("expected notifications to be disabled")
	}

	if cfg.System.LogLevel != "debug" {
		t.Errorf("expected debug log level, but got: %s", cfg.System.LogLevel)
	}
}

func TestWithViperConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	contents := `tracking:
  idle_threshold: 5s
`

	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := New(WithViperConfig(path)); err == nil {
		t.Error("expected a validation error, but got nil")
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "duration string", in: "90s", want: 90 * time.Second},
		{name: "bare minutes", in: "15", want: 15 * time.Minute},
		{name: "garbage", in: "soon", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDuration(tc.in)

			if tc.wantErr {
				if err == nil {
					t.Error("expected an error, but got nil")
				}

				return
			}

			if err != nil {
				t.Fatalf("expected no error, but got: %v", err)
			}

			if got != tc.want {
				t.Errorf("expected %v, but got: %v", tc.want, got)
			}
		})
	}
}
