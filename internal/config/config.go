package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Analysis modes. Computed scores real telemetry; fixed-example renders
// an illustrative baseline snapshot without needing any plugin traffic.
const (
	ModeComputed     = "computed"
	ModeFixedExample = "fixed-example"
)

type Config struct {
	Receiver ReceiverConfig
	Analysis AnalysisConfig
	ROI      ROIConfig
	Alerts   AlertsConfig
	Display  DisplayConfig
	Storage  StorageConfig
}

type ReceiverConfig struct {
	GRPCPort int    `toml:"grpc_port"`
	HTTPPort int    `toml:"http_port"`
	Bind     string `toml:"bind"`
}

type AnalysisConfig struct {
	Mode                    string  `toml:"mode"`
	SnapshotIntervalSeconds int     `toml:"snapshot_interval_seconds"`
	DefaultReworkRate       float64 `toml:"default_rework_rate"`
	BaselineChurnRate       float64 `toml:"baseline_churn_rate"`
}

type ROIConfig struct {
	AnnualSalaryUSD       float64 `toml:"annual_salary_usd"`
	BenefitsMultiplier    float64 `toml:"benefits_multiplier"`
	HoursPerYear          float64 `toml:"hours_per_year"`
	LicenseCostMonthlyUSD float64 `toml:"license_cost_monthly_usd"`
}

type AlertsConfig struct {
	NegativeNetSustainedMinutes int                `toml:"negative_net_sustained_minutes"`
	ChurnSpikeThreshold         float64            `toml:"churn_spike_threshold"`
	PerceptionGapThreshold      float64            `toml:"perception_gap_threshold"`
	HighRejectionPercent        int                `toml:"high_rejection_percent"`
	Notifications               NotificationConfig `toml:"notifications"`
}

type NotificationConfig struct {
	SystemNotify bool `toml:"system_notify"`
}

type DisplayConfig struct {
	EventBufferSize     int     `toml:"event_buffer_size"`
	RefreshRateMS       int     `toml:"refresh_rate_ms"`
	ScoreColorGoodAbove float64 `toml:"score_color_good_above"`
	ScoreColorWarnAbove float64 `toml:"score_color_warn_above"`
}

type StorageConfig struct {
	DBPath        string `toml:"db_path"`
	RetentionDays int    `toml:"retention_days"`
	HistoryLimit  int    `toml:"history_limit"`
}

type LoadResult struct {
	Config   Config
	Warnings []string
}

func DefaultConfig() Config {
	return Config{
		Receiver: ReceiverConfig{
			GRPCPort: 4317,
			HTTPPort: 4318,
			Bind:     "127.0.0.1",
		},
		Analysis: AnalysisConfig{
			Mode:                    ModeComputed,
			SnapshotIntervalSeconds: 300,
			DefaultReworkRate:       0.15,
			BaselineChurnRate:       0.15,
		},
		ROI: ROIConfig{
			AnnualSalaryUSD:       150000,
			BenefitsMultiplier:    1.3,
			HoursPerYear:          2080,
			LicenseCostMonthlyUSD: 19,
		},
		Alerts: AlertsConfig{
			NegativeNetSustainedMinutes: 30,
			ChurnSpikeThreshold:         0.40,
			PerceptionGapThreshold:      0.35,
			HighRejectionPercent:        80,
			Notifications:               NotificationConfig{SystemNotify: false},
		},
		Display: DisplayConfig{
			EventBufferSize:     100,
			RefreshRateMS:       500,
			ScoreColorGoodAbove: 0.7,
			ScoreColorWarnAbove: 0.4,
		},
		Storage: StorageConfig{
			DBPath:        defaultDBPath(),
			RetentionDays: 90,
			HistoryLimit:  500,
		},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "roitop", "roitop.db")
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "roitop", "config.toml")
}

func Load() (*LoadResult, error) {
	return LoadFrom(defaultConfigPath())
}

func LoadFrom(path string) (*LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			return &LoadResult{Config: cfg}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromString(string(data))
}

type tomlFile struct {
	Receiver *ReceiverConfig `toml:"receiver"`
	Analysis *AnalysisConfig `toml:"analysis"`
	ROI      *ROIConfig      `toml:"roi"`
	Alerts   *AlertsConfig   `toml:"alerts"`
	Display  *DisplayConfig  `toml:"display"`
	Storage  *StorageConfig  `toml:"storage"`
}

func LoadFromString(data string) (*LoadResult, error) {
	cfg := DefaultConfig()
	result := &LoadResult{Config: cfg}

	if data == "" {
		return result, nil
	}

	var raw map[string]any
	if _, err := toml.Decode(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	knownTopLevel := map[string]bool{
		"receiver": true,
		"analysis": true,
		"roi":      true,
		"alerts":   true,
		"display":  true,
		"storage":  true,
	}
	for key := range raw {
		if !knownTopLevel[key] {
			result.Warnings = append(result.Warnings, fmt.Sprintf("unknown config key: %q", key))
		}
	}

	var tf tomlFile
	if _, err := toml.Decode(data, &tf); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	mergeFromRaw(&result.Config, &tf, raw)

	if err := validate(&result.Config); err != nil {
		return nil, err
	}

	return result, nil
}

// mergeFromRaw applies only the keys actually present in the file, so a
// partial config keeps defaults for everything it does not mention.
func mergeFromRaw(cfg *Config, tf *tomlFile, raw map[string]any) {
	if tf.Receiver != nil {
		if section, ok := rawSection(raw, "receiver"); ok {
			if _, exists := section["grpc_port"]; exists {
				cfg.Receiver.GRPCPort = tf.Receiver.GRPCPort
			}
			if _, exists := section["http_port"]; exists {
				cfg.Receiver.HTTPPort = tf.Receiver.HTTPPort
			}
			if _, exists := section["bind"]; exists {
				cfg.Receiver.Bind = tf.Receiver.Bind
			}
		}
	}
	if tf.Analysis != nil {
		if section, ok := rawSection(raw, "analysis"); ok {
			if _, exists := section["mode"]; exists {
				cfg.Analysis.Mode = tf.Analysis.Mode
			}
			if _, exists := section["snapshot_interval_seconds"]; exists {
				cfg.Analysis.SnapshotIntervalSeconds = tf.Analysis.SnapshotIntervalSeconds
			}
			if _, exists := section["default_rework_rate"]; exists {
				cfg.Analysis.DefaultReworkRate = tf.Analysis.DefaultReworkRate
			}
			if _, exists := section["baseline_churn_rate"]; exists {
				cfg.Analysis.BaselineChurnRate = tf.Analysis.BaselineChurnRate
			}
		}
	}
	if tf.ROI != nil {
		if section, ok := rawSection(raw, "roi"); ok {
			if _, exists := section["annual_salary_usd"]; exists {
				cfg.ROI.AnnualSalaryUSD = tf.ROI.AnnualSalaryUSD
			}
			if _, exists := section["benefits_multiplier"]; exists {
				cfg.ROI.BenefitsMultiplier = tf.ROI.BenefitsMultiplier
			}
			if _, exists := section["hours_per_year"]; exists {
				cfg.ROI.HoursPerYear = tf.ROI.HoursPerYear
			}
			if _, exists := section["license_cost_monthly_usd"]; exists {
				cfg.ROI.LicenseCostMonthlyUSD = tf.ROI.LicenseCostMonthlyUSD
			}
		}
	}
	if tf.Alerts != nil {
		if section, ok := rawSection(raw, "alerts"); ok {
			if _, exists := section["negative_net_sustained_minutes"]; exists {
				cfg.Alerts.NegativeNetSustainedMinutes = tf.Alerts.NegativeNetSustainedMinutes
			}
			if _, exists := section["churn_spike_threshold"]; exists {
				cfg.Alerts.ChurnSpikeThreshold = tf.Alerts.ChurnSpikeThreshold
			}
			if _, exists := section["perception_gap_threshold"]; exists {
				cfg.Alerts.PerceptionGapThreshold = tf.Alerts.PerceptionGapThreshold
			}
			if _, exists := section["high_rejection_percent"]; exists {
				cfg.Alerts.HighRejectionPercent = tf.Alerts.HighRejectionPercent
			}
			if _, exists := section["notifications"]; exists {
				cfg.Alerts.Notifications = tf.Alerts.Notifications
			}
		}
	}
	if tf.Display != nil {
		if section, ok := rawSection(raw, "display"); ok {
			if _, exists := section["event_buffer_size"]; exists {
				cfg.Display.EventBufferSize = tf.Display.EventBufferSize
			}
			if _, exists := section["refresh_rate_ms"]; exists {
				cfg.Display.RefreshRateMS = tf.Display.RefreshRateMS
			}
			if _, exists := section["score_color_good_above"]; exists {
				cfg.Display.ScoreColorGoodAbove = tf.Display.ScoreColorGoodAbove
			}
			if _, exists := section["score_color_warn_above"]; exists {
				cfg.Display.ScoreColorWarnAbove = tf.Display.ScoreColorWarnAbove
			}
		}
	}
	if tf.Storage != nil {
		if section, ok := rawSection(raw, "storage"); ok {
			if _, exists := section["db_path"]; exists {
				cfg.Storage.DBPath = tf.Storage.DBPath
			}
			if _, exists := section["retention_days"]; exists {
				cfg.Storage.RetentionDays = tf.Storage.RetentionDays
			}
			if _, exists := section["history_limit"]; exists {
				cfg.Storage.HistoryLimit = tf.Storage.HistoryLimit
			}
		}
	}
}

func rawSection(raw map[string]any, key string) (map[string]any, bool) {
	v, ok := raw[key]
	if !ok {
		return nil, false
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func validate(cfg *Config) error {
	var errs []string

	if cfg.Receiver.GRPCPort < 1 || cfg.Receiver.GRPCPort > 65535 {
		errs = append(errs, fmt.Sprintf("grpc_port must be 1-65535, got %d", cfg.Receiver.GRPCPort))
	}
	if cfg.Receiver.HTTPPort < 1 || cfg.Receiver.HTTPPort > 65535 {
		errs = append(errs, fmt.Sprintf("http_port must be 1-65535, got %d", cfg.Receiver.HTTPPort))
	}

	if cfg.Analysis.Mode != ModeComputed && cfg.Analysis.Mode != ModeFixedExample {
		errs = append(errs, fmt.Sprintf("analysis mode must be %q or %q, got %q", ModeComputed, ModeFixedExample, cfg.Analysis.Mode))
	}
	if cfg.Analysis.SnapshotIntervalSeconds < 1 {
		errs = append(errs, fmt.Sprintf("snapshot_interval_seconds must be positive, got %d", cfg.Analysis.SnapshotIntervalSeconds))
	}
	if cfg.Analysis.DefaultReworkRate < 0 || cfg.Analysis.DefaultReworkRate > 1 {
		errs = append(errs, fmt.Sprintf("default_rework_rate must be 0-1, got %f", cfg.Analysis.DefaultReworkRate))
	}
	if cfg.Analysis.BaselineChurnRate < 0 || cfg.Analysis.BaselineChurnRate > 1 {
		errs = append(errs, fmt.Sprintf("baseline_churn_rate must be 0-1, got %f", cfg.Analysis.BaselineChurnRate))
	}

	if cfg.ROI.AnnualSalaryUSD <= 0 {
		errs = append(errs, fmt.Sprintf("annual_salary_usd must be positive, got %f", cfg.ROI.AnnualSalaryUSD))
	}
	if cfg.ROI.BenefitsMultiplier < 1 {
		errs = append(errs, fmt.Sprintf("benefits_multiplier must be at least 1, got %f", cfg.ROI.BenefitsMultiplier))
	}
	if cfg.ROI.HoursPerYear <= 0 {
		errs = append(errs, fmt.Sprintf("hours_per_year must be positive, got %f", cfg.ROI.HoursPerYear))
	}
	if cfg.ROI.LicenseCostMonthlyUSD < 0 {
		errs = append(errs, fmt.Sprintf("license_cost_monthly_usd must not be negative, got %f", cfg.ROI.LicenseCostMonthlyUSD))
	}

	if cfg.Alerts.NegativeNetSustainedMinutes < 1 {
		errs = append(errs, fmt.Sprintf("negative_net_sustained_minutes must be positive, got %d", cfg.Alerts.NegativeNetSustainedMinutes))
	}
	if cfg.Alerts.ChurnSpikeThreshold <= 0 || cfg.Alerts.ChurnSpikeThreshold > 1 {
		errs = append(errs, fmt.Sprintf("churn_spike_threshold must be in (0,1], got %f", cfg.Alerts.ChurnSpikeThreshold))
	}
	if cfg.Alerts.PerceptionGapThreshold <= 0 {
		errs = append(errs, fmt.Sprintf("perception_gap_threshold must be positive, got %f", cfg.Alerts.PerceptionGapThreshold))
	}
	if cfg.Alerts.HighRejectionPercent < 1 || cfg.Alerts.HighRejectionPercent > 100 {
		errs = append(errs, fmt.Sprintf("high_rejection_percent must be 1-100, got %d", cfg.Alerts.HighRejectionPercent))
	}

	if cfg.Display.EventBufferSize < 1 {
		errs = append(errs, fmt.Sprintf("event_buffer_size must be positive, got %d", cfg.Display.EventBufferSize))
	}
	if cfg.Display.RefreshRateMS < 1 {
		errs = append(errs, fmt.Sprintf("refresh_rate_ms must be positive, got %d", cfg.Display.RefreshRateMS))
	}
	if cfg.Display.ScoreColorGoodAbove <= cfg.Display.ScoreColorWarnAbove {
		errs = append(errs, fmt.Sprintf("score_color_good_above (%f) must exceed score_color_warn_above (%f)",
			cfg.Display.ScoreColorGoodAbove, cfg.Display.ScoreColorWarnAbove))
	}

	if cfg.Storage.RetentionDays <= 0 {
		errs = append(errs, fmt.Sprintf("storage retention_days must be positive, got %d", cfg.Storage.RetentionDays))
	}
	if cfg.Storage.HistoryLimit <= 0 {
		errs = append(errs, fmt.Sprintf("storage history_limit must be positive, got %d", cfg.Storage.HistoryLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation error: %s", strings.Join(errs, "; "))
	}
	return nil
}
