// Package config loads the YAML configuration shared by the CLI commands.
package config

import (
	customerrors "aviation-ops/errors"
	"aviation-ops/manpower"
	"aviation-ops/models"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration.
type Config struct {
	Manpower ManpowerConfig `yaml:"manpower"`
	Advisor  AdvisorConfig  `yaml:"advisor"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ManpowerConfig mirrors manpower.Config with YAML-friendly types.
type ManpowerConfig struct {
	DefaultHours      float64        `yaml:"default_hours"`
	HoursPerPersonDay float64        `yaml:"hours_per_person_day"`
	TeamSize          int            `yaml:"team_size"`
	Target            map[string]int `yaml:"target"`
	MECRatioMin       float64        `yaml:"mec_ratio_min"`
	MECRatioMax       float64        `yaml:"mec_ratio_max"`
	CalibrationWeight float64        `yaml:"calibration_weight"`
	MergeNumericZones bool           `yaml:"merge_numeric_zones"`

	Columns ColumnsConfig `yaml:"columns"`

	ZoneRules          []ZoneRuleConfig    `yaml:"zone_rules"`
	TitleRules         []KeywordRuleConfig `yaml:"title_rules"`
	CertifyingKeywords []string            `yaml:"certifying_keywords"`
	AvionicsKeywords   []string            `yaml:"avionics_keywords"`
	MajorItemKeywords  []string            `yaml:"major_item_keywords"`
	MajorItemHours     float64             `yaml:"major_item_hours"`
}

// ColumnsConfig lists the header aliases tried for each task field.
type ColumnsConfig struct {
	Zone  []string `yaml:"zone"`
	Hours []string `yaml:"hours"`
	Title []string `yaml:"title"`
}

type ZoneRuleConfig struct {
	Type       string   `yaml:"type"`
	Zones      []string `yaml:"zones,omitempty"`
	MajorZones []int    `yaml:"major_zones,omitempty"`
}

type KeywordRuleConfig struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
}

// AdvisorConfig configures the optional generative summary backend.
type AdvisorConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
	// Concurrency bounds parallel work-pack evaluations.
	Concurrency int `yaml:"concurrency"`
}

// StoreConfig points at the remote work-log store.
type StoreConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Manpower: fromManpower(manpower.DefaultConfig()),
		Advisor: AdvisorConfig{
			Model:       "gemini-2.5-pro",
			Timeout:     "120s",
			Concurrency: 4,
		},
		Store: StoreConfig{
			Timeout: "30s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML file over the defaults. An empty path or a missing file
// yields the defaults. Environment overrides are applied last and the result
// is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("API_KEY"); key != "" {
		c.Advisor.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Advisor.APIKey = key
	}
	if url := os.Getenv("WORKLOG_STORE_URL"); url != "" {
		c.Store.URL = url
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	mc, err := c.ToManpower()
	if err != nil {
		return err
	}
	if err := mc.Validate(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", customerrors.ErrInvalidConfig, c.Logging.Level)
	}
	if c.Advisor.Concurrency < 0 {
		return fmt.Errorf("%w: advisor concurrency must not be negative", customerrors.ErrInvalidConfig)
	}
	for name, value := range map[string]string{"advisor.timeout": c.Advisor.Timeout, "store.timeout": c.Store.Timeout} {
		if value == "" {
			continue
		}
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s: %v", customerrors.ErrInvalidConfig, name, err)
		}
	}
	return nil
}

// ToManpower converts the manpower section into the immutable pipeline config.
func (c *Config) ToManpower() (manpower.Config, error) {
	m := c.Manpower
	out := manpower.Config{
		DefaultHours:       m.DefaultHours,
		HoursPerPersonDay:  m.HoursPerPersonDay,
		TeamSize:           m.TeamSize,
		Target:             make(models.Counts, len(m.Target)),
		MECRatioMin:        m.MECRatioMin,
		MECRatioMax:        m.MECRatioMax,
		CalibrationWeight:  m.CalibrationWeight,
		ZoneColumns:        m.Columns.Zone,
		HoursColumns:       m.Columns.Hours,
		TitleColumns:       m.Columns.Title,
		MergeNumericZones:  m.MergeNumericZones,
		CertifyingKeywords: m.CertifyingKeywords,
		AvionicsKeywords:   m.AvionicsKeywords,
		MajorItemKeywords:  m.MajorItemKeywords,
		MajorItemHours:     m.MajorItemHours,
	}

	for name, n := range m.Target {
		pt, err := models.ParsePersonnelType(name)
		if err != nil {
			return manpower.Config{}, fmt.Errorf("%w: target: %v", customerrors.ErrInvalidConfig, err)
		}
		out.Target[pt] = n
	}
	for i, r := range m.ZoneRules {
		pt, err := models.ParsePersonnelType(r.Type)
		if err != nil {
			return manpower.Config{}, fmt.Errorf("%w: zone_rules[%d]: %v", customerrors.ErrInvalidConfig, i, err)
		}
		out.ZoneRules = append(out.ZoneRules, manpower.ZoneRule{Type: pt, Zones: r.Zones, MajorZones: r.MajorZones})
	}
	for i, r := range m.TitleRules {
		pt, err := models.ParsePersonnelType(r.Type)
		if err != nil {
			return manpower.Config{}, fmt.Errorf("%w: title_rules[%d]: %v", customerrors.ErrInvalidConfig, i, err)
		}
		out.TitleRules = append(out.TitleRules, manpower.KeywordRule{Type: pt, Keywords: r.Keywords})
	}
	return out, nil
}

func fromManpower(mc manpower.Config) ManpowerConfig {
	target := make(map[string]int, len(mc.Target))
	for pt, n := range mc.Target {
		target[string(pt)] = n
	}

	out := ManpowerConfig{
		DefaultHours:       mc.DefaultHours,
		HoursPerPersonDay:  mc.HoursPerPersonDay,
		TeamSize:           mc.TeamSize,
		Target:             target,
		MECRatioMin:        mc.MECRatioMin,
		MECRatioMax:        mc.MECRatioMax,
		CalibrationWeight:  mc.CalibrationWeight,
		MergeNumericZones:  mc.MergeNumericZones,
		Columns:            ColumnsConfig{Zone: mc.ZoneColumns, Hours: mc.HoursColumns, Title: mc.TitleColumns},
		CertifyingKeywords: mc.CertifyingKeywords,
		AvionicsKeywords:   mc.AvionicsKeywords,
		MajorItemKeywords:  mc.MajorItemKeywords,
		MajorItemHours:     mc.MajorItemHours,
	}
	for _, r := range mc.ZoneRules {
		out.ZoneRules = append(out.ZoneRules, ZoneRuleConfig{Type: string(r.Type), Zones: r.Zones, MajorZones: r.MajorZones})
	}
	for _, r := range mc.TitleRules {
		out.TitleRules = append(out.TitleRules, KeywordRuleConfig{Type: string(r.Type), Keywords: r.Keywords})
	}
	return out
}

// AdvisorTimeout returns the advisor timeout as a duration.
func (c *Config) AdvisorTimeout() time.Duration {
	d, err := time.ParseDuration(c.Advisor.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// StoreTimeout returns the remote store timeout as a duration.
func (c *Config) StoreTimeout() time.Duration {
	d, err := time.ParseDuration(c.Store.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
