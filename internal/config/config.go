// Package config holds the pipeline configuration: YAML file loading,
// environment overrides, presets and hot reload.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"soylem/internal/critique"
	"soylem/internal/dialogue"
	"soylem/internal/risk"
)

// CritiqueConfig configures the self-critique stage.
type CritiqueConfig struct {
	Enabled                   bool    `yaml:"enabled"`
	MinScoreThreshold         float64 `yaml:"min_score_threshold"`
	MaxRevisionAttempts       int     `yaml:"max_revision_attempts"`
	CheckToneMatch            bool    `yaml:"check_tone_match"`
	CheckContentCoverage      bool    `yaml:"check_content_coverage"`
	CheckConstraintViolations bool    `yaml:"check_constraint_violations"`
	AutoRevise                bool    `yaml:"auto_revise"`
}

// Critique converts to the critique package's config.
func (c CritiqueConfig) Critique() critique.Config {
	return critique.Config{
		Enabled:                   c.Enabled,
		CheckToneMatch:            c.CheckToneMatch,
		CheckContentCoverage:      c.CheckContentCoverage,
		CheckConstraintViolations: c.CheckConstraintViolations,
		MinScoreThreshold:         c.MinScoreThreshold,
		AutoRevise:                c.AutoRevise,
		MaxRevisionAttempts:       c.MaxRevisionAttempts,
	}
}

// PipelineConfig is the full pipeline configuration.
type PipelineConfig struct {
	EnableSelfCritique      bool          `yaml:"enable_self_critique"`
	MaxRevisionAttempts     int           `yaml:"max_revision_attempts"`
	MinApprovalLevel        risk.Level    `yaml:"min_approval_level"`
	FallbackResponse        string        `yaml:"fallback_response"`
	EnableRiskAssessment    bool          `yaml:"enable_risk_assessment"`
	EnableApprovalCheck     bool          `yaml:"enable_approval_check"`
	ConstructionTimeout     string        `yaml:"construction_timeout"`
	UseDefaultConstructions bool          `yaml:"use_default_constructions"`
	DefaultTone             dialogue.Tone `yaml:"default_tone"`
	MaxOutputLength         int           `yaml:"max_output_length"`

	// DataDir is where the feedback store lives. Empty keeps feedback
	// in memory only.
	DataDir string `yaml:"data_dir"`

	// EnableFeedback turns the feedback store and reranking on.
	EnableFeedback bool `yaml:"enable_feedback"`

	LogLevel string `yaml:"log_level"`

	Critique CritiqueConfig `yaml:"critique"`
}

// Default returns the balanced default configuration.
func Default() *PipelineConfig {
	return &PipelineConfig{
		EnableSelfCritique:      true,
		MaxRevisionAttempts:     2,
		MinApprovalLevel:        risk.LevelMedium,
		FallbackResponse:        "Anlayamadim, tekrar eder misiniz?",
		EnableRiskAssessment:    true,
		EnableApprovalCheck:     true,
		ConstructionTimeout:     "5s",
		UseDefaultConstructions: true,
		DefaultTone:             dialogue.ToneNeutral,
		MaxOutputLength:         2000,
		EnableFeedback:          true,
		LogLevel:                "info",
		Critique: CritiqueConfig{
			Enabled:                   true,
			MinScoreThreshold:         0.6,
			MaxRevisionAttempts:       2,
			CheckToneMatch:            true,
			CheckContentCoverage:      true,
			CheckConstraintViolations: true,
			AutoRevise:                true,
		},
	}
}

// Minimal returns a speed-first preset: no critique, no risk gate.
func Minimal() *PipelineConfig {
	cfg := Default()
	cfg.EnableSelfCritique = false
	cfg.EnableRiskAssessment = false
	cfg.EnableApprovalCheck = false
	cfg.MaxRevisionAttempts = 0
	cfg.Critique.Enabled = false
	return cfg
}

// Strict returns a safety-first preset: everything on, low approval
// bar, higher critique threshold.
func Strict() *PipelineConfig {
	cfg := Default()
	cfg.MaxRevisionAttempts = 3
	cfg.MinApprovalLevel = risk.LevelLow
	cfg.Critique.MinScoreThreshold = 0.8
	cfg.Critique.MaxRevisionAttempts = 3
	return cfg
}

// Balanced is an alias for Default, named for symmetry with the other
// presets.
func Balanced() *PipelineConfig {
	return Default()
}

// Preset resolves a preset by name.
func Preset(name string) (*PipelineConfig, error) {
	switch name {
	case "minimal":
		return Minimal(), nil
	case "strict":
		return Strict(), nil
	case "balanced", "default", "":
		return Balanced(), nil
	default:
		return nil, fmt.Errorf("unknown preset: %q", name)
	}
}

// Validate checks config values.
func (c *PipelineConfig) Validate() error {
	if c.MaxRevisionAttempts < 0 {
		return fmt.Errorf("max_revision_attempts must be >= 0, got %d", c.MaxRevisionAttempts)
	}
	if c.MaxOutputLength < 1 {
		return fmt.Errorf("max_output_length must be >= 1, got %d", c.MaxOutputLength)
	}
	if c.ConstructionTimeout != "" {
		d, err := time.ParseDuration(c.ConstructionTimeout)
		if err != nil {
			return fmt.Errorf("invalid construction_timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("construction_timeout must be >= 0, got %s", c.ConstructionTimeout)
		}
	}
	switch c.MinApprovalLevel {
	case risk.LevelLow, risk.LevelMedium, risk.LevelHigh, risk.LevelCritical:
	default:
		return fmt.Errorf("invalid min_approval_level: %q", c.MinApprovalLevel)
	}
	if c.Critique.MinScoreThreshold < 0 || c.Critique.MinScoreThreshold > 1 {
		return fmt.Errorf("critique min_score_threshold must be in [0, 1], got %v", c.Critique.MinScoreThreshold)
	}
	if c.Critique.MaxRevisionAttempts < 0 {
		return fmt.Errorf("critique max_revision_attempts must be >= 0, got %d", c.Critique.MaxRevisionAttempts)
	}
	return nil
}

// ConstructionTimeoutDuration parses the construction timeout,
// falling back to 5s on bad input.
func (c *PipelineConfig) ConstructionTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ConstructionTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// WithSelfCritique returns a copy with critique toggled.
func (c *PipelineConfig) WithSelfCritique(enabled bool) *PipelineConfig {
	clone := *c
	clone.EnableSelfCritique = enabled
	clone.Critique.Enabled = enabled
	return &clone
}

// WithApprovalLevel returns a copy with a different approval bar.
func (c *PipelineConfig) WithApprovalLevel(level risk.Level) *PipelineConfig {
	clone := *c
	clone.MinApprovalLevel = level
	return &clone
}

// Load reads a YAML config file on top of the defaults. A missing file
// returns the defaults unchanged.
func Load(path string) (*PipelineConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *PipelineConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
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

func (c *PipelineConfig) applyEnvOverrides() {
	if dir := os.Getenv("SOYLEM_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if level := os.Getenv("SOYLEM_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	}
	if fallback := os.Getenv("SOYLEM_FALLBACK_RESPONSE"); fallback != "" {
		c.FallbackResponse = fallback
	}
}
