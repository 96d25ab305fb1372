package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PolicyConfig overrides the attendance engine's policy values. Zero
// values keep the engine defaults.
type PolicyConfig struct {
	GracePeriodMinutes      int
	BreakInExtensionMinutes int
	ClockDriftThreshold     time.Duration
}

type policyFile struct {
	GracePeriodMinutes      int    `yaml:"grace_period_minutes"`
	BreakInExtensionMinutes int    `yaml:"break_in_extension_minutes"`
	ClockDriftThreshold     string `yaml:"clock_drift_threshold"`
}

// LoadPolicy reads a YAML policy file. An empty path returns the zero
// PolicyConfig.
func LoadPolicy(path string) (PolicyConfig, error) {
	if path == "" {
		return PolicyConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return PolicyConfig{}, fmt.Errorf("failed to read policy file: %w", err)
	}

	return ParsePolicy(data)
}

func ParsePolicy(data []byte) (PolicyConfig, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return PolicyConfig{}, fmt.Errorf("failed to parse policy file: %w", err)
	}

	if f.GracePeriodMinutes < 0 {
		return PolicyConfig{}, fmt.Errorf("grace_period_minutes must not be negative")
	}
	if f.BreakInExtensionMinutes < 0 {
		return PolicyConfig{}, fmt.Errorf("break_in_extension_minutes must not be negative")
	}

	p := PolicyConfig{
		GracePeriodMinutes:      f.GracePeriodMinutes,
		BreakInExtensionMinutes: f.BreakInExtensionMinutes,
	}

	if f.ClockDriftThreshold != "" {
		d, err := time.ParseDuration(f.ClockDriftThreshold)
		if err != nil {
			return PolicyConfig{}, fmt.Errorf("invalid clock_drift_threshold: %w", err)
		}
		if d < 0 {
			return PolicyConfig{}, fmt.Errorf("clock_drift_threshold must not be negative")
		}
		p.ClockDriftThreshold = d
	}

	return p, nil
}
