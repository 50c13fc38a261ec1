package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/testhub/internal/core/measurement"
)

// PlansFile is the YAML layout of a channel plan override file.
type PlansFile struct {
	Plans []measurement.Plan `yaml:"plans"`
}

// LoadPlans returns the built-in plans with any plans in path replacing
// same-named ones. An empty path yields the built-in plans.
func LoadPlans(path string) (measurement.PlanSet, error) {
	plans := measurement.BuiltinPlans()
	if path == "" {
		return plans, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans: %w", err)
	}
	overrides, err := ParsePlans(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return plans.Merge(overrides), nil
}

// ParsePlans decodes and validates a plan override document.
func ParsePlans(data []byte) (measurement.PlanSet, error) {
	var file PlansFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plans: %w", err)
	}

	set := make(measurement.PlanSet, len(file.Plans))
	for _, p := range file.Plans {
		p = p.WithDefaults()
		if err := p.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(p.Board)
		if _, dup := set[key]; dup {
			return nil, fmt.Errorf("plan %s defined twice", p.Board)
		}
		set[key] = p
	}
	return set, nil
}
