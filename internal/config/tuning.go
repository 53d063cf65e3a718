package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/riskibarqy/season-sim/internal/domain/condition"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"gopkg.in/yaml.v3"
)

// Tuning groups the simulation constants that can be overridden from a YAML file.
type Tuning struct {
	Match     match.Tuning     `yaml:"match"`
	Condition condition.Tuning `yaml:"condition"`
}

func DefaultTuning() Tuning {
	return Tuning{
		Match:     match.DefaultTuning(),
		Condition: condition.DefaultTuning(),
	}
}

// LoadTuning decodes the file at path on top of the defaults. Keys missing
// from the file keep their default value. An empty path returns the defaults.
func LoadTuning(path string) (Tuning, error) {
	out := DefaultTuning()
	if strings.TrimSpace(path) == "" {
		return out, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read SIM_TUNING_FILE: %w", err)
	}
	if err := ParseTuning(raw, &out); err != nil {
		return Tuning{}, fmt.Errorf("parse SIM_TUNING_FILE %s: %w", path, err)
	}
	return out, nil
}

func ParseTuning(raw []byte, out *Tuning) error {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if out.Match.GoalChance < 0 || out.Match.GoalChance > 1 {
		return fmt.Errorf("match.goal_chance must be within [0,1]")
	}
	if out.Condition.FitnessRecoveryPerHour < 0 {
		return fmt.Errorf("condition.fitness_recovery_per_hour must be >= 0")
	}
	return nil
}
