package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should validate, got %v", err)
	}
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("Parse(embedded) failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("embedded YAML and Default() disagree:\n%+v\n%+v", cfg, Default())
	}
}

func TestLoadCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("grid:\n  size: 8\n  start_x: 1\n  start_y: 1\ntraining:\n  epochs: 12\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Grid.Size != 8 || cfg.Training.Epochs != 12 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Learning.Alpha != 0.1 || cfg.Grid.StartHeading != "right" {
		t.Errorf("missing fields should keep defaults: %+v", cfg)
	}
}

func TestLoadCustomPathErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing custom config")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("grid: [unterminated"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero grid", func(c *Config) { c.Grid.Size = 0 }},
		{"start outside", func(c *Config) { c.Grid.StartX = 20 }},
		{"bad heading", func(c *Config) { c.Grid.StartHeading = "sideways" }},
		{"alpha zero", func(c *Config) { c.Learning.Alpha = 0 }},
		{"gamma above one", func(c *Config) { c.Learning.Gamma = 1.5 }},
		{"negative epsilon", func(c *Config) { c.Learning.Epsilon = -0.1 }},
		{"zero decay", func(c *Config) { c.Learning.EpsilonDecay = 0 }},
		{"no epochs", func(c *Config) { c.Training.Epochs = 0 }},
		{"negative cap", func(c *Config) { c.Training.MaxStepsPerEpoch = -1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error should wrap ErrInvalid, got %v", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	cfg := Default()
	if err := ApplyPreset(&cfg, PresetGreedy); err != nil {
		t.Fatal(err)
	}
	if cfg.Learning.Epsilon != 0 || cfg.Learning.EpsilonMin != 0 {
		t.Errorf("greedy preset should disable exploration: %+v", cfg.Learning)
	}

	cfg = Default()
	if err := ApplyPreset(&cfg, PresetSprint); err != nil {
		t.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("sprint preset produced invalid config: %v", err)
	}

	for _, p := range Presets() {
		cfg := Default()
		if err := ApplyPreset(&cfg, p); err != nil {
			t.Errorf("preset %q: %v", p, err)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", p, err)
		}
	}

	if err := ApplyPreset(&cfg, "turbo"); err == nil {
		t.Error("expected error for unknown preset")
	}
}
