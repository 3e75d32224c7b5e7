package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Preset is a human-edited YAML file bundling aesthetic parameters, so a
// taste profile can be reused across runs without a wall of flags. Only the
// fields present in the file are applied; everything else keeps its current
// value. Pointer fields distinguish "absent" from zero.
type Preset struct {
	Tempo       *float64 `yaml:"tempo,omitempty"`
	HighpassHz  *int     `yaml:"highpass_hz,omitempty"`
	LowpassHz   *int     `yaml:"lowpass_hz,omitempty"`
	Texture     *string  `yaml:"texture,omitempty"`
	TextureGain *float64 `yaml:"texture_gain_db,omitempty"`
	Drums       *string  `yaml:"drums,omitempty"`
	DrumsGain   *float64 `yaml:"drums_gain_db,omitempty"`
	DrumsStart  *float64 `yaml:"drums_start_s,omitempty"`
	Reverb      *bool    `yaml:"reverb,omitempty"`
	Saturation  *bool    `yaml:"saturation,omitempty"`
	Compression *bool    `yaml:"compression,omitempty"`
	CompRatio   *float64 `yaml:"comp_ratio,omitempty"`
	CompThresh  *float64 `yaml:"comp_threshold_db,omitempty"`
	CompAttack  *float64 `yaml:"comp_attack_ms,omitempty"`
	CompRelease *float64 `yaml:"comp_release_ms,omitempty"`
}

// LoadPreset reads a YAML preset file. Unknown keys are rejected so typos in
// a taste profile fail loudly instead of silently doing nothing.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}
	var p Preset
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return &p, nil
}

// Apply overlays the preset's present fields onto cfg.
func (p *Preset) Apply(cfg *Config) {
	if p.Tempo != nil {
		cfg.TempoFactor = *p.Tempo
	}
	if p.HighpassHz != nil {
		cfg.HighpassHz = *p.HighpassHz
	}
	if p.LowpassHz != nil {
		cfg.LowpassHz = *p.LowpassHz
	}
	if p.Texture != nil {
		cfg.Texture = *p.Texture
	}
	if p.TextureGain != nil {
		cfg.TextureGainDB = *p.TextureGain
	}
	if p.Drums != nil {
		cfg.Drums = *p.Drums
	}
	if p.DrumsGain != nil {
		cfg.DrumsGainDB = *p.DrumsGain
	}
	if p.DrumsStart != nil {
		cfg.DrumsStartS = *p.DrumsStart
	}
	if p.Reverb != nil {
		cfg.EnableReverb = *p.Reverb
	}
	if p.Saturation != nil {
		cfg.EnableSaturation = *p.Saturation
	}
	if p.Compression != nil {
		cfg.EnableCompression = *p.Compression
	}
	if p.CompRatio != nil {
		cfg.CompRatio = *p.CompRatio
	}
	if p.CompThresh != nil {
		cfg.CompThresholdDB = *p.CompThresh
	}
	if p.CompAttack != nil {
		cfg.CompAttackMs = *p.CompAttack
	}
	if p.CompRelease != nil {
		cfg.CompReleaseMs = *p.CompRelease
	}
}
