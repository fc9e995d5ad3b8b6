package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"dudhiya-collection/internal/collection"
	"dudhiya-collection/internal/valuation"

	"gopkg.in/yaml.v3"
)

// Settings is the on-disk dairy settings shape (YAML).
type Settings struct {
	// Optional: load dairy parameters from a separate YAML shared between dairies.
	// If both BaseFile and Dairy are provided, Dairy overrides BaseFile.
	BaseFile string        `yaml:"base_file"`
	Dairy    DairySettings `yaml:"dairy"`
}

// DairySettings are the per-dairy knobs used by the collection engine.
type DairySettings struct {
	Name                string  `yaml:"name" json:"name,omitempty"`
	BaseSNF             float64 `yaml:"base_snf" json:"base_snf"`
	CLRConversionFactor float64 `yaml:"clr_conversion_factor" json:"clr_conversion_factor"`
	FatSNFRatio         string  `yaml:"fat_snf_ratio" json:"fat_snf_ratio"`
	RateType            string  `yaml:"rate_type" json:"rate_type"`
	DensityFactor       float64 `yaml:"density_factor" json:"density_factor"`
	FatReference        float64 `yaml:"fat_reference" json:"fat_reference"`
}

// DefaultDairySettings mirrors collection.DefaultDefaults.
func DefaultDairySettings() DairySettings {
	d := collection.DefaultDefaults()
	return DairySettings{
		BaseSNF:             d.BaseSNFPercentage,
		CLRConversionFactor: d.CLRConversionFactor,
		FatSNFRatio:         d.FatSNFRatio,
		RateType:            string(d.RateType),
		DensityFactor:       d.DensityFactor,
		FatReference:        d.FatReference,
	}
}

// LoadSettings reads, merges over defaults and validates dairy settings.
// An empty path yields the defaults.
func LoadSettings(path string) (DairySettings, error) {
	if path == "" {
		return DefaultDairySettings(), nil
	}
	s, err := LoadUnchecked(path)
	if err != nil {
		return DairySettings{}, err
	}
	out := MergeSettings(DefaultDairySettings(), s.Dairy)
	if err := out.Validate(); err != nil {
		return DairySettings{}, err
	}
	return out, nil
}

// LoadUnchecked loads and merges settings, but does not validate them.
func LoadUnchecked(path string) (*Settings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	if s.BaseFile != "" {
		basePath := s.BaseFile
		if !filepath.IsAbs(basePath) {
			// Relative to the settings file first, then cwd.
			cand := filepath.Join(filepath.Dir(path), basePath)
			if _, err := os.Stat(cand); err == nil {
				basePath = cand
			}
		}
		loaded, err := loadBaseFile(basePath)
		if err != nil {
			return nil, err
		}
		s.Dairy = MergeSettings(loaded, s.Dairy)
	}
	return &s, nil
}

func (d DairySettings) Validate() error {
	if d.BaseSNF <= 0 {
		return errors.New("base_snf must be positive")
	}
	if d.FatReference <= 0 {
		return errors.New("fat_reference must be positive")
	}
	if d.DensityFactor <= 0 {
		return errors.New("density_factor must be positive")
	}
	if d.CLRConversionFactor < 0 {
		return errors.New("clr_conversion_factor must not be negative")
	}
	if !collection.ValidRatio(d.FatSNFRatio) {
		return fmt.Errorf("fat_snf_ratio must be %q or %q, got %q", collection.Ratio60x40, collection.Ratio52x48, d.FatSNFRatio)
	}
	if !collection.RateType(d.RateType).Valid() {
		return fmt.Errorf("unsupported rate_type %q", d.RateType)
	}
	return nil
}

// CalculatorBaseSNF reports whether the dairy's base SNF is also accepted by
// the handheld calculator.
func (d DairySettings) CalculatorBaseSNF() bool {
	return valuation.IsBaseSNFOption(d.BaseSNF)
}

// CalculatorDefaultSNF is the base SNF the calculator uses when a request
// leaves it unset: the dairy's own when allowed, else the first option.
func (d DairySettings) CalculatorDefaultSNF() float64 {
	if d.CalculatorBaseSNF() {
		return d.BaseSNF
	}
	return valuation.BaseSNFOptions[0]
}

// ToDefaults converts settings into collection engine defaults.
func (d DairySettings) ToDefaults() collection.Defaults {
	return collection.Defaults{
		BaseSNFPercentage:   d.BaseSNF,
		FatSNFRatio:         d.FatSNFRatio,
		CLRConversionFactor: d.CLRConversionFactor,
		DensityFactor:       d.DensityFactor,
		FatReference:        d.FatReference,
		RateType:            collection.RateType(d.RateType),
	}
}

type baseFileWrapper struct {
	Dairy DairySettings `yaml:"dairy"`
}

func loadBaseFile(path string) (DairySettings, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return DairySettings{}, err
	}
	var w baseFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return DairySettings{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return w.Dairy, nil
}

// MergeSettings overlays non-zero fields from override onto base.
func MergeSettings(base, override DairySettings) DairySettings {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.BaseSNF != 0 {
		out.BaseSNF = override.BaseSNF
	}
	// A zero conversion factor cannot be told apart from "unset" here.
	if override.CLRConversionFactor != 0 {
		out.CLRConversionFactor = override.CLRConversionFactor
	}
	if override.FatSNFRatio != "" {
		out.FatSNFRatio = override.FatSNFRatio
	}
	if override.RateType != "" {
		out.RateType = override.RateType
	}
	if override.DensityFactor != 0 {
		out.DensityFactor = override.DensityFactor
	}
	if override.FatReference != 0 {
		out.FatReference = override.FatReference
	}
	return out
}
