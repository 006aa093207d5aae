package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidFormat indicates an unsupported output format
	ErrInvalidFormat = errors.New("invalid output format")

	// ErrEmptyCorpusPatterns indicates no corpus patterns are configured
	ErrEmptyCorpusPatterns = errors.New("empty corpus patterns")

	// ErrEmptyPattern indicates a blank glob pattern
	ErrEmptyPattern = errors.New("empty glob pattern")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateOutput(&cfg.Output); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	if len(cfg.Corpus) == 0 {
		return ErrEmptyCorpusPatterns
	}

	for _, pattern := range append(append([]string{}, cfg.Corpus...), cfg.Ignore...) {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("%w in paths configuration", ErrEmptyPattern)
		}
	}

	return nil
}

func validateOutput(cfg *OutputConfig) error {
	format := strings.ToLower(cfg.Format)
	if format != "json" {
		return fmt.Errorf("%w: must be 'json', got '%s'", ErrInvalidFormat, cfg.Format)
	}
	return nil
}
