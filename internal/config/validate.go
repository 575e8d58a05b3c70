package config

import (
	"fmt"
	"path/filepath"
)

// ValidationError represents a single validation issue with a config.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a Config for structural and semantic errors. It returns a
// slice of all validation errors found (empty if valid).
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError

	// Path knobs are joined to the project root, so they must be relative.
	paths := []struct {
		field string
		value string
	}{
		{"frontend.dir", cfg.Frontend.Dir},
		{"frontend.build_dir", cfg.Frontend.BuildDir},
		{"frontend.deploy_dir", cfg.Frontend.DeployDir},
		{"frontend.tsconfig", cfg.Frontend.TSConfig},
		{"backend.dir", cfg.Backend.Dir},
		{"backend.env_file", cfg.Backend.EnvFile},
		{"backend.env_template", cfg.Backend.EnvTemplate},
		{"report.file", cfg.Report.File},
	}
	for _, p := range paths {
		if p.value == "" {
			errs = append(errs, ValidationError{Field: p.field, Message: "is required"})
			continue
		}
		if filepath.IsAbs(p.value) {
			errs = append(errs, ValidationError{
				Field:   p.field,
				Message: "must be relative to the project root",
			})
		}
	}

	for i, c := range cfg.Frontend.Components {
		field := fmt.Sprintf("frontend.components[%d]", i)
		if c == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"})
			continue
		}
		if filepath.IsAbs(c) {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "must be relative to the project root",
			})
		}
	}

	commands := []struct {
		field string
		value string
	}{
		{"commands.install", cfg.Commands.Install},
		{"commands.type_check", cfg.Commands.TypeCheck},
		{"commands.build", cfg.Commands.Build},
		{"commands.remediation", cfg.Commands.Remediation},
	}
	for _, c := range commands {
		if c.value == "" {
			errs = append(errs, ValidationError{Field: c.field, Message: "is required"})
		}
	}

	if cfg.Commands.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "commands.timeout_seconds",
			Message: "must be positive",
		})
	}

	if cfg.Toolchain.MinNodeMajor < 1 {
		errs = append(errs, ValidationError{
			Field:   "toolchain.min_node_major",
			Message: "must be at least 1",
		})
	}

	if !cfg.History.Disabled {
		if cfg.History.Path == "" {
			errs = append(errs, ValidationError{
				Field:   "history.path",
				Message: "is required unless history is disabled",
			})
		} else if filepath.IsAbs(cfg.History.Path) {
			errs = append(errs, ValidationError{
				Field:   "history.path",
				Message: "must be relative to the project root",
			})
		}
	}

	return errs
}
