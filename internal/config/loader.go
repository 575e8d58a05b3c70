package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lucasnoah/buildfix/internal/toolchain"
)

// Config file names searched in the project root, in order.
const (
	DefaultFileName = "buildfix.yaml"
	AltFileName     = ".buildfix.yaml"
)

// Load reads and parses a build configuration from the given YAML file path.
// After parsing, it fills unset fields with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault searches the project root for buildfix.yaml then .buildfix.yaml
// and loads the first one found. A project with no config file is not an
// error: the defaults fully describe the canonical two-tier layout.
func LoadDefault(projectDir string) (*Config, error) {
	for _, name := range []string{DefaultFileName, AltFileName} {
		path := filepath.Join(projectDir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return Default(), nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills every zero field with the canonical layout. Derived
// paths (build dir, tsconfig, component inventory) follow the frontend dir
// so overriding it keeps the rest consistent.
func applyDefaults(cfg *Config) {
	if cfg.Project == "" {
		cfg.Project = "Air Quality Monitoring App"
	}

	f := &cfg.Frontend
	if f.Dir == "" {
		f.Dir = "frontend"
	}
	if f.BuildDir == "" {
		f.BuildDir = filepath.Join(f.Dir, "dist")
	}
	if f.DeployDir == "" {
		f.DeployDir = "public"
	}
	if f.TSConfig == "" {
		f.TSConfig = filepath.Join(f.Dir, "tsconfig.json")
	}
	if len(f.Components) == 0 {
		f.Components = defaultComponents(f.Dir)
	}

	b := &cfg.Backend
	if b.Dir == "" {
		b.Dir = "."
	}
	if b.EnvFile == "" {
		b.EnvFile = ".env"
	}
	if b.EnvTemplate == "" {
		b.EnvTemplate = ".env.example"
	}

	c := &cfg.Commands
	if c.Install == "" {
		c.Install = "npm install"
	}
	if c.TypeCheck == "" {
		c.TypeCheck = "npm run type-check"
	}
	if c.Build == "" {
		c.Build = "npm run build"
	}
	if c.Remediation == "" {
		c.Remediation = "npm install @types/node --save-dev"
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = 300
	}

	if cfg.Report.File == "" {
		cfg.Report.File = "build-report.txt"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(".buildfix", "history.db")
	}
	if cfg.Toolchain.MinNodeMajor == 0 {
		cfg.Toolchain.MinNodeMajor = toolchain.MinNodeMajor
	}
}

// defaultComponents lists the frontend source files whose presence the
// inventory stage reports.
func defaultComponents(dir string) []string {
	rels := []string{
		"src/main.tsx",
		"src/App.tsx",
		"src/context/AirQualityContext.tsx",
		"src/components/LoadingSpinner.tsx",
		"src/components/ErrorBoundary.tsx",
		"src/components/AQICard.tsx",
		"src/components/WeatherCard.tsx",
		"src/components/AlertsPanel.tsx",
		"src/components/TrendChart.tsx",
	}
	out := make([]string, len(rels))
	for i, rel := range rels {
		out[i] = filepath.Join(dir, rel)
	}
	return out
}
