package config

import "time"

// Config is the top-level configuration for a build run. Every field has a
// default reproducing the canonical two-tier layout, so the tool runs with
// no config file at all.
type Config struct {
	Project   string          `yaml:"project"`
	Frontend  FrontendConfig  `yaml:"frontend"`
	Backend   BackendConfig   `yaml:"backend"`
	Commands  CommandsConfig  `yaml:"commands"`
	Report    ReportConfig    `yaml:"report"`
	History   HistoryConfig   `yaml:"history"`
	Toolchain ToolchainConfig `yaml:"toolchain"`
}

// FrontendConfig locates the frontend tree and its build artifacts. All
// paths are relative to the project root.
type FrontendConfig struct {
	Dir        string   `yaml:"dir"`
	BuildDir   string   `yaml:"build_dir"`
	DeployDir  string   `yaml:"deploy_dir"`
	TSConfig   string   `yaml:"tsconfig"`
	Components []string `yaml:"components"`
}

// BackendConfig locates the backend tree and its environment files.
type BackendConfig struct {
	Dir         string `yaml:"dir"`
	EnvFile     string `yaml:"env_file"`
	EnvTemplate string `yaml:"env_template"`
}

// CommandsConfig defines the shell commands the pipeline issues and their
// shared time limit.
type CommandsConfig struct {
	Install        string `yaml:"install"`
	TypeCheck      string `yaml:"type_check"`
	Build          string `yaml:"build"`
	Remediation    string `yaml:"remediation"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-command time limit.
func (c CommandsConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReportConfig controls the persisted status report.
type ReportConfig struct {
	File string `yaml:"file"`
}

// HistoryConfig controls the local run-history database.
type HistoryConfig struct {
	Path     string `yaml:"path"`
	Disabled bool   `yaml:"disabled"`
}

// ToolchainConfig sets the environment requirements probed before building.
type ToolchainConfig struct {
	MinNodeMajor int `yaml:"min_node_major"`
}
