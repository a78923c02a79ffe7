// Package config provides configuration management functionality for the spec-sync application.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lerenn/spec-sync/pkg/ticketing"
	"gopkg.in/yaml.v3"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=config.go -destination=mockconfig.gen.go -package=config

// Config represents the team configuration: which ticketing systems are
// available, which one is the default target, and how synchronization
// runs behave.
type Config struct {
	// DefaultSystem is the ticketing system used when no explicit
	// target is given. Must name a key under Systems when set.
	DefaultSystem string `yaml:"default_system,omitempty"`

	// Systems holds one section per configured ticketing backend,
	// keyed by system name (linear, github, jira).
	Systems map[string]ticketing.SystemConfig `yaml:"systems,omitempty"`

	// IssueCreation controls synchronization run behavior.
	IssueCreation CreationConfig `yaml:"issue_creation,omitempty"`

	// Templates decorates issues per category (epic, story, task)
	// before creation.
	Templates map[string]IssueTemplate `yaml:"templates,omitempty"`

	// LedgerPath locates the run history database. An empty path
	// disables history recording.
	LedgerPath string `yaml:"ledger_path,omitempty"`
}

// CreationConfig holds the issue creation behavior flags.
type CreationConfig struct {
	Enabled           bool `yaml:"enabled"`
	DryRun            bool `yaml:"dry_run,omitempty"`
	ApplyTemplates    bool `yaml:"apply_templates,omitempty"`
	UpdateSourceLinks bool `yaml:"update_source_links,omitempty"`

	// Timeout bounds a whole synchronization run (e.g. "5m", "90s").
	// Parsed by time.ParseDuration; empty means unbounded.
	Timeout string `yaml:"timeout,omitempty"`
}

// TimeoutDuration parses the run timeout. A zero duration means the run
// is unbounded.
func (c CreationConfig) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Timeout)
	}

	return d, nil
}

// IssueTemplate describes how issues of one category are decorated
// before creation. Title and Description are text/template patterns
// evaluated against the issue; Labels are appended to the issue's own.
type IssueTemplate struct {
	Title       string   `yaml:"title,omitempty"`
	Description string   `yaml:"description,omitempty"`
	Labels      []string `yaml:"labels,omitempty"`
}

// Manager interface provides configuration management functionality.
type Manager interface {
	LoadConfig(configPath string) (*Config, error)
	DefaultConfig() *Config
}

type realManager struct {
	// No fields needed for basic configuration operations
}

// NewManager creates a new Manager instance.
func NewManager() Manager {
	return &realManager{}
}

// LoadConfig loads configuration from the specified file path. Fields
// absent from the file keep their default values.
func (c *realManager) LoadConfig(configPath string) (*Config, error) {
	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML over the defaults so absent fields keep them
	config := c.DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigFileParse, err)
	}

	// Expand tildes in configured paths
	config.LedgerPath = expandTilde(config.LedgerPath)

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// DefaultConfig returns the default configuration.
func (c *realManager) DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home directory cannot be determined
		homeDir = "."
	}

	return &Config{
		Systems: map[string]ticketing.SystemConfig{},
		IssueCreation: CreationConfig{
			Enabled:        true,
			ApplyTemplates: true,
			Timeout:        "5m",
		},
		LedgerPath: filepath.Join(homeDir, ".specsync", "history.db"),
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	for name, systemConfig := range c.Systems {
		if err := systemConfig.Validate(name); err != nil {
			return fmt.Errorf("system %s: %w", name, err)
		}
	}

	if c.DefaultSystem != "" {
		if _, ok := c.Systems[c.DefaultSystem]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDefaultSystem, c.DefaultSystem)
		}
	}

	if _, err := c.IssueCreation.TimeoutDuration(); err != nil {
		return err
	}

	return nil
}

// SystemConfig returns the configuration section for the named system.
func (c *Config) SystemConfig(name string) (ticketing.SystemConfig, bool) {
	systemConfig, ok := c.Systems[name]
	return systemConfig, ok
}

// ConfiguredSystems returns the names of all configured systems, sorted.
func (c *Config) ConfiguredSystems() []string {
	names := make([]string, 0, len(c.Systems))
	for name := range c.Systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveSystem picks the target system name: an explicit name wins,
// then the configured default, then a sole configured system. Several
// configured systems without a default require an explicit choice.
func (c *Config) ResolveSystem(explicit string) (string, error) {
	if explicit != "" {
		if _, ok := c.Systems[explicit]; !ok {
			return "", fmt.Errorf("%w: %s", ErrSystemNotConfigured, explicit)
		}
		return explicit, nil
	}

	if c.DefaultSystem != "" {
		return c.DefaultSystem, nil
	}

	if names := c.ConfiguredSystems(); len(names) == 1 {
		return names[0], nil
	}

	return "", ErrNoTargetSystem
}

// LoadConfigWithFallback loads configuration from file with fallback to default.
func LoadConfigWithFallback(configPath string) (*Config, error) {
	manager := NewManager()

	// Try to load from file first
	if config, err := manager.LoadConfig(configPath); err == nil {
		return config, nil
	}

	// Fallback to default configuration
	return manager.DefaultConfig(), nil
}

// DefaultConfigPath returns the conventional configuration file location.
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".specsync", "config.yaml")
}

// expandTilde resolves a leading ~ against the user home directory.
func expandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
