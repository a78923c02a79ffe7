package config

import "errors"

// Error definitions for config package.
var (
	// Configuration file errors.
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileParse    = errors.New("failed to parse config file")
	// Configuration validation errors.
	ErrUnknownDefaultSystem = errors.New("default_system does not match any configured system")
	ErrInvalidTimeout       = errors.New("issue_creation.timeout is not a valid duration")
	// Target system resolution errors.
	ErrSystemNotConfigured = errors.New("system is not configured")
	ErrNoTargetSystem      = errors.New("no target system: set default_system or pass one explicitly")
)
