// Package config provides configuration management for photos-takeout.
//
// It defines default values, the Config struct populated from CLI flags,
// an optional YAML configuration file (.photos-takeout), and XDG base
// directory helpers for the run history database.
package config
