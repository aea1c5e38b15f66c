// Package config provides configuration structures and utilities for lessonpatch.
// It defines the run options supplied by the CLI, the optional YAML
// configuration file, and the built-in lesson registries and theme rules.
package config
