// Package config provides configuration management for suno-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Environment variable overrides (SUNO_ prefix)
//   - Conversion to options for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads into ./songs with 4 workers and 3 attempts per song
//
// # Loading from File
//
//	settings, err := config.Load("suno.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//	if err := settings.LoadFromEnv(); err != nil {
//	    // malformed SUNO_* variable
//	}
//	if err := settings.Validate(); err != nil {
//	    // unusable settings
//	}
package config
