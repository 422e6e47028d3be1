// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Upstream API keys are secrets and are read from the environment
// (MTA_API_KEY, BUSTIME_API_KEY) rather than the YAML file.
package config
