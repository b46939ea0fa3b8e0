// Package config loads the harness configuration from YAML or JSON.
package config
