// Package config builds the lending engine's runtime configuration: database DSNs and pools,
// the reloadable loan policy, and the OpenTelemetry providers used by the CLI.
package config
