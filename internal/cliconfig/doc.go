// Package cliconfig loads somasync configuration from a TOML file, SOMA_*
// environment variables, and command-line flags, with flags taking the
// highest precedence. It also provides a filesystem watcher for runtime
// reload of tunable settings.
package cliconfig
