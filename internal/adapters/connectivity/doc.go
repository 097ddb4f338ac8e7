// Package connectivity provides ConnectivityMonitor implementations: an
// HTTP prober for standalone use and a manually driven monitor for host
// applications and tests.
package connectivity
