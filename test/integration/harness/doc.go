// Package harness provides utilities for integration testing the grove CLI.
// It handles binary compilation, environment isolation, and command execution.
//
// Environment variables managed:
//   - GROVE_HOME: Isolated per test (temp directory)
//   - GROVE_DEBUG: Disabled to reduce noise
package harness
