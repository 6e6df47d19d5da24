// Package app wires the application together: it builds the logger, loads
// sweep definitions through a config.Loader, and drives the executor over
// the expanded grid.
package app
