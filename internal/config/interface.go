package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads sweep definitions from the given paths, each of which may
	// be a single file or a directory searched recursively, and translates
	// them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
