// Package hcl implements the config.Loader interface for sweep definitions
// written in HCL. It parses `sweep` blocks and translates them into the
// format-agnostic config model consumed by the rest of the application.
package hcl
