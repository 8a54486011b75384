// Package config defines the format-agnostic model of animation definitions,
// along with the Loader interface implemented by the format-specific packages
// (HCL, YAML).
//
// The `config.Model` is the single source of truth for the session package.
// A model lists animations, each with the archive holding its frames and the
// controls that drive its parameters, plus the sync pairs that bind
// parameters of two animations together.
package config
