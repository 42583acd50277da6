// Package config manages persistent user settings stored in
// ~/.nodedep/config.yaml, with NODEDEP_* environment overrides.
package config
