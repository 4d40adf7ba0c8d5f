// Package config loads the tool settings of halconf-generator: where
// generated files go, extra firmware directories and logging. Machine
// configurations are handled by package persist.
package config
