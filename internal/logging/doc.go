// Package logging builds the zap logger used across halconf-generator from
// the tool configuration. File output is rotated with lumberjack.
package logging
