// Package main provides the CLI entrypoint for halconf-generator.
//
// halconf-generator keeps a machine configuration in a YAML file and turns it
// into the HAL netlist and INI parameter file of a LinuxCNC machine:
//   - new, board, daughter: choose the machine and its interface boards
//   - assign, invert, pintype, pins: place signals on pins
//   - scale, check: compute axis scales and look for mistakes
//   - generate: write the configuration files
package main

import (
	"os"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		errorf(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
