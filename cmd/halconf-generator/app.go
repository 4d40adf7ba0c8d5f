package main

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagConfig  = "config"
	flagDebug   = "debug"
	flagMachine = "machine"
)

func newApp(out io.Writer) *cli.App {
	t := &tool{}

	return &cli.App{
		Name:            "halconf-generator",
		Usage:           "build LinuxCNC HAL and INI files for mesa and parallel port machines",
		HideHelpCommand: true,
		Writer:          out,
		ErrWriter:       out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "load tool configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:    flagMachine,
				Aliases: []string{"m"},
				Value:   "machine.yaml",
				Usage:   "machine configuration `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
		},
		Before: t.setup,
		After:  t.teardown,
		Commands: []*cli.Command{
			{
				Name:   "boards",
				Usage:  "list the known boards, firmware and daughter boards",
				Action: t.boardsAction,
			},
			{
				Name:  "signals",
				Usage: "list the signal names that can be placed on pins",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "only list signals of `KIND`"},
				},
				Action: t.signalsAction,
			},
			{
				Name:      "new",
				Usage:     "create a machine configuration",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "units", Value: "mm", Usage: "linear units, mm or inch"},
					&cli.StringFlag{Name: "axes", Value: "XYZ", Usage: "configured coordinates"},
					&cli.StringFlag{Name: "frontend", Value: "axis", Usage: "axis, tklinuxcnc or touchy"},
					&cli.StringSliceFlag{Name: "board", Usage: "add a mesa board as `TITLE/FIRMWARE`"},
					&cli.StringSliceFlag{Name: "parport", Usage: "add a parallel port as `ADDRESS[:in|out]`"},
					&cli.BoolFlag{Name: "force", Usage: "replace an existing machine file"},
				},
				Action: t.newAction,
			},
			{
				Name:      "board",
				Usage:     "select or change the mesa board in a slot",
				ArgsUsage: "<slot> [TITLE/FIRMWARE]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "encoders"},
					&cli.IntFlag{Name: "resolvers"},
					&cli.IntFlag{Name: "pwmgens"},
					&cli.IntFlag{Name: "tppwmgens"},
					&cli.IntFlag{Name: "stepgens"},
					&cli.IntFlag{Name: "sserial-channels"},
					&cli.IntFlag{Name: "pwm-frequency", Usage: "pwm frequency in Hz"},
					&cli.IntFlag{Name: "pdm-frequency", Usage: "pdm frequency in Hz"},
					&cli.IntFlag{Name: "watchdog", Usage: "watchdog timeout in ns"},
					&cli.BoolFlag{Name: "remove", Usage: "remove the board from the slot"},
				},
				Action: t.boardAction,
			},
			{
				Name:      "daughter",
				Usage:     "fit a smart-serial daughter board, or declare one on a connector",
				ArgsUsage: "<slot> <channel|connector> <model|none>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "connector", Usage: "the second argument is a connector number"},
				},
				Action: t.daughterAction,
			},
			{
				Name:      "assign",
				Usage:     "place a signal on a pin; new names become custom signals",
				ArgsUsage: "<location> <signal|unused>",
				Action:    t.assignAction,
			},
			{
				Name:      "invert",
				Usage:     "invert a pin",
				ArgsUsage: "<location>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "off", Usage: "clear the inversion"},
				},
				Action: t.invertAction,
			},
			{
				Name:      "pintype",
				Usage:     "change the type of a pin where the firmware allows it",
				ArgsUsage: "<location> <type>",
				Action:    t.pinTypeAction,
			},
			{
				Name:  "pins",
				Usage: "list the pins of the machine",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "used", Usage: "only list pins carrying a signal"},
				},
				Action: t.pinsAction,
			},
			{
				Name:      "scale",
				Usage:     "compute the step and encoder scales of an axis",
				ArgsUsage: "<axis>",
				Action:    t.scaleAction,
			},
			{
				Name:  "check",
				Usage: "look for configuration mistakes",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "strict", Usage: "fail when there are warnings"},
				},
				Action: t.checkAction,
			},
			{
				Name:  "generate",
				Usage: "write the HAL, INI and companion files",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output `DIR`, overrides the tool configuration"},
					&cli.BoolFlag{Name: "overwrite-custom", Usage: "replace existing custom hal files"},
				},
				Action: t.generateAction,
			},
		},
	}
}
