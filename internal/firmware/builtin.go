package firmware

// Pin table builders. Each returns the rows of one connector in pin order.

func gpio(n int) []rawPin {
	out := make([]rawPin, n)
	for i := range out {
		out[i] = rawPin{Family: GPIOInput, Free: true}
	}

	return out
}

func fixed(f Family, n int) []rawPin {
	out := make([]rawPin, n)
	for i := range out {
		out[i] = rawPin{Family: f}
	}

	return out
}

// servoHalf is twelve pins carrying two encoders and two pwm generators.
func servoHalf(base int) []rawPin {
	return []rawPin{
		{EncoderIndex, base + 1, false},
		{EncoderIndex, base, false},
		{EncoderB, base + 1, false},
		{EncoderA, base + 1, false},
		{EncoderB, base, false},
		{EncoderA, base, false},
		{PWMDir, base + 1, false},
		{PWMDir, base, false},
		{PWMPulse, base + 1, false},
		{PWMPulse, base, false},
		{PWMEnable, base + 1, false},
		{PWMEnable, base, false},
	}
}

// servo is a 24 pin connector with four encoders and four pwm generators.
func servo(base int) []rawPin {
	return concat(servoHalf(base), servoHalf(base+2))
}

// stepDir is a step/dir pair for each stepgen in [first, first+n).
func stepDir(first, n int) []rawPin {
	var out []rawPin
	for i := first; i < first+n; i++ {
		out = append(out, rawPin{StepA, i, false}, rawPin{StepB, i, false})
	}

	return out
}

// stepPhase is six phase outputs for each stepgen in [first, first+n).
func stepPhase(first, n int) []rawPin {
	var out []rawPin
	for i := first; i < first+n; i++ {
		for _, f := range []Family{StepA, StepB, StepC, StepD, StepE, StepF} {
			out = append(out, rawPin{f, i, false})
		}
	}

	return out
}

func encoderABI(i int) []rawPin {
	return []rawPin{{EncoderA, i, false}, {EncoderB, i, false}, {EncoderIndex, i, false}}
}

func pwmPDE(i int) []rawPin {
	return []rawPin{{PWMPulse, i, false}, {PWMDir, i, false}, {PWMEnable, i, false}}
}

func tppwm(i int) []rawPin {
	return []rawPin{
		{TPPWMA, i, false}, {TPPWMB, i, false}, {TPPWMC, i, false},
		{TPPWMAN, i, false}, {TPPWMBN, i, false}, {TPPWMCN, i, false},
		{TPPWMEnable, i, false}, {TPPWMFault, i, false},
	}
}

func sserial(ch int) []rawPin {
	return []rawPin{{SSerialRX, ch, false}, {SSerialTX, ch, false}}
}

func concat(parts ...[]rawPin) []rawPin {
	var out []rawPin
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

const (
	mhz33  = 33_000_000
	mhz50  = 50_000_000
	mhz100 = 100_000_000
	mhz200 = 200_000_000
)

func builtinBoards() []Board {
	boards := []Board{
		{
			Title: "5i20", BoardName: "5i20", Driver: "hm2_pci", Firmware: "SVST8_4",
			ClockLow: mhz33, ClockHigh: mhz100,
			Connectors: []int{2, 3, 4}, PinsPerConnector: 24,
			Max:  Counts{Encoders: 8, PWMGens: 8, StepGens: 4},
			pins: concat(servo(0), servo(4), stepPhase(0, 4)),
		},
		{
			Title: "5i20", BoardName: "5i20", Driver: "hm2_pci", Firmware: "SVST2_8",
			ClockLow: mhz33, ClockHigh: mhz100,
			Connectors: []int{2, 3, 4}, PinsPerConnector: 24,
			Max: Counts{Encoders: 2, PWMGens: 2, StepGens: 8},
			pins: concat(
				servoHalf(0), gpio(12),
				stepDir(0, 6), gpio(12),
				stepDir(6, 2), gpio(20),
			),
		},
		{
			Title: "5i20", BoardName: "5i20", Driver: "hm2_pci", Firmware: "SV12",
			ClockLow: mhz33, ClockHigh: mhz100,
			Connectors: []int{2, 3, 4}, PinsPerConnector: 24,
			Max:  Counts{Encoders: 12, PWMGens: 12},
			pins: concat(servo(0), servo(4), servo(8)),
		},
		{
			Title: "7i43", BoardName: "7i43", Driver: "hm2_7i43", Firmware: "SV8",
			ClockLow: mhz50, ClockHigh: mhz100,
			Connectors: []int{3, 4}, PinsPerConnector: 24,
			Max:  Counts{Encoders: 8, PWMGens: 8},
			pins: concat(servo(0), servo(4)),
		},
		{
			Title: "7i43", BoardName: "7i43", Driver: "hm2_7i43", Firmware: "SVST4_4",
			ClockLow: mhz50, ClockHigh: mhz100,
			Connectors: []int{3, 4}, PinsPerConnector: 24,
			Max:  Counts{Encoders: 4, PWMGens: 4, StepGens: 4},
			pins: concat(servo(0), stepPhase(0, 4)),
		},
		{
			Title: "5i25", BoardName: "5i25", Driver: "hm2_pci", Firmware: "7i76x2",
			ClockLow: mhz100, ClockHigh: mhz200,
			Connectors: []int{2, 3}, PinsPerConnector: 17,
			Max: Counts{Encoders: 2, StepGens: 10, SSerialPorts: 1, SSerialChannels: 2},
			pins: concat(
				stepDir(0, 5), sserial(0), encoderABI(0), fixed(GPIOOutput, 2),
				stepDir(5, 5), sserial(1), encoderABI(1), fixed(GPIOOutput, 2),
			),
		},
		{
			Title: "5i25", BoardName: "5i25", Driver: "hm2_pci", Firmware: "7i77_7i76",
			ClockLow: mhz100, ClockHigh: mhz200,
			Connectors: []int{2, 3}, PinsPerConnector: 17,
			Max: Counts{Encoders: 5, StepGens: 5, SSerialPorts: 1, SSerialChannels: 3},
			pins: concat(
				encoderABI(0), encoderABI(1), encoderABI(2), encoderABI(3),
				sserial(0), sserial(1), gpio(1),
				stepDir(0, 5), sserial(2), encoderABI(4), fixed(GPIOOutput, 2),
			),
		},
		{
			Title: "5i25", BoardName: "5i25", Driver: "hm2_pci", Firmware: "prob_rfx2",
			ClockLow: mhz100, ClockHigh: mhz200,
			Connectors: []int{2, 3}, PinsPerConnector: 17,
			Max: Counts{Encoders: 2, PWMGens: 2, StepGens: 10},
			pins: concat(
				stepDir(0, 5), pwmPDE(0), encoderABI(0), fixed(GPIOInput, 1),
				stepDir(5, 5), pwmPDE(1), encoderABI(1), fixed(GPIOInput, 1),
			),
		},
		{
			Title: "7i80", BoardName: "7i80", Driver: "hm2_eth", Firmware: "SVTP6_7I39",
			ClockLow: mhz100, ClockHigh: mhz200,
			Connectors: []int{1, 2, 3}, PinsPerConnector: 24,
			Max: Counts{Encoders: 6, TPPWMGens: 6},
			pins: concat(
				tppwm(0), tppwm(1), tppwm(2),
				tppwm(3), tppwm(4), tppwm(5),
				encoderABI(0), encoderABI(1), encoderABI(2),
				encoderABI(3), encoderABI(4), encoderABI(5), gpio(6),
			),
		},
		{
			Title: "7i80", BoardName: "7i80", Driver: "hm2_eth", Firmware: "SVRES6",
			ClockLow: mhz100, ClockHigh: mhz200,
			Connectors: []int{1, 2, 3}, PinsPerConnector: 24,
			Max: Counts{Resolvers: 6, PWMGens: 6},
			pins: concat(
				[]rawPin{
					{ResolverChannel, 0, false}, {ResolverChannel, 1, false},
					{ResolverChannel, 2, false}, {ResolverChannel, 3, false},
					{ResolverChannel, 4, false}, {ResolverChannel, 5, false},
				},
				fixed(ResolverInterface, 6),
				pwmPDE(0), pwmPDE(1), pwmPDE(2), pwmPDE(3),
				pwmPDE(4), pwmPDE(5), gpio(18),
				gpio(24),
			),
		},
	}

	for i := range boards {
		boards[i].Counts = boards[i].Max
	}

	return boards
}
