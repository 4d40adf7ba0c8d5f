package firmware

import "fmt"

// SubPinCount is the number of sub-pin slots every smart-serial daughter board exposes.
const SubPinCount = 60

// SubPin is one slot of a smart-serial daughter board.
type SubPin struct {
	Slot
	// Name is the hal pin stem, e.g. "output-03" or "spinout".
	Name string
}

// TerminalBlock labels a run of sub-pins by the connector they sit on.
type TerminalBlock struct {
	Name  string
	First int
	Last  int
}

// DaughterBoard describes a smart-serial daughter board in one of its modes.
type DaughterBoard struct {
	Model     string
	Component string
	Mode      int
	Pins      []SubPin
	Blocks    []TerminalBlock
}

// SubPin returns the slot at index i.
func (d DaughterBoard) SubPin(i int) (SubPin, error) {
	if i < 0 || i >= len(d.Pins) {
		return SubPin{}, fmt.Errorf("%w: %s sub-pin %d", ErrPinOutOfRange, d.Model, i)
	}

	return d.Pins[i], nil
}

// Siblings returns the indexes of sub-pins sharing component and instance with pin i.
func (d DaughterBoard) Siblings(i int) []int {
	self := d.Pins[i]

	g := self.Family.Group()
	if g == GroupGPIO || g == GroupNone {
		return nil
	}

	var out []int

	for j, p := range d.Pins {
		if j != i && p.Family.Group() == g && p.Instance == self.Instance {
			out = append(out, j)
		}
	}

	return out
}

type subPinBuilder struct {
	pins []SubPin
}

func newSubPins() *subPinBuilder {
	return &subPinBuilder{pins: make([]SubPin, 0, SubPinCount)}
}

func (b *subPinBuilder) run(f Family, n int, free bool, stem string) *subPinBuilder {
	for i := range n {
		b.pins = append(b.pins, SubPin{
			Slot: Slot{Family: f, Free: free},
			Name: fmt.Sprintf("%s-%02d", stem, i),
		})
	}

	return b
}

func (b *subPinBuilder) one(f Family, instance int, name string) *subPinBuilder {
	b.pins = append(b.pins, SubPin{Slot: Slot{Family: f, Instance: instance}, Name: name})

	return b
}

func (b *subPinBuilder) build() []SubPin {
	for len(b.pins) < SubPinCount {
		b.pins = append(b.pins, SubPin{Slot: Slot{Family: Unused}})
	}

	return b.pins[:SubPinCount]
}

func builtinDaughters() []DaughterBoard {
	io7i76 := func() *subPinBuilder {
		return newSubPins().
			run(GPIOOutput, 16, false, "output").
			run(GPIOInput, 32, false, "input").
			one(PotOutput, 0, "spinout").
			one(PotEnable, 0, "spinena").
			one(PotDir, 0, "spindir")
	}

	blocks7i76 := []TerminalBlock{{"TB3 outputs", 0, 15}, {"TB5/TB6 inputs", 16, 47}, {"TB4 spindle", 48, 50}}

	return []DaughterBoard{
		{
			Model: "7i76-m0", Component: "7i76", Mode: 0,
			Pins: io7i76().build(), Blocks: blocks7i76,
		},
		{
			Model: "7i76-m2", Component: "7i76", Mode: 2,
			Pins: io7i76().
				one(AnalogIn, 0, "analogin0").
				one(AnalogIn, 1, "analogin1").
				one(AnalogIn, 2, "analogin2").
				one(AnalogIn, 3, "analogin3").
				build(),
			Blocks: append(blocks7i76, TerminalBlock{"field analog", 51, 54}),
		},
		{
			Model: "7i77-m0", Component: "7i77", Mode: 0,
			Pins: newSubPins().
				run(GPIOOutput, 16, false, "output").
				run(GPIOInput, 32, false, "input").
				one(AnalogOutput, 0, "analogout0").
				one(AnalogOutput, 1, "analogout1").
				one(AnalogOutput, 2, "analogout2").
				one(AnalogOutput, 3, "analogout3").
				one(AnalogOutput, 4, "analogout4").
				one(AnalogOutput, 5, "analogout5").
				build(),
			Blocks: []TerminalBlock{{"TB8 outputs", 0, 15}, {"TB3/TB4 inputs", 16, 47}, {"TB5 analog", 48, 53}},
		},
		{
			Model: "7i69-m0", Component: "7i69", Mode: 0,
			Pins:   newSubPins().run(GPIOInput, 48, true, "gpio").build(),
			Blocks: []TerminalBlock{{"P1", 0, 23}, {"P2", 24, 47}},
		},
		{
			Model: "7i70-m0", Component: "7i70", Mode: 0,
			Pins:   newSubPins().run(GPIOInput, 48, false, "input").build(),
			Blocks: []TerminalBlock{{"TB3", 0, 23}, {"TB2", 24, 47}},
		},
		{
			Model: "7i71-m0", Component: "7i71", Mode: 0,
			Pins:   newSubPins().run(GPIOOutput, 48, false, "output").build(),
			Blocks: []TerminalBlock{{"TB3", 0, 23}, {"TB2", 24, 47}},
		},
		{
			Model: "7i73-m0", Component: "7i73", Mode: 0,
			Pins: newSubPins().
				run(GPIOInput, 16, false, "input").
				run(GPIOOutput, 2, false, "output").
				one(EncoderA, 0, "enc0").
				one(EncoderA, 1, "enc1").
				one(EncoderA, 2, "enc2").
				one(EncoderA, 3, "enc3").
				one(AnalogIn, 0, "analogin0").
				one(AnalogIn, 1, "analogin1").
				one(AnalogIn, 2, "analogin2").
				one(AnalogIn, 3, "analogin3").
				build(),
			Blocks: []TerminalBlock{{"keys", 0, 15}, {"outputs", 16, 17}, {"mpg", 18, 21}, {"analog", 22, 25}},
		},
		{
			Model: "7i84-m0", Component: "7i84", Mode: 0,
			Pins: newSubPins().
				run(GPIOInput, 32, false, "input").
				run(GPIOOutput, 16, false, "output").
				build(),
			Blocks: []TerminalBlock{{"TB3/TB2 inputs", 0, 31}, {"TB4 outputs", 32, 47}},
		},
		{
			Model: "8i20", Component: "8i20", Mode: 0,
			Pins: newSubPins().one(Amp8i20, 0, "amp").build(),
		},
	}
}

// ConnectorDaughter is a plain (non smart-serial) daughter board plugged on a
// mainboard connector and the pwm setup it needs.
type ConnectorDaughter struct {
	Model     string
	Mode      PWMMode
	Frequency int
}

var connectorDaughters = []ConnectorDaughter{
	{Model: "7i29", Mode: ModePWM, Frequency: 20_000},
	{Model: "7i30", Mode: ModePWM, Frequency: 20_000},
	{Model: "7i33", Mode: ModePDM, Frequency: 6_000_000},
	{Model: "7i40", Mode: ModePWM, Frequency: 50_000},
	{Model: "7i48", Mode: ModeUDM, Frequency: 24_000},
}

// LookupConnectorDaughter returns the requirements of a connector daughter board.
func LookupConnectorDaughter(model string) (ConnectorDaughter, bool) {
	for _, d := range connectorDaughters {
		if d.Model == model {
			return d, true
		}
	}

	return ConnectorDaughter{}, false
}

// ConnectorDaughters lists the known connector daughter boards.
func ConnectorDaughters() []ConnectorDaughter {
	return append([]ConnectorDaughter(nil), connectorDaughters...)
}
