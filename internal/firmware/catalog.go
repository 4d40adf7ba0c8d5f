package firmware

import (
	"fmt"
	"slices"

	"halconf-generator/internal/match"
)

// Catalog is the set of known boards and daughter boards. The built-in
// entries are loaded by NewCatalog; custom firmware may be added with Register.
// A Catalog is not safe for concurrent registration.
type Catalog struct {
	boards    []Board
	daughters []DaughterBoard
}

// NewCatalog returns a catalog holding the built-in boards and daughter boards.
func NewCatalog() *Catalog {
	return &Catalog{
		boards:    builtinBoards(),
		daughters: builtinDaughters(),
	}
}

// Boards returns all board/firmware pairs in registration order.
func (c *Catalog) Boards() []Board {
	return slices.Clone(c.boards)
}

// Titles returns the distinct board titles in registration order.
func (c *Catalog) Titles() []string {
	var out []string

	for _, b := range c.boards {
		if !slices.Contains(out, b.Title) {
			out = append(out, b.Title)
		}
	}

	return out
}

// Firmwares returns the firmware names available for a board title.
func (c *Catalog) Firmwares(title string) []string {
	var out []string

	for _, b := range c.boards {
		if b.Title == title {
			out = append(out, b.Firmware)
		}
	}

	return out
}

// Lookup returns the board loaded with the named firmware, with every
// component enabled.
func (c *Catalog) Lookup(title, fw string) (Board, error) {
	for _, b := range c.boards {
		if b.Title == title && b.Firmware == fw {
			return b, nil
		}
	}

	keys := make([]string, 0, len(c.boards))
	for _, b := range c.boards {
		keys = append(keys, b.Key())
	}

	err := fmt.Errorf("%w: %s/%s", ErrUnknownFirmware, title, fw)
	if s := match.Suggest(title+"/"+fw, keys, 3); len(s) > 0 {
		err = fmt.Errorf("%w (did you mean %v)", err, s)
	}

	return Board{}, err
}

// Register adds a custom board. The descriptor must be valid and its
// title/firmware pair must not already exist.
func (c *Catalog) Register(b Board) error {
	if err := Validate(b); err != nil {
		return err
	}

	for _, existing := range c.boards {
		if existing.Key() == b.Key() {
			return fmt.Errorf("%w: %s already registered", ErrInvalidFirmware, b.Key())
		}
	}

	b.Custom = true
	b.Counts = b.Max
	c.boards = append(c.boards, b)

	return nil
}

// Daughter returns the smart-serial daughter board with the given model.
func (c *Catalog) Daughter(model string) (DaughterBoard, error) {
	for _, d := range c.daughters {
		if d.Model == model {
			return d, nil
		}
	}

	models := make([]string, 0, len(c.daughters))
	for _, d := range c.daughters {
		models = append(models, d.Model)
	}

	err := fmt.Errorf("%w: unknown model %q", ErrIncompatibleDaughterBoard, model)
	if s := match.Suggest(model, models, 3); len(s) > 0 {
		err = fmt.Errorf("%w (did you mean %v)", err, s)
	}

	return DaughterBoard{}, err
}

// Daughters returns the known smart-serial daughter boards.
func (c *Catalog) Daughters() []DaughterBoard {
	return slices.Clone(c.daughters)
}
