package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"halconf-generator/internal/config"
	"halconf-generator/internal/firmware"
	"halconf-generator/internal/logging"
	"halconf-generator/internal/machine"
	"halconf-generator/internal/persist"
	"halconf-generator/internal/resolve"
	"halconf-generator/internal/signal"
)

// tool holds what every command needs: settings, logger and the firmware
// catalog with custom descriptors registered.
type tool struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *firmware.Catalog
}

func (t *tool) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String(flagConfig))
	if err != nil {
		return err
	}

	if c.Bool(flagDebug) {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}

	t.cfg = cfg
	t.logger = logger
	t.catalog = firmware.NewCatalog()

	for _, dir := range cfg.Firmware.CustomDirs {
		n, err := t.catalog.LoadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to load custom firmware: %w", err)
		}

		t.logger.Info("loaded custom firmware", zap.String("dir", dir), zap.Int("boards", n))
	}

	return nil
}

func (t *tool) teardown(*cli.Context) error {
	if t.logger != nil {
		// stderr cannot always be synced
		_ = t.logger.Sync()
	}

	return nil
}

// session is one machine file opened for reading or editing.
type session struct {
	path string
	m    *machine.MachineConfig
	ns   *signal.Namespace
	r    *resolve.Resolver
}

func (t *tool) open(c *cli.Context) (*session, error) {
	path := c.String(flagMachine)

	doc, err := persist.LoadFile(path)
	if err != nil {
		return nil, err
	}

	ns := signal.NewNamespace(t.logger)

	m, err := persist.Load(doc, t.catalog, ns, persist.WithLogger(t.logger))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return t.session(path, m, ns), nil
}

func (t *tool) session(path string, m *machine.MachineConfig, ns *signal.Namespace) *session {
	return &session{
		path: path,
		m:    m,
		ns:   ns,
		r:    resolve.New(m, ns, t.catalog, resolve.WithLogger(t.logger)),
	}
}

func (s *session) save() error {
	doc, err := persist.Save(s.m, s.ns)
	if err != nil {
		return err
	}

	return persist.WriteFile(doc, s.path)
}

// edit opens the machine file, applies fn and saves the result.
func (t *tool) edit(c *cli.Context, fn func(*session) error) error {
	s, err := t.open(c)
	if err != nil {
		return err
	}

	if err := fn(s); err != nil {
		return err
	}

	return s.save()
}
