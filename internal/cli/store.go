package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
	"github.com/mesh-intelligence/pinhole/internal/paths"
	"github.com/mesh-intelligence/pinhole/internal/sqlite"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// session is an attached store and the coordinator guarding it.
type session struct {
	store   *sqlite.Backend
	coord   *bootstrap.Coordinator
	dataDir string
}

// resolveDataDir applies flag > config.yaml > PINHOLE_DATA_DIR > default.
func (a *app) resolveDataDir() (string, error) {
	dir, err := paths.ResolveDataDir(a.dataDir, a.cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}
	return dir, nil
}

// withSession attaches the store, runs fn and detaches, waiting first for
// any background marker write the coordinator started.
func (a *app) withSession(fn func(s *session) error) error {
	dataDir, err := a.resolveDataDir()
	if err != nil {
		return err
	}
	bcfg, err := bootstrapConfig(a.cfg)
	if err != nil {
		return err
	}

	store := sqlite.NewBackend()
	if err := store.Attach(types.Config{Backend: a.cfg.GetString(cfgKeyBackend), DataDir: dataDir}); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	defer store.Detach()

	metrics, err := bootstrap.NewMetrics(a.meters)
	if err != nil {
		return fmt.Errorf("bootstrap metrics: %w", err)
	}
	coord, err := bootstrap.New(store, bcfg,
		bootstrap.WithLogger(a.logger),
		bootstrap.WithMetrics(metrics),
		bootstrap.WithStoreProbe(store),
		bootstrap.WithAlerter(&consoleAlerter{w: a.stderr}),
	)
	if err != nil {
		return err
	}
	defer coord.Wait()

	return fn(&session{store: store, coord: coord, dataDir: dataDir})
}

// consoleAlerter shows alerts on the terminal.
type consoleAlerter struct {
	w io.Writer
}

func (c *consoleAlerter) Alert(_ context.Context, title, message string) error {
	heading := color.New(color.FgYellow, color.Bold).Sprintf("%s:", title)
	_, err := fmt.Fprintf(c.w, "%s %s\n", heading, message)
	return err
}
