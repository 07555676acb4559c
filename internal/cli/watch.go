package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
	"github.com/mesh-intelligence/pinhole/internal/paths"
	"github.com/mesh-intelligence/pinhole/pkg/log"
)

const defaultDebounce = 300 * time.Millisecond

func (a *app) watchCmd() *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-apply preferences.toml whenever it changes",
		Long: "watch seeds the database if needed, applies preferences.toml and\n" +
			"then applies it again after every change until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(a.withSession(func(s *session) error {
				w := &prefsWatcher{
					path:     paths.PreferencesFile(a.configDir),
					debounce: debounce,
					logger:   a.logger,
					apply: func(ctx context.Context, prefs bootstrap.UserSettings) error {
						if prefs.DeviceInstallID == "" {
							prefs.DeviceInstallID = storedInstallID(ctx, s.store)
						}
						if err := s.coord.BootstrapWithUserSettings(ctx, prefs); err != nil {
							return err
						}
						fmt.Fprintf(a.stdout, "%s preferences applied\n", time.Now().Format(time.TimeOnly))
						return nil
					},
				}
				fmt.Fprintf(a.stdout, "watching %s\n", w.path)
				return w.Run(cmd.Context())
			}))
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", defaultDebounce, "quiet period before applying a change")
	return cmd
}

// prefsWatcher applies a preferences file once at start and again after
// each burst of changes to it.
type prefsWatcher struct {
	path     string
	debounce time.Duration
	logger   log.Logger
	apply    func(context.Context, bootstrap.UserSettings) error
}

// Run watches until ctx is done. The parent directory is watched so that
// editors replacing the file by rename are seen.
func (w *prefsWatcher) Run(ctx context.Context) error {
	dir, name := filepath.Split(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	if _, err := os.Stat(w.path); err == nil {
		w.reload(ctx)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watching preferences", log.Err(err))
		case <-timer.C:
			w.reload(ctx)
		}
	}
}

func (w *prefsWatcher) reload(ctx context.Context) {
	prefs, err := loadPreferences(w.path, bootstrap.DefaultUserSettings(""))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			w.logger.Warn("reading preferences", log.String("path", w.path), log.Err(err))
		}
		return
	}
	if err := w.apply(ctx, prefs); err != nil {
		w.logger.Error("applying preferences", log.String("path", w.path), log.Err(err))
	}
}
