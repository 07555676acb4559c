package cli

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinhole/internal/bootstrap"
)

type taskOutput struct {
	Name    string `json:"name"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

type initOutput struct {
	ConfigWritten bool         `json:"config_written"`
	DataDir       string       `json:"data_dir"`
	Seeded        bool         `json:"seeded"`
	DurationMS    int64        `json:"duration_ms,omitempty"`
	Tasks         []taskOutput `json:"tasks,omitempty"`
}

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and seed the database",
		Long: "init writes a default config.yaml when none exists, opens the\n" +
			"database and seeds it unless it is already initialized. Running it\n" +
			"again is safe.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(a.runInit(cmd))
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	dataDir := a.dataDir
	if dataDir != "" {
		abs, err := filepath.Abs(dataDir)
		if err != nil {
			return fmt.Errorf("resolve data dir: %w", err)
		}
		dataDir = abs
	}
	written, err := writeConfigIfMissing(a.configDir, dataDir)
	if err != nil {
		return err
	}

	return a.withSession(func(s *session) error {
		if err := s.coord.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		out := initOutput{ConfigWritten: written, DataDir: s.dataDir}
		if report := s.coord.LastReport(); report != nil {
			out.Seeded = true
			out.DurationMS = report.Duration().Milliseconds()
			out.Tasks = tasksOutput(report)
		}
		if a.jsonOut {
			return writeJSON(a.stdout, out)
		}
		return a.printInit(out)
	})
}

func tasksOutput(r *bootstrap.Report) []taskOutput {
	out := make([]taskOutput, 0, len(r.Tasks))
	for _, t := range r.Tasks {
		out = append(out, taskOutput{Name: t.Name, Created: t.Created, Skipped: t.Skipped, Failed: len(t.Failures)})
	}
	return out
}

func (a *app) printInit(out initOutput) error {
	if !out.Seeded {
		fmt.Fprintf(a.stdout, "pinhole already initialized (%s)\n", out.DataDir)
		return nil
	}
	fmt.Fprintf(a.stdout, "pinhole initialized (%s) in %dms\n", out.DataDir, out.DurationMS)
	rows := [][2]string{{"TASK", "CREATED/SKIPPED/FAILED"}}
	for _, t := range out.Tasks {
		rows = append(rows, [2]string{t.Name,
			strconv.Itoa(t.Created) + "/" + strconv.Itoa(t.Skipped) + "/" + strconv.Itoa(t.Failed)})
	}
	return writeTable(a.stdout, rows)
}
