package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinhole/internal/snapshot"
	"github.com/mesh-intelligence/pinhole/pkg/log"
)

func (a *app) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <dir>",
		Short: "Write every table to a snapshot directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(a.withSession(func(s *session) error {
				m, err := snapshot.Export(cmd.Context(), s.store, args[0])
				if err != nil {
					return err
				}
				if a.jsonOut {
					return writeJSON(a.stdout, m)
				}
				fmt.Fprintf(a.stdout, "exported to %s\n", args[0])
				return writeTable(a.stdout, countRows(m.Tables))
			}))
		},
	}
}

type importOutput struct {
	Tables map[string]*snapshot.TableResult `json:"tables"`
	Errors []string                         `json:"errors,omitempty"`
}

func (a *app) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Add the records of a snapshot directory",
		Long: "import creates every record of the snapshot that does not exist\n" +
			"yet. A snapshot taken from an initialized database leaves this one\n" +
			"initialized too.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(a.withSession(func(s *session) error {
				res, err := snapshot.Import(cmd.Context(), s.store, args[0])
				if err != nil {
					return err
				}
				out := importOutput{Tables: res.Tables}
				for _, e := range res.Errors {
					out.Errors = append(out.Errors, e.Error())
				}
				if a.jsonOut {
					return writeJSON(a.stdout, out)
				}
				rows := [][2]string{{"FILE", "CREATED/SKIPPED/FAILED/MALFORMED"}}
				for _, name := range sortedKeys(res.Tables) {
					t := res.Tables[name]
					rows = append(rows, [2]string{name, fmt.Sprintf("%d/%d/%d/%d", t.Created, t.Skipped, t.Failed, t.Malformed)})
				}
				if err := writeTable(a.stdout, rows); err != nil {
					return err
				}
				for _, e := range res.Errors {
					a.logger.Warn("import record failed", log.Err(e))
				}
				return nil
			}))
		},
	}
}

func countRows(counts map[string]int) [][2]string {
	rows := [][2]string{{"FILE", "RECORDS"}}
	for _, name := range sortedKeys(counts) {
		rows = append(rows, [2]string{name, strconv.Itoa(counts[name])})
	}
	return rows
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
