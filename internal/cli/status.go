package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

type statusOutput struct {
	Initialized bool           `json:"initialized"`
	DataDir     string         `json:"data_dir"`
	Counts      map[string]int `json:"counts"`
}

// countOrder fixes the text output order.
var countOrder = []string{"locations", "settings", "tip_types", "tips", "camera_profiles"}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the database is initialized",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return classify(a.withSession(func(s *session) error {
				ctx := cmd.Context()
				counts, err := countRecords(ctx, s.store)
				if err != nil {
					return err
				}
				out := statusOutput{
					Initialized: s.coord.IsInitialized(ctx),
					DataDir:     s.dataDir,
					Counts:      counts,
				}
				if a.jsonOut {
					return writeJSON(a.stdout, out)
				}
				rows := [][2]string{
					{"initialized", strconv.FormatBool(out.Initialized)},
					{"data_dir", out.DataDir},
				}
				for _, name := range countOrder {
					rows = append(rows, [2]string{name, strconv.Itoa(counts[name])})
				}
				return writeTable(a.stdout, rows)
			}))
		},
	}
}

func countRecords(ctx context.Context, uow types.UnitOfWork) (map[string]int, error) {
	counts := make(map[string]int, len(countOrder))

	n, err := uow.Locations().Count(ctx)
	if err != nil {
		return nil, err
	}
	counts["locations"] = n

	settings, err := uow.Settings().List(ctx)
	if err != nil {
		return nil, err
	}
	counts["settings"] = len(settings)

	tipTypes, err := uow.TipTypes().List(ctx)
	if err != nil {
		return nil, err
	}
	counts["tip_types"] = len(tipTypes)

	if n, err = uow.Tips().Count(ctx); err != nil {
		return nil, err
	}
	counts["tips"] = n

	profiles, err := uow.CameraProfiles().List(ctx)
	if err != nil {
		return nil, err
	}
	counts["camera_profiles"] = len(profiles)
	return counts, nil
}
