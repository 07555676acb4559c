package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/pinhole/pkg/types"
)

// Built-in task names.
const (
	TaskTips           = "tips"
	TaskLocations      = "locations"
	TaskSettings       = "settings"
	TaskCameraProfiles = "camera_profiles"
)

// DefaultTasks returns the built-in seed tasks. now stamps time-valued base
// settings.
func DefaultTasks(now func() time.Time) []SeedTask {
	if now == nil {
		now = time.Now
	}
	return []SeedTask{
		{Name: TaskTips, Run: seedTips},
		{Name: TaskLocations, Run: seedLocations},
		{Name: TaskSettings, Run: func(ctx context.Context, run *TaskRun) error {
			return seedSettings(ctx, run, now())
		}},
		{Name: TaskCameraProfiles, Run: seedCameraProfiles},
	}
}

// seedTips creates the tip types, then one tip per type. A tip whose type
// could not be created fails on its own without affecting the others.
func seedTips(ctx context.Context, run *TaskRun) error {
	err := Seed(ctx, run, builtInTipTypes,
		func(b builtInTipType) string { return "tip type " + b.name },
		func(ctx context.Context, b builtInTipType) error {
			_, err := run.Store().TipTypes().Create(ctx, &types.TipType{Name: b.name, I8n: defaultLocale})
			return err
		},
	)
	if err != nil {
		return err
	}

	// Types skipped as duplicates still need their IDs.
	existing, err := run.Store().TipTypes().List(ctx)
	if err != nil {
		return fmt.Errorf("listing tip types: %w", err)
	}
	ids := make(map[string]string, len(existing))
	for _, tt := range existing {
		ids[tt.Name] = tt.TipTypeID
	}

	return Seed(ctx, run, builtInTipTypes,
		func(b builtInTipType) string { return "tip " + b.tip.title },
		func(ctx context.Context, b builtInTipType) error {
			id, ok := ids[b.name]
			if !ok {
				return fmt.Errorf("tip type %s: %w", b.name, types.ErrNotFound)
			}
			tips, err := run.Store().Tips().ListByType(ctx, id)
			if err != nil {
				return err
			}
			for _, t := range tips {
				if t.Title == b.tip.title {
					return types.ErrDuplicateName
				}
			}
			_, err = run.Store().Tips().Create(ctx, &types.Tip{
				TipTypeID:    id,
				Title:        b.tip.title,
				Content:      b.tip.content,
				Fstop:        b.tip.fstop,
				ShutterSpeed: b.tip.shutterSpeed,
				ISO:          b.tip.iso,
				I8n:          defaultLocale,
			})
			return err
		},
	)
}

func seedLocations(ctx context.Context, run *TaskRun) error {
	return Seed(ctx, run, builtInLocations,
		func(l types.Location) string { return "location " + l.Title },
		func(ctx context.Context, l types.Location) error {
			_, err := run.Store().Locations().Create(ctx, &l)
			return err
		},
	)
}

func seedSettings(ctx context.Context, run *TaskRun, now time.Time) error {
	return Seed(ctx, run, baseSettings(now),
		func(s types.Setting) string { return "setting " + s.Key },
		func(ctx context.Context, s types.Setting) error {
			_, err := run.Store().Settings().Create(ctx, &s)
			return err
		},
	)
}

func seedCameraProfiles(ctx context.Context, run *TaskRun) error {
	return Seed(ctx, run, builtInCameraProfiles,
		func(p types.CameraProfile) string { return "camera profile " + p.Name },
		func(ctx context.Context, p types.CameraProfile) error {
			_, err := run.Store().CameraProfiles().Create(ctx, &p)
			return err
		},
	)
}
