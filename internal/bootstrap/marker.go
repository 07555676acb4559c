package bootstrap

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/mesh-intelligence/pinhole/pkg/log"
	"github.com/mesh-intelligence/pinhole/pkg/types"
)

const markerDescription = "Records when the store was seeded with reference data"

// writeMarker creates the completion marker stamped with at, retrying
// transient failures. A marker that already exists counts as written.
func (c *Coordinator) writeMarker(ctx context.Context, at time.Time) error {
	value := at.UTC().Format(time.RFC3339)

	_, err := backoff.Retry(ctx,
		func() (*types.Setting, error) {
			s, err := c.uow.Settings().Create(ctx, &types.Setting{
				Key:         types.MarkerKey,
				Value:       value,
				Description: markerDescription,
			})
			if types.IsDuplicate(err) {
				return nil, backoff.Permanent(err)
			}
			return s, err
		},
		backoff.WithBackOff(backoff.NewConstantBackOff(c.cfg.MarkerRetryInterval)),
		backoff.WithMaxTries(uint(c.cfg.MarkerAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Debug("retrying completion marker write", log.Err(err), log.Duration("next", next))
		}),
	)
	if types.IsDuplicate(err) {
		return nil
	}
	return err
}
