package views

import (
	"context"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vidfriends/client/internal/logging"
	"github.com/vidfriends/client/internal/services"
)

// DefaultHydrateConcurrency bounds the number of items hydrated at once.
const DefaultHydrateConcurrency = 8

// LikeReader answers the per-item like questions.
type LikeReader interface {
	Check(ctx context.Context, t services.Target) (bool, error)
	Count(ctx context.Context, t services.Target) (int, error)
}

// LikeItem pairs a target with the state to fill in.
type LikeItem struct {
	Target services.Target
	State  *LikeState
}

// HydrateLikes fills in like state for every item. Each item's check and
// count run together; an item whose calls fail keeps its prior state.
// It returns the number of items that failed.
func HydrateLikes(ctx context.Context, likes LikeReader, items []LikeItem, limit int) int {
	if limit <= 0 {
		limit = DefaultHydrateConcurrency
	}

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(limit)

	for _, item := range items {
		g.Go(func() error {
			state, err := hydrateOne(ctx, likes, item.Target)
			if err != nil {
				failed.Add(1)
				logging.FromContext(ctx).Debug("like hydration failed",
					slog.String("target", string(item.Target.Kind)+"/"+item.Target.ID),
					slog.Any("error", err),
				)
				return nil
			}
			*item.State = state
			return nil
		})
	}
	_ = g.Wait()
	return int(failed.Load())
}

func hydrateOne(ctx context.Context, likes LikeReader, target services.Target) (LikeState, error) {
	var (
		g     errgroup.Group
		liked bool
		count int
	)
	g.Go(func() (err error) {
		liked, err = likes.Check(ctx, target)
		return err
	})
	g.Go(func() (err error) {
		count, err = likes.Count(ctx, target)
		return err
	})
	if err := g.Wait(); err != nil {
		return LikeState{}, err
	}
	return LikeState{Liked: liked, Count: count}, nil
}
