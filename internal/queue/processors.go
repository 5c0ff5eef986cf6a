package queue

import (
	"context"
	"errors"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/push"
)

func (q *notifierImpl) register() {
	q.queues.Register(backlite.NewQueue[FollowNotifyTask](q.notifyFollow()))
}

func (q *notifierImpl) notifyFollow() func(context.Context, FollowNotifyTask) error {
	return func(ctx context.Context, task FollowNotifyTask) error {
		playerID, err := q.db.GetPushID(ctx, task.FollowingID)
		if errors.Is(err, db.ErrNotFound) || (err == nil && playerID == "") {
			// The target never enabled push. Done, not failed.
			log.Debug().Str("following", task.FollowingID).Msg("target has no push subscription")
			return nil
		}
		if err != nil {
			return err
		}

		name, err := q.db.GetFullName(ctx, task.FollowerID)
		if err != nil {
			if !errors.Is(err, db.ErrNotFound) {
				log.Warn().Err(err).Str("follower", task.FollowerID).Msg("follower name lookup failed")
			}
			name = push.FallbackName
		}

		result, err := q.push.NotifyFollow(ctx, playerID, name)
		if err != nil {
			return err
		}

		log.Debug().Str("following", task.FollowingID).Bytes("result", result).Msg("follow notification delivered")
		return nil
	}
}
