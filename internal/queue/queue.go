// Package queue delivers follow notifications for first-party follows through
// a persistent task queue, so a slow or flaky push provider never holds up the
// request that created the follow.
package queue

import (
	"context"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/huviapp/huvi/internal/db"
	"github.com/huviapp/huvi/internal/push"
)

type Notifier interface {
	// FollowCreated enqueues the push notification for a new follow
	// relationship. Delivery happens asynchronously with retries.
	FollowCreated(ctx context.Context, followerID, followingID string) error
}

type notifierImpl struct {
	db     db.DB
	push   *push.Client
	queues *backlite.Client
}

func New(ctx context.Context, db db.DB, push *push.Client, blClient *backlite.Client) Notifier {
	q := &notifierImpl{
		db:     db,
		push:   push,
		queues: blClient,
	}
	q.register()
	q.queues.Start(ctx)
	log.Info().Msg("started task queue")
	return q
}

func (q *notifierImpl) FollowCreated(ctx context.Context, followerID, followingID string) error {
	log.Debug().Str("follower", followerID).Str("following", followingID).Msg("enqueueing follow notification")
	task := FollowNotifyTask{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	_, err := q.queues.Add(task).Ctx(ctx).Save()
	return err
}
