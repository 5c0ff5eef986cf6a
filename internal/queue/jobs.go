package queue

import (
	"time"

	"github.com/mikestefanello/backlite"
)

const FollowNotifyQueue = "FollowNotify"

type FollowNotifyTask struct {
	FollowerID  string
	FollowingID string
}

func (t FollowNotifyTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        FollowNotifyQueue,
		MaxAttempts: 5,
		Backoff:     5 * time.Second,
		Timeout:     10 * time.Second,
		Retention: &backlite.Retention{
			Duration:   12 * time.Hour,
			OnlyFailed: false,
			Data: &backlite.RetainData{
				OnlyFailed: true,
			},
		},
	}
}
