package db

import "context"

type Follows interface {
	// InsertFollow records that follower follows following. Inserting an
	// existing pair is a no-op; created reports whether a new row was
	// written, so callers can avoid notifying twice.
	InsertFollow(ctx context.Context, followerID, followingID string) (created bool, err error)
	DeleteFollow(ctx context.Context, followerID, followingID string) error
}
