package impl

import "context"

func (d *dbImpl) InsertFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO follows(follower_id, following_id) VALUES (?, ?)`,
		followerID, followingID)
	if err != nil {
		return false, d.HandleError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, d.HandleError(err)
	}
	return affected > 0, nil
}

func (d *dbImpl) DeleteFollow(ctx context.Context, followerID, followingID string) error {
	_, err := d.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID)
	return d.HandleError(err)
}
