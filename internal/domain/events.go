package domain

// FollowRecord is the row carried by a database-change event on the follows table.
type FollowRecord struct {
	FollowerID  string `json:"follower_id"`
	FollowingID string `json:"following_id"`
}

// FollowEvent is a database-change notification as delivered by the event
// source. The handler only acts on INSERTs into follows; other event classes
// arrive on the same channel and are acknowledged without action.
type FollowEvent struct {
	Type   string       `json:"type"`
	Table  string       `json:"table"`
	Record FollowRecord `json:"record"`
}
