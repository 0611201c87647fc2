package entities

// Vote is one user's vote on a group trip. Keyed by (group, trip, user);
// re-voting overwrites the previous value.
type Vote struct {
	GroupID   string `json:"groupId"`
	TripID    string `json:"tripId"`
	UserID    string `json:"userId"`
	Value     int    `json:"value"`
	CreatedAt int64  `json:"createdAt"`
}

// Tally aggregates the votes on a group trip. Zero votes is a valid tally,
// not an error.
type Tally struct {
	Count int    `json:"count"`
	Total int    `json:"total"`
	Votes []Vote `json:"votes"`
}
