package entities

// Trip is a personal saved itinerary. The itinerary payload is immutable
// after creation; only the title and prompt can be patched.
type Trip struct {
	TripID    string    `json:"tripId"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title,omitempty"`
	Prompt    string    `json:"prompt,omitempty"`
	Itinerary *TripPlan `json:"itinerary,omitempty"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
}

// GroupTrip is a generated itinerary shared with a group. Group trips have
// no update or delete path.
type GroupTrip struct {
	TripID    string    `json:"tripId"`
	GroupID   string    `json:"groupId"`
	CreatedBy string    `json:"createdBy"`
	Prompt    string    `json:"prompt"`
	Itinerary *TripPlan `json:"itinerary,omitempty"`
	CreatedAt int64     `json:"createdAt"`
}
