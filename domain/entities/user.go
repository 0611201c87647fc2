package entities

// UserProfile is the upserted per-user profile row. No history is kept.
type UserProfile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	UpdatedAt   int64  `json:"updatedAt"`
}
