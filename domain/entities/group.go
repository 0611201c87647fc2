package entities

// Membership roles. The creator of a group is its Owner; everyone who
// joins through an invite is a member.
const (
	RoleOwner  = "Owner"
	RoleMember = "member"
)

// Group is the metadata row of a shared workspace
type Group struct {
	GroupID    string `json:"groupId"`
	Name       string `json:"name"`
	CreatedBy  string `json:"createdBy"`
	InviteCode string `json:"inviteCode"`
	CreatedAt  int64  `json:"createdAt"`
}

// Membership records that a user belongs to a group. The row's existence
// is the authoritative access-control fact; absence means "not a member".
type Membership struct {
	GroupID  string `json:"groupId"`
	UserID   string `json:"userId"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joinedAt"`
}

// Invite is the projection resolved from an invite code
type Invite struct {
	GroupID    string `json:"groupId"`
	Name       string `json:"name"`
	CreatedBy  string `json:"createdBy"`
	InviteCode string `json:"inviteCode"`
}
