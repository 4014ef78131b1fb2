package models

// Role is a member's permission level within a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Group represents a collection of members sharing an expense ledger.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Lisbon Trip").
	Name string

	// Description is optional free text.
	Description string

	// Code is the shareable token other users enter to join the group.
	Code string

	// Archived groups stay readable but reject new ledger entries.
	Archived bool

	// CreatedBy is the email of the user who created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Member represents one user's membership in a group.
// (GroupID, Email) is unique.
type Member struct {
	GroupID string

	// Email identifies the member across all ledger records.
	Email string

	// Name is the member's display name at the time they joined.
	Name string

	Role Role

	// JoinedAt is the Unix timestamp when the member joined or was added.
	JoinedAt int64
}

// IsAdmin reports whether the member may manage the group.
func (m *Member) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}
