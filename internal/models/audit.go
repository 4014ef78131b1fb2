package models

// Entity types recorded in the audit log.
const (
	EntityGroup    = "group"
	EntityExpense  = "expense"
	EntityTransfer = "transfer"
)

// Audit actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// AuditEntry records a single mutation of a group's data.
type AuditEntry struct {
	ID      string
	GroupID string

	EntityType string
	EntityID   string
	Action     string

	// Changes is a JSON object describing what changed.
	Changes []byte

	ActorEmail string
	ActorName  string

	CreatedAt int64
}
