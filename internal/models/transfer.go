package models

// Transfer represents a direct payment between group members, typically made
// to settle up.
type Transfer struct {
	// ID is the unique identifier for the transfer (UUID format).
	ID string

	// GroupID is the group this transfer belongs to.
	GroupID string

	// FromEmail/FromName is the member who paid (debtor settling up).
	FromEmail string
	FromName  string

	// ToEmail/ToName is the member who received payment.
	ToEmail string
	ToName  string

	// Amount is the payment amount, always positive.
	Amount float64

	// Description is an optional note.
	Description string

	// Date is the Unix timestamp the payment happened.
	Date int64

	CreatedAt int64
}
