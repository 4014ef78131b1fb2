package calculator

// ValidateTransfer checks a transfer against the current membership before it
// is persisted.
func ValidateTransfer(from, to string, amount float64, members []Identity) error {
	if from == "" || to == "" {
		return &InvalidTransferError{Reason: "sender and receiver are required"}
	}
	if from == to {
		return &InvalidTransferError{Reason: "cannot transfer to yourself"}
	}
	if amount <= 0 {
		return &InvalidTransferError{Reason: "amount must be positive"}
	}

	var fromFound, toFound bool
	for _, m := range members {
		switch m.Email {
		case from:
			fromFound = true
		case to:
			toFound = true
		}
	}
	if !fromFound || !toFound {
		return &InvalidTransferError{Reason: "both users must be members of the group"}
	}
	return nil
}
