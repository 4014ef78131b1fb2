package calculator

import "fmt"

// InvalidSplitError is returned when an expense cannot be split among the
// selected members. The enclosing write must be aborted.
type InvalidSplitError struct {
	Reason string
}

func (e *InvalidSplitError) Error() string {
	return fmt.Sprintf("invalid split: %s", e.Reason)
}

// InvalidTransferError is returned when a transfer between two members is
// rejected before it reaches storage.
type InvalidTransferError struct {
	Reason string
}

func (e *InvalidTransferError) Error() string {
	return fmt.Sprintf("invalid transfer: %s", e.Reason)
}
