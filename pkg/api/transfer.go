package api

// CreateTransferRequest records a payment. FromEmail defaults to the caller.
type CreateTransferRequest struct {
	GroupID     string  `json:"groupId" validate:"nonblank"`
	FromEmail   string  `json:"fromEmail,omitempty"`
	ToEmail     string  `json:"toEmail" validate:"nonblank"`
	Amount      float64 `json:"amount" validate:"positive_amount"`
	Description string  `json:"description,omitempty"`
	Date        int64   `json:"date,omitempty"`
}

func (r *CreateTransferRequest) Validate() error { return check(r) }

type CreateTransferResponse struct {
	Transfer *Transfer `json:"transfer"`
}

type ListTransfersRequest struct {
	GroupID string `json:"groupId" validate:"nonblank"`
}

func (r *ListTransfersRequest) Validate() error { return check(r) }

type ListTransfersResponse struct {
	Transfers []*Transfer `json:"transfers"`
}

type UpdateTransferRequest struct {
	TransferID  string  `json:"transferId" validate:"nonblank"`
	FromEmail   string  `json:"fromEmail" validate:"nonblank"`
	ToEmail     string  `json:"toEmail" validate:"nonblank"`
	Amount      float64 `json:"amount" validate:"positive_amount"`
	Description string  `json:"description,omitempty"`
	Date        int64   `json:"date,omitempty"`
}

func (r *UpdateTransferRequest) Validate() error { return check(r) }

type UpdateTransferResponse struct {
	Transfer *Transfer `json:"transfer"`
}

type DeleteTransferRequest struct {
	TransferID string `json:"transferId" validate:"nonblank"`
}

func (r *DeleteTransferRequest) Validate() error { return check(r) }

type DeleteTransferResponse struct{}
