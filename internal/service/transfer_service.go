package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/internal/audit"
	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
	"github.com/mmynk/sharedledger/pkg/api"
)

// TransferService implements the Connect TransferService
type TransferService struct {
	store    storage.Store
	recorder *audit.Recorder
}

// NewTransferService creates a new TransferService with the given storage backend.
func NewTransferService(store storage.Store, recorder *audit.Recorder) *TransferService {
	return &TransferService{store: store, recorder: recorder}
}

// resolveParties validates a transfer against the current members and
// returns the sender and receiver.
func resolveParties(members []*models.Member, from, to string, amount float64) (*models.Member, *models.Member, error) {
	from, to = models.NormalizeEmail(from), models.NormalizeEmail(to)
	if err := calculator.ValidateTransfer(from, to, amount, identities(members)); err != nil {
		return nil, nil, err
	}
	return findMember(members, from), findMember(members, to), nil
}

// CreateTransfer records a payment from one member to another.
func (s *TransferService) CreateTransfer(ctx context.Context, req *connect.Request[api.CreateTransferRequest]) (*connect.Response[api.CreateTransferResponse], error) {
	slog.Info("CreateTransfer request received",
		"group_id", req.Msg.GroupID,
		"to", req.Msg.ToEmail,
		"amount", req.Msg.Amount,
	)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	group, _, err := requireWritable(ctx, s.store, req.Msg.GroupID, actor.Email)
	if err != nil {
		return nil, fail("CreateTransfer", err, "group_id", req.Msg.GroupID)
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fail("CreateTransfer", err, "group_id", group.ID)
	}

	fromEmail := req.Msg.FromEmail
	if fromEmail == "" {
		fromEmail = actor.Email
	}
	amount := calculator.Round2(req.Msg.Amount)
	from, to, err := resolveParties(members, fromEmail, req.Msg.ToEmail, amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	transfer := &models.Transfer{
		GroupID:     group.ID,
		FromEmail:   from.Email,
		FromName:    from.Name,
		ToEmail:     to.Email,
		ToName:      to.Name,
		Amount:      amount,
		Description: strings.TrimSpace(req.Msg.Description),
		Date:        req.Msg.Date,
	}
	if err := s.store.CreateTransfer(ctx, transfer); err != nil {
		return nil, fail("CreateTransfer", err, "group_id", group.ID)
	}
	s.recorder.Created(ctx, actor, group.ID, models.EntityTransfer, transfer.ID, transferFields(transfer))

	slog.Info("Transfer created", "transfer_id", transfer.ID, "group_id", group.ID)

	return connect.NewResponse(&api.CreateTransferResponse{Transfer: toAPITransfer(transfer)}), nil
}

// ListTransfers returns a group's transfers, newest first.
func (s *TransferService) ListTransfers(ctx context.Context, req *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error) {
	slog.Info("ListTransfers request received", "group_id", req.Msg.GroupID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	if _, _, err := membership(ctx, s.store, req.Msg.GroupID, actor.Email); err != nil {
		return nil, fail("ListTransfers", err, "group_id", req.Msg.GroupID)
	}
	transfers, err := s.store.ListTransfers(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, fail("ListTransfers", err, "group_id", req.Msg.GroupID)
	}

	out := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = toAPITransfer(t)
	}
	return connect.NewResponse(&api.ListTransfersResponse{Transfers: out}), nil
}

// UpdateTransfer replaces a transfer's parties, amount and description.
func (s *TransferService) UpdateTransfer(ctx context.Context, req *connect.Request[api.UpdateTransferRequest]) (*connect.Response[api.UpdateTransferResponse], error) {
	slog.Info("UpdateTransfer request received", "transfer_id", req.Msg.TransferID, "amount", req.Msg.Amount)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	transfer, err := s.store.GetTransfer(ctx, req.Msg.TransferID)
	if err != nil {
		return nil, fail("UpdateTransfer", err, "transfer_id", req.Msg.TransferID)
	}
	group, _, err := requireWritable(ctx, s.store, transfer.GroupID, actor.Email)
	if err != nil {
		return nil, fail("UpdateTransfer", err, "transfer_id", transfer.ID)
	}
	members, err := s.store.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, fail("UpdateTransfer", err, "group_id", group.ID)
	}

	amount := calculator.Round2(req.Msg.Amount)
	from, to, err := resolveParties(members, req.Msg.FromEmail, req.Msg.ToEmail, amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	before := transferFields(transfer)
	transfer.FromEmail, transfer.FromName = from.Email, from.Name
	transfer.ToEmail, transfer.ToName = to.Email, to.Name
	transfer.Amount = amount
	transfer.Description = strings.TrimSpace(req.Msg.Description)
	if req.Msg.Date != 0 {
		transfer.Date = req.Msg.Date
	}

	if err := s.store.UpdateTransfer(ctx, transfer); err != nil {
		return nil, fail("UpdateTransfer", err, "transfer_id", transfer.ID)
	}
	s.recorder.Updated(ctx, actor, group.ID, models.EntityTransfer, transfer.ID, before, transferFields(transfer))

	slog.Info("Transfer updated", "transfer_id", transfer.ID, "group_id", group.ID)

	return connect.NewResponse(&api.UpdateTransferResponse{Transfer: toAPITransfer(transfer)}), nil
}

// DeleteTransfer removes a transfer.
func (s *TransferService) DeleteTransfer(ctx context.Context, req *connect.Request[api.DeleteTransferRequest]) (*connect.Response[api.DeleteTransferResponse], error) {
	slog.Info("DeleteTransfer request received", "transfer_id", req.Msg.TransferID)

	actor, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := validate(req.Msg); err != nil {
		return nil, err
	}

	transfer, err := s.store.GetTransfer(ctx, req.Msg.TransferID)
	if err != nil {
		return nil, fail("DeleteTransfer", err, "transfer_id", req.Msg.TransferID)
	}
	if _, _, err := requireWritable(ctx, s.store, transfer.GroupID, actor.Email); err != nil {
		return nil, fail("DeleteTransfer", err, "transfer_id", transfer.ID)
	}

	if err := s.store.DeleteTransfer(ctx, transfer.ID); err != nil {
		return nil, fail("DeleteTransfer", err, "transfer_id", transfer.ID)
	}
	s.recorder.Deleted(ctx, actor, transfer.GroupID, models.EntityTransfer, transfer.ID, transferFields(transfer))

	slog.Info("Transfer deleted", "transfer_id", transfer.ID, "group_id", transfer.GroupID)

	return connect.NewResponse(&api.DeleteTransferResponse{}), nil
}
