package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/internal/audit"
	"github.com/mmynk/sharedledger/internal/auth"
	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/categorize"
	"github.com/mmynk/sharedledger/internal/middleware"
	"github.com/mmynk/sharedledger/internal/models"
	"github.com/mmynk/sharedledger/internal/storage"
	"github.com/mmynk/sharedledger/pkg/api"
)

var (
	errNotMember = errors.New("not a member of this group")
	errNotAdmin  = errors.New("only group admins can do this")
	errArchived  = errors.New("group is archived")
)

// permissionError marks errors that map to PermissionDenied.
type permissionError struct{ err error }

func (e *permissionError) Error() string { return e.err.Error() }
func (e *permissionError) Unwrap() error { return e.err }

func denied(err error) error { return &permissionError{err: err} }

// caller returns the authenticated identity set by the auth interceptor.
func caller(ctx context.Context) (audit.Actor, error) {
	email := middleware.GetEmail(ctx)
	if email == "" {
		return audit.Actor{}, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	name := middleware.GetName(ctx)
	if name == "" {
		name = email
	}
	return audit.Actor{Email: models.NormalizeEmail(email), Name: name}, nil
}

type validator interface {
	Validate() error
}

// validate runs the request's own checks.
func validate(msg validator) error {
	if err := msg.Validate(); err != nil {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return nil
}

// toConnectError maps domain and storage errors to Connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}

	var connectErr *connect.Error
	var splitErr *calculator.InvalidSplitError
	var transferErr *calculator.InvalidTransferError
	var permErr *permissionError

	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, api.ErrInvalid),
		errors.Is(err, categorize.ErrUnknownCategory),
		errors.As(err, &splitErr),
		errors.As(err, &transferErr):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.As(err, &permErr):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, errArchived):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, storage.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs a failed operation and converts err for the client.
func fail(op string, err error, args ...any) error {
	args = append(args, "error", err)
	slog.Error(op+" failed", args...)
	return toConnectError(err)
}

// membership loads a group and the caller's membership in it.
func membership(ctx context.Context, store storage.Store, groupID, email string) (*models.Group, *models.Member, error) {
	group, err := store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	member, err := store.GetMember(ctx, groupID, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, denied(errNotMember)
	}
	if err != nil {
		return nil, nil, err
	}
	return group, member, nil
}

// requireWritable is membership for operations that change the ledger.
func requireWritable(ctx context.Context, store storage.Store, groupID, email string) (*models.Group, *models.Member, error) {
	group, member, err := membership(ctx, store, groupID, email)
	if err != nil {
		return nil, nil, err
	}
	if group.Archived {
		return nil, nil, fmt.Errorf("%w: %s", errArchived, group.Name)
	}
	return group, member, nil
}

func requireAdmin(member *models.Member) error {
	if !member.IsAdmin() {
		return denied(errNotAdmin)
	}
	return nil
}

func identities(members []*models.Member) []calculator.Identity {
	ids := make([]calculator.Identity, len(members))
	for i, m := range members {
		ids[i] = calculator.Identity{Email: m.Email, Name: m.Name}
	}
	return ids
}

func findMember(members []*models.Member, email string) *models.Member {
	email = models.NormalizeEmail(email)
	for _, m := range members {
		if m.Email == email {
			return m
		}
	}
	return nil
}
