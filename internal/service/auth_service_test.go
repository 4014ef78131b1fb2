package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharedledger/pkg/api"
)

func TestAuthService(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       " Alice@Example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reg.Msg.Token)
	assert.Equal(t, alice.email, reg.Msg.User.Email)
	assert.Equal(t, "Alice", reg.Msg.User.DisplayName)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: alice.email, DisplayName: "Other", Password: "something long",
		}))
		requireCode(t, connect.CodeAlreadyExists, err)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: bob.email, DisplayName: "Bob", Password: "short",
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("invalid email", func(t *testing.T) {
		_, err := env.auth.Register(ctx, connect.NewRequest(&api.RegisterRequest{
			Email: "not-an-email", DisplayName: "Bob", Password: "long enough",
		}))
		requireCode(t, connect.CodeInvalidArgument, err)
	})

	t.Run("login", func(t *testing.T) {
		resp, err := env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: alice.email, Password: "correct horse"}))
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Msg.Token)
		assert.Equal(t, reg.Msg.User.ID, resp.Msg.User.ID)

		_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: alice.email, Password: "wrong horse"}))
		requireCode(t, connect.CodeUnauthenticated, err)

		_, err = env.auth.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "nobody@example.com", Password: "whatever1"}))
		requireCode(t, connect.CodeUnauthenticated, err)
	})

	t.Run("current user", func(t *testing.T) {
		req := connect.NewRequest(&api.GetCurrentUserRequest{})
		req.Header().Set("Authorization", "Bearer "+reg.Msg.Token)
		resp, err := env.auth.GetCurrentUser(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, reg.Msg.User.ID, resp.Msg.User.ID)
		assert.Equal(t, "Alice", resp.Msg.User.DisplayName)
		assert.NotZero(t, resp.Msg.User.CreatedAt)

		_, err = env.auth.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		requireCode(t, connect.CodeUnauthenticated, err)

		bad := connect.NewRequest(&api.GetCurrentUserRequest{})
		bad.Header().Set("Authorization", "Bearer garbage")
		_, err = env.auth.GetCurrentUser(ctx, bad)
		requireCode(t, connect.CodeUnauthenticated, err)
	})
}
