package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharedledger/internal/audit"
	"github.com/mmynk/sharedledger/internal/auth"
	"github.com/mmynk/sharedledger/internal/calculator"
	"github.com/mmynk/sharedledger/internal/categorize"
	"github.com/mmynk/sharedledger/internal/events"
	"github.com/mmynk/sharedledger/internal/middleware"
	"github.com/mmynk/sharedledger/internal/storage/sqlite"
	"github.com/mmynk/sharedledger/pkg/api"
	"github.com/mmynk/sharedledger/pkg/api/apiconnect"
)

type person struct {
	email string
	name  string
}

var (
	alice = person{"alice@example.com", "Alice"}
	bob   = person{"bob@example.com", "Bob"}
	carol = person{"carol@example.com", "Carol"}
	dave  = person{"dave@example.com", "Dave"}
)

// testUserHeader carries "email|name" for testAuthInterceptor.
const testUserHeader = "X-Test-User"

// testAuthInterceptor returns a Connect interceptor that sets the test user
// named in the request header in the context.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if v := req.Header().Get(testUserHeader); v != "" {
				email, name, _ := strings.Cut(v, "|")
				ctx = middleware.WithUser(ctx, "user-"+email, email, name)
			}
			return next(ctx, req)
		}
	}
}

// as builds a request sent by p.
func as[T any](p person, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set(testUserHeader, p.email+"|"+p.name)
	return req
}

type testEnv struct {
	store     *sqlite.SQLiteStore
	published *events.Memory

	groups    apiconnect.GroupServiceClient
	expenses  apiconnect.ExpenseServiceClient
	transfers apiconnect.TransferServiceClient
	ledger    apiconnect.LedgerServiceClient
	auth      apiconnect.AuthServiceClient
}

type envOptions struct {
	categorizer categorize.Categorizer
	aggregate   calculator.AggregateOptions
}

// setupTestServer creates a test server backed by a temporary SQLite
// database with every service mounted.
func setupTestServer(t *testing.T) *testEnv {
	return setupTestServerWith(t, envOptions{})
}

func setupTestServerWith(t *testing.T, opts envOptions) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "failed to create store")

	published := &events.Memory{}
	recorder := audit.NewRecorder(store, published)

	var resolver *categorize.Resolver
	if opts.categorizer != nil {
		resolver = &categorize.Resolver{Categorizer: opts.categorizer}
	}

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	interceptors := connect.WithInterceptors(testAuthInterceptor())
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewGroupServiceHandler(NewGroupService(store, recorder), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(NewExpenseService(store, resolver, recorder), interceptors))
	mux.Handle(apiconnect.NewTransferServiceHandler(NewTransferService(store, recorder), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(store, opts.aggregate, nil), interceptors))
	mux.Handle(apiconnect.NewAuthServiceHandler(
		NewAuthService(authenticator, jwtManager, store, nil),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager)),
	))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testEnv{
		store:     store,
		published: published,
		groups:    apiconnect.NewGroupServiceClient(http.DefaultClient, server.URL),
		expenses:  apiconnect.NewExpenseServiceClient(http.DefaultClient, server.URL),
		transfers: apiconnect.NewTransferServiceClient(http.DefaultClient, server.URL),
		ledger:    apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		auth:      apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// newGroup creates a group owned by owner and joins everyone else by code.
func (e *testEnv) newGroup(t *testing.T, owner person, others ...person) *api.Group {
	t.Helper()
	ctx := context.Background()

	resp, err := e.groups.CreateGroup(ctx, as(owner, &api.CreateGroupRequest{Name: "Trip"}))
	require.NoError(t, err)
	group := resp.Msg.Group

	for _, p := range others {
		_, err := e.groups.JoinGroup(ctx, as(p, &api.JoinGroupRequest{Code: group.Code}))
		require.NoError(t, err, "join %s", p.email)
	}
	return group
}

func (e *testEnv) addExpense(t *testing.T, by person, req *api.CreateExpenseRequest) *api.Expense {
	t.Helper()
	resp, err := e.expenses.CreateExpense(context.Background(), as(by, req))
	require.NoError(t, err)
	return resp.Msg.Expense
}

func requireCode(t *testing.T, want connect.Code, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, connect.CodeOf(err), "error: %v", err)
}
