package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService service.
const LedgerServiceName = "sharedledger.v1.LedgerService"

// Procedure names of the LedgerService.
const (
	LedgerServiceGetBalancesProcedure      = "/sharedledger.v1.LedgerService/GetBalances"
	LedgerServiceGetInsightsProcedure      = "/sharedledger.v1.LedgerService/GetInsights"
	LedgerServiceListAuditEntriesProcedure = "/sharedledger.v1.LedgerService/ListAuditEntries"
)

// LedgerServiceHandler is implemented by the server side of the LedgerService.
// LedgerService derives balances, settlement plans, insights and the activity trail.
type LedgerServiceHandler interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetInsights(context.Context, *connect.Request[api.GetInsightsRequest]) (*connect.Response[api.GetInsightsResponse], error)
	ListAuditEntries(context.Context, *connect.Request[api.ListAuditEntriesRequest]) (*connect.Response[api.ListAuditEntriesResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return serviceMux(LedgerServiceName, map[string]http.Handler{
		LedgerServiceGetBalancesProcedure:      connect.NewUnaryHandler(LedgerServiceGetBalancesProcedure, svc.GetBalances, opts...),
		LedgerServiceGetInsightsProcedure:      connect.NewUnaryHandler(LedgerServiceGetInsightsProcedure, svc.GetInsights, opts...),
		LedgerServiceListAuditEntriesProcedure: connect.NewUnaryHandler(LedgerServiceListAuditEntriesProcedure, svc.ListAuditEntries, opts...),
	})
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	GetInsights(context.Context, *connect.Request[api.GetInsightsRequest]) (*connect.Response[api.GetInsightsResponse], error)
	ListAuditEntries(context.Context, *connect.Request[api.ListAuditEntriesRequest]) (*connect.Response[api.ListAuditEntriesResponse], error)
}

// NewLedgerServiceClient constructs a client for the LedgerService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &ledgerServiceClient{
		getBalances:      connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+LedgerServiceGetBalancesProcedure, opts...),
		getInsights:      connect.NewClient[api.GetInsightsRequest, api.GetInsightsResponse](httpClient, baseURL+LedgerServiceGetInsightsProcedure, opts...),
		listAuditEntries: connect.NewClient[api.ListAuditEntriesRequest, api.ListAuditEntriesResponse](httpClient, baseURL+LedgerServiceListAuditEntriesProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	getBalances      *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	getInsights      *connect.Client[api.GetInsightsRequest, api.GetInsightsResponse]
	listAuditEntries *connect.Client[api.ListAuditEntriesRequest, api.ListAuditEntriesResponse]
}

func (c *ledgerServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetInsights(ctx context.Context, req *connect.Request[api.GetInsightsRequest]) (*connect.Response[api.GetInsightsResponse], error) {
	return c.getInsights.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListAuditEntries(ctx context.Context, req *connect.Request[api.ListAuditEntriesRequest]) (*connect.Response[api.ListAuditEntriesResponse], error) {
	return c.listAuditEntries.CallUnary(ctx, req)
}
