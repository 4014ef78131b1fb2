package apiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/sharedledger/pkg/api"
)

// TransferServiceName is the fully-qualified name of the TransferService service.
const TransferServiceName = "sharedledger.v1.TransferService"

// Procedure names of the TransferService.
const (
	TransferServiceCreateTransferProcedure = "/sharedledger.v1.TransferService/CreateTransfer"
	TransferServiceListTransfersProcedure  = "/sharedledger.v1.TransferService/ListTransfers"
	TransferServiceUpdateTransferProcedure = "/sharedledger.v1.TransferService/UpdateTransfer"
	TransferServiceDeleteTransferProcedure = "/sharedledger.v1.TransferService/DeleteTransfer"
)

// TransferServiceHandler is implemented by the server side of the TransferService.
// TransferService records direct payments between members.
type TransferServiceHandler interface {
	CreateTransfer(context.Context, *connect.Request[api.CreateTransferRequest]) (*connect.Response[api.CreateTransferResponse], error)
	ListTransfers(context.Context, *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error)
	UpdateTransfer(context.Context, *connect.Request[api.UpdateTransferRequest]) (*connect.Response[api.UpdateTransferResponse], error)
	DeleteTransfer(context.Context, *connect.Request[api.DeleteTransferRequest]) (*connect.Response[api.DeleteTransferResponse], error)
}

// NewTransferServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewTransferServiceHandler(svc TransferServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return serviceMux(TransferServiceName, map[string]http.Handler{
		TransferServiceCreateTransferProcedure: connect.NewUnaryHandler(TransferServiceCreateTransferProcedure, svc.CreateTransfer, opts...),
		TransferServiceListTransfersProcedure:  connect.NewUnaryHandler(TransferServiceListTransfersProcedure, svc.ListTransfers, opts...),
		TransferServiceUpdateTransferProcedure: connect.NewUnaryHandler(TransferServiceUpdateTransferProcedure, svc.UpdateTransfer, opts...),
		TransferServiceDeleteTransferProcedure: connect.NewUnaryHandler(TransferServiceDeleteTransferProcedure, svc.DeleteTransfer, opts...),
	})
}

// TransferServiceClient is a client for the TransferService.
type TransferServiceClient interface {
	CreateTransfer(context.Context, *connect.Request[api.CreateTransferRequest]) (*connect.Response[api.CreateTransferResponse], error)
	ListTransfers(context.Context, *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error)
	UpdateTransfer(context.Context, *connect.Request[api.UpdateTransferRequest]) (*connect.Response[api.UpdateTransferResponse], error)
	DeleteTransfer(context.Context, *connect.Request[api.DeleteTransferRequest]) (*connect.Response[api.DeleteTransferResponse], error)
}

// NewTransferServiceClient constructs a client for the TransferService. baseURL is the
// server root, e.g. http://localhost:8080.
func NewTransferServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TransferServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &transferServiceClient{
		createTransfer: connect.NewClient[api.CreateTransferRequest, api.CreateTransferResponse](httpClient, baseURL+TransferServiceCreateTransferProcedure, opts...),
		listTransfers:  connect.NewClient[api.ListTransfersRequest, api.ListTransfersResponse](httpClient, baseURL+TransferServiceListTransfersProcedure, opts...),
		updateTransfer: connect.NewClient[api.UpdateTransferRequest, api.UpdateTransferResponse](httpClient, baseURL+TransferServiceUpdateTransferProcedure, opts...),
		deleteTransfer: connect.NewClient[api.DeleteTransferRequest, api.DeleteTransferResponse](httpClient, baseURL+TransferServiceDeleteTransferProcedure, opts...),
	}
}

type transferServiceClient struct {
	createTransfer *connect.Client[api.CreateTransferRequest, api.CreateTransferResponse]
	listTransfers  *connect.Client[api.ListTransfersRequest, api.ListTransfersResponse]
	updateTransfer *connect.Client[api.UpdateTransferRequest, api.UpdateTransferResponse]
	deleteTransfer *connect.Client[api.DeleteTransferRequest, api.DeleteTransferResponse]
}

func (c *transferServiceClient) CreateTransfer(ctx context.Context, req *connect.Request[api.CreateTransferRequest]) (*connect.Response[api.CreateTransferResponse], error) {
	return c.createTransfer.CallUnary(ctx, req)
}

func (c *transferServiceClient) ListTransfers(ctx context.Context, req *connect.Request[api.ListTransfersRequest]) (*connect.Response[api.ListTransfersResponse], error) {
	return c.listTransfers.CallUnary(ctx, req)
}

func (c *transferServiceClient) UpdateTransfer(ctx context.Context, req *connect.Request[api.UpdateTransferRequest]) (*connect.Response[api.UpdateTransferResponse], error) {
	return c.updateTransfer.CallUnary(ctx, req)
}

func (c *transferServiceClient) DeleteTransfer(ctx context.Context, req *connect.Request[api.DeleteTransferRequest]) (*connect.Response[api.DeleteTransferResponse], error) {
	return c.deleteTransfer.CallUnary(ctx, req)
}
