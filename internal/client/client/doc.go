// Package client talks to the LoveOps sync server.
//
// Client is the transport-agnostic contract used by the services; GRPCClient
// is its gRPC implementation. GRPCClient attaches the access token to every
// call, refreshes an expired token once and retries, and maps gRPC status
// codes to sentinel errors (ErrUnavailable, ErrUnauthorized,
// common.ErrorNotFound, common.ErrorAlreadyExists) for errors.Is matching.
package client
