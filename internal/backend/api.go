// Package backend implements the client for the CardMatch service: hash
// submission, the registered-category status feed, and card revocation.
//
// The subsystem only ever sends {category, contentHash, expiresAt} — never
// plaintext, never ciphertext — and receives per-category status entries
// with no hashes in them.
package backend

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "cardvault.v1.CardMatch"

// Full method names, as they appear on the wire.
const (
	MethodSubmitCards  = "/" + ServiceName + "/SubmitCards"
	MethodGetStatuses  = "/" + ServiceName + "/GetStatuses"
	MethodRevokeCard   = "/" + ServiceName + "/RevokeCard"
	MethodPing         = "/" + ServiceName + "/Ping"
	MethodRefreshToken = "/" + ServiceName + "/RefreshToken"
)

// SubmitCardsRequest uploads the server-safe projection of live cards.
type SubmitCardsRequest struct {
	Cards []CardSubmission `json:"cards"`
}

// CardSubmission is the wire form of one submitted card.
type CardSubmission struct {
	Category    string `json:"category"`
	ContentHash string `json:"content_hash"`
	ExpiresAt   string `json:"expires_at"`
}

type SubmitCardsResponse struct {
	Accepted int `json:"accepted"`
}

type GetStatusesRequest struct{}

// GetStatusesResponse lists what the server believes is registered for this
// account, across all devices. No hashes: the server never echoes another
// device's digest back.
type GetStatusesResponse struct {
	Cards []ServerCard `json:"cards"`
}

type ServerCard struct {
	Category     string `json:"category"`
	RegisteredAt string `json:"registered_at"`
	ExpiresAt    string `json:"expires_at"`
}

// RevokeCardRequest withdraws a previously submitted hash.
type RevokeCardRequest struct {
	Category    string `json:"category"`
	ContentHash string `json:"content_hash"`
}

type RevokeCardResponse struct{}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// CardMatchServer is the server-side contract, implemented by the real
// backend and by in-process test servers.
type CardMatchServer interface {
	SubmitCards(ctx context.Context, req *SubmitCardsRequest) (*SubmitCardsResponse, error)
	GetStatuses(ctx context.Context, req *GetStatusesRequest) (*GetStatusesResponse, error)
	RevokeCard(ctx context.Context, req *RevokeCardRequest) (*RevokeCardResponse, error)
	Ping(ctx context.Context, req *PingRequest) (*PingResponse, error)
	RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*RefreshTokenResponse, error)
}

// RegisterCardMatchServer registers srv on a gRPC server.
func RegisterCardMatchServer(s grpc.ServiceRegistrar, srv CardMatchServer) {
	s.RegisterService(&cardMatchServiceDesc, srv)
}

func submitCardsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitCardsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardMatchServer).SubmitCards(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodSubmitCards}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CardMatchServer).SubmitCards(ctx, req.(*SubmitCardsRequest))
	})
}

func getStatusesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetStatusesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardMatchServer).GetStatuses(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodGetStatuses}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CardMatchServer).GetStatuses(ctx, req.(*GetStatusesRequest))
	})
}

func revokeCardHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RevokeCardRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardMatchServer).RevokeCard(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRevokeCard}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CardMatchServer).RevokeCard(ctx, req.(*RevokeCardRequest))
	})
}

func pingHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PingRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardMatchServer).Ping(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodPing}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CardMatchServer).Ping(ctx, req.(*PingRequest))
	})
}

func refreshTokenHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RefreshTokenRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(CardMatchServer).RefreshToken(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: MethodRefreshToken}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(CardMatchServer).RefreshToken(ctx, req.(*RefreshTokenRequest))
	})
}

// cardMatchServiceDesc is maintained by hand; the service speaks JSON, so
// there is no .proto to generate it from.
var cardMatchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CardMatchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitCards", Handler: submitCardsHandler},
		{MethodName: "GetStatuses", Handler: getStatusesHandler},
		{MethodName: "RevokeCard", Handler: revokeCardHandler},
		{MethodName: "Ping", Handler: pingHandler},
		{MethodName: "RefreshToken", Handler: refreshTokenHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cardvault/v1/cardmatch",
}
