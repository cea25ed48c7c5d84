package backend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/saikai-app/cardvault/internal/common"
	"github.com/saikai-app/cardvault/internal/models"
)

var (
	// ErrUnauthorized means the session tokens were rejected and could not be
	// refreshed; the user has to sign in again through the main app.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable means the backend could not be reached; the operation may
	// be retried as-is.
	ErrUnavailable = errors.New("server unavailable")
)

// refreshLeeway is how close to expiry an access token may get before the
// client refreshes it ahead of the call instead of waiting for a rejection.
const refreshLeeway = 30 * time.Second

// Client is the backend surface the rest of the subsystem uses.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	SubmitCards(ctx context.Context, cards []models.CardSubmission) (int, error)
	GetStatuses(ctx context.Context) ([]models.ServerCard, error)
	RevokeCard(ctx context.Context, category models.Category, contentHash string) error
	SetTokens(accessToken, refreshToken string)
}

// GRPCClient talks to the CardMatch service over gRPC with the JSON codec.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func NewGRPCClient(endpointURL string, extraOpts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, extraOpts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

// SetTokens installs the session obtained by the main app's sign-in flow.
func (s *GRPCClient) SetTokens(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = accessToken
	s.refreshToken = refreshToken
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// tokenNearExpiry reports whether the access token's exp claim is within
// refreshLeeway of now. The claim is read without signature verification;
// only the server verifies tokens, the client just schedules refreshes.
func tokenNearExpiry(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return now.Add(refreshLeeway).After(exp.Time)
}

func (s *GRPCClient) refresh(ctx context.Context) error {
	_, refreshToken := s.tokens()
	if refreshToken == "" {
		return common.ErrTokenExpired
	}

	resp := new(RefreshTokenResponse)
	err := s.conn.Invoke(ctx, MethodRefreshToken, &RefreshTokenRequest{RefreshToken: refreshToken}, resp)
	if err != nil {
		return err
	}

	s.SetTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	// The refresh call itself carries no access token and must not recurse.
	if method == MethodRefreshToken {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	accessToken, _ := s.tokens()
	if tokenNearExpiry(accessToken, time.Now()) {
		if err := s.refresh(ctx); err == nil {
			accessToken, _ = s.tokens()
		}
	}

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	if err := s.refresh(ctx); err != nil {
		return err
	}

	accessToken, _ = s.tokens()
	return invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)
}

func (s *GRPCClient) SubmitCards(ctx context.Context, cards []models.CardSubmission) (int, error) {
	req := &SubmitCardsRequest{Cards: make([]CardSubmission, 0, len(cards))}
	for _, c := range cards {
		req.Cards = append(req.Cards, CardSubmission{
			Category:    string(c.Category),
			ContentHash: c.ContentHash,
			ExpiresAt:   c.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}

	resp := new(SubmitCardsResponse)
	if err := s.conn.Invoke(ctx, MethodSubmitCards, req, resp); err != nil {
		return 0, s.mapError(err)
	}
	return resp.Accepted, nil
}

func (s *GRPCClient) GetStatuses(ctx context.Context) ([]models.ServerCard, error) {
	resp := new(GetStatusesResponse)
	if err := s.conn.Invoke(ctx, MethodGetStatuses, &GetStatusesRequest{}, resp); err != nil {
		return nil, s.mapError(err)
	}

	cards := make([]models.ServerCard, 0, len(resp.Cards))
	for _, c := range resp.Cards {
		registeredAt, err := time.Parse(time.RFC3339, c.RegisteredAt)
		if err != nil {
			return nil, fmt.Errorf("bad registered_at for %q: %w", c.Category, err)
		}
		expiresAt, err := time.Parse(time.RFC3339, c.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("bad expires_at for %q: %w", c.Category, err)
		}
		cards = append(cards, models.ServerCard{
			Category:     models.Category(c.Category),
			RegisteredAt: registeredAt,
			ExpiresAt:    expiresAt,
		})
	}
	return cards, nil
}

func (s *GRPCClient) RevokeCard(ctx context.Context, category models.Category, contentHash string) error {
	req := &RevokeCardRequest{Category: string(category), ContentHash: contentHash}
	if err := s.conn.Invoke(ctx, MethodRevokeCard, req, new(RevokeCardResponse)); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp := new(PingResponse)
	if err := s.conn.Invoke(ctx, MethodPing, &PingRequest{}, resp); err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
