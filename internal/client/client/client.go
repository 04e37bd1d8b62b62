package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
)

// Requester issues authenticated requests. HTTPClient implements it; the
// resource groups and the stores depend only on this contract.
type Requester interface {
	Request(ctx context.Context, method, path string, body any, query url.Values, out any) error
}

// PublicRequester issues requests that never carry a bearer token and are
// exempt from refresh handling.
type PublicRequester interface {
	Public(ctx context.Context, method, path string, body any, out any) error
}

// TokenStore is the durable home of the token pair. Only the refresh cycle
// and login write to it.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	// Pair reads both tokens consistently.
	Pair(ctx context.Context) (models.TokenPair, error)
	SavePair(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
}
