package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/salesdesk/internal/client/models"
)

const refreshFlight = "refresh"

// refresh recovers from a 401 received with the rejected access token.
// Concurrent callers share one in-flight refresh. A caller whose token was
// already replaced by someone else's refresh returns immediately and
// replays with the stored token.
//
// On failure the hard logout has already happened and
// ErrAuthenticationExpired is returned.
func (c *HTTPClient) refresh(ctx context.Context, rejected string) error {
	ch := c.refreshes.DoChan(refreshFlight, func() (any, error) {
		// The flight is shared: one caller giving up must not cancel it
		// for the others.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTimeout)
		defer cancel()

		pair, err := c.tokens.Pair(rctx)
		if err != nil {
			return nil, fmt.Errorf("read token pair: %w", err)
		}
		if pair.AccessToken != "" && pair.AccessToken != rejected {
			c.metrics.refreshes.WithLabelValues("reused").Inc()
			return nil, nil
		}
		// A token was sent but the store is empty: an earlier flight already
		// failed and logged out.
		if rejected != "" && pair.AccessToken == "" && pair.RefreshToken == "" {
			return nil, ErrAuthenticationExpired
		}

		if err := c.rotate(rctx, pair.RefreshToken); err != nil {
			c.metrics.refreshes.WithLabelValues("failure").Inc()
			c.log.Warn(rctx, "token refresh failed", "error", err)
			c.expire(rctx, "refresh failed", "")
			return nil, ErrAuthenticationExpired
		}

		c.metrics.refreshes.WithLabelValues("success").Inc()
		c.log.Info(rctx, "access token refreshed")
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// rotate exchanges refreshToken for a new pair and persists whatever the
// server returned.
func (c *HTTPClient) rotate(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return errNoRefreshToken
	}

	var pair models.TokenPair
	if err := c.Public(ctx, http.MethodPost, "/auth/refresh", models.RefreshRequest{RefreshToken: refreshToken}, &pair); err != nil {
		return err
	}
	if pair.AccessToken == "" {
		return errMalformedRefresh
	}
	return c.tokens.SavePair(ctx, pair)
}
