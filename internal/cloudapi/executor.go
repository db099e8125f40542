package cloudapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/imroc/req/v3"
)

// RequestFactory builds and sends one request. It must be side-effect free
// so the executor can invoke it a second time after a token refresh; a
// consumed body (e.g. multipart content) cannot be resent, so the factory
// rebuilds it from scratch on each call.
type RequestFactory func(r *req.Request) (*req.Response, error)

// Do sends an authenticated request. On an unauthorized response with a
// refresh token at hand it performs exactly one refresh attempt: on success
// the request is re-sent once with the new token and that result is returned
// regardless of outcome; on refresh failure the session is cleared and the
// original unauthorized response is returned. Never more than one
// refresh-and-retry cycle per call.
func (c *Client) Do(ctx context.Context, send RequestFactory) (*req.Response, error) {
	access, refresh := c.tokens.Tokens()

	resp, err := send(c.request(ctx, access))
	if httpStatus(resp) == 0 {
		// nothing came back from the server
		return resp, err
	}

	// An undecodable error body surfaces as a request-level error with the
	// response still attached; the status code drives the flow from here.
	if resp.StatusCode != http.StatusUnauthorized || refresh == "" {
		return resp, err
	}

	tok, err := c.RefreshTokens(ctx, refresh)
	if err != nil {
		slog.Warn("token refresh failed, clearing session", "error", err)
		c.tokens.ClearSession()
		return resp, nil
	}

	newRefresh := tok.RefreshToken
	if newRefresh == "" {
		newRefresh = refresh
	}
	if err := c.tokens.StoreTokens(tok.Token, newRefresh); err != nil {
		slog.Warn("persisting refreshed tokens failed", "error", err)
	}

	return send(c.request(ctx, tok.Token))
}

func (c *Client) request(ctx context.Context, access string) *req.Request {
	r := c.http.R().SetContext(ctx)
	if access != "" {
		r.SetBearerAuthToken(access)
	}
	return r
}

// RefreshTokens rotates the token pair. It does not mutate any stored state;
// that is the caller's decision.
func (c *Client) RefreshTokens(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, ErrNoRefreshToken
	}

	var tok TokenResponse
	var apiErr APIError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&refreshRequest{RefreshToken: refreshToken}).
		SetSuccessResult(&tok).
		SetErrorResult(&apiErr).
		Post(epRefresh)

	if err := checkAPIError(resp, err, "token refresh"); err != nil {
		return nil, err
	}
	if tok.Token == "" {
		return nil, ErrNoAccessToken
	}
	return &tok, nil
}
