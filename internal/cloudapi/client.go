// Package cloudapi is the HTTP client for the FxHabit cloud API. It owns a
// single long-lived connection pool, attaches the bearer credential
// per-request, and implements the single refresh-and-retry policy for
// expired access tokens.
package cloudapi

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/imroc/req/v3"

	"github.com/itachi2230/fxHabit/internal/utils"
	"github.com/itachi2230/fxHabit/internal/version"
)

const (
	HeaderDeviceID = "X-Fx-Device-Id"

	requestTimeout = 30 * time.Second
)

// API endpoints, relative to the configured server URL.
const (
	epRegister     = "/api/register"
	epLogin        = "/api/login"
	epRefresh      = "/token/refresh"
	epMe           = "/api/me"
	epUserUpdate   = "/api/user/update"
	epProfileImage = "/profiles/"
	epFileInfo     = "/api/cloud/file-info"
	epSyncFile     = "/api/cloud/sync-file"
	epList         = "/api/cloud/list"
	epDownload     = "/api/cloud/download"
)

// TokenStore supplies the current token pair and receives updates made by
// the refresh-and-retry path.
type TokenStore interface {
	// Tokens returns the current access and refresh tokens, either of
	// which may be empty.
	Tokens() (access, refresh string)
	// StoreTokens persists a rotated token pair.
	StoreTokens(access, refresh string) error
	// ClearSession logs the user out after a failed refresh, so the next
	// launch does not silently retry with dead credentials.
	ClearSession()
}

// Client talks to the FxHabit cloud server. It carries no ambient credential
// state: the bearer token is attached to each request explicitly, so
// concurrent calls can never leak the wrong token onto a request.
type Client struct {
	http   *req.Client
	tokens TokenStore
}

// New creates a Client for the given server base URL. The transport performs
// no automatic retries; the only retry in the system is the single
// refresh-and-retry cycle in Do.
func New(baseURL string, tokens TokenStore) *Client {
	c := req.C().
		SetBaseURL(baseURL).
		SetTimeout(requestTimeout).
		SetUserAgent(version.UserAgent()).
		SetCommonHeader(HeaderDeviceID, utils.HWID).
		SetJsonMarshal(json.Marshal).
		SetJsonUnmarshal(json.Unmarshal)

	return &Client{http: c, tokens: tokens}
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}
