// Package netcheck classifies the current operating condition before any
// network-dependent operation. The status is computed fresh on every call
// and never cached, since connectivity can change between calls.
package netcheck

import (
	"context"
	"net"
	"time"

	"github.com/imroc/req/v3"

	"github.com/itachi2230/fxHabit/internal/version"
)

// Status is the connectivity/session classification.
type Status int

const (
	// NoInternet means the public reachability check failed. The server
	// check is never attempted in this state.
	NoInternet Status = iota
	// ServerUnreachable means the internet is up but the configured server
	// did not answer.
	ServerUnreachable
	// OnlineNoSession means both checks passed but no access token is held.
	OnlineNoSession
	// Ready means both checks passed and a session is present.
	Ready
)

func (s Status) String() string {
	switch s {
	case NoInternet:
		return "no internet"
	case ServerUnreachable:
		return "server unreachable"
	case OnlineNoSession:
		return "online, not signed in"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

const (
	// defaultInternetAddr is a well-known public anycast endpoint used as
	// the "is the internet up at all" probe target.
	defaultInternetAddr = "1.1.1.1:443"

	defaultTimeout = 3 * time.Second
)

// Prober checks reachability of the public internet and of the configured
// server, in that order.
type Prober struct {
	serverURL    string
	internetAddr string
	timeout      time.Duration
	client       *req.Client
}

func New(serverURL string) *Prober {
	return &Prober{
		serverURL:    serverURL,
		internetAddr: defaultInternetAddr,
		timeout:      defaultTimeout,
		client: req.C().
			SetTimeout(defaultTimeout).
			SetUserAgent(version.UserAgent()),
	}
}

// SetInternetAddr overrides the public probe target. Used in tests.
func (p *Prober) SetInternetAddr(addr string) {
	p.internetAddr = addr
}

// SetTimeout bounds each individual reachability check.
func (p *Prober) SetTimeout(d time.Duration) {
	p.timeout = d
	p.client.SetTimeout(d)
}

// Probe classifies the current operating condition. loggedIn tells the
// prober whether a non-empty access token is currently held.
func (p *Prober) Probe(ctx context.Context, loggedIn bool) Status {
	if !p.internetReachable(ctx) {
		return NoInternet
	}
	if !p.serverReachable(ctx) {
		return ServerUnreachable
	}
	if loggedIn {
		return Ready
	}
	return OnlineNoSession
}

func (p *Prober) internetReachable(ctx context.Context) bool {
	d := net.Dialer{Timeout: p.timeout}
	conn, err := d.DialContext(ctx, "tcp", p.internetAddr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// serverReachable issues a lightweight request against the server base URL.
// Any HTTP response counts as reachable; only a failed exchange does not.
func (p *Prober) serverReachable(ctx context.Context) bool {
	_, err := p.client.R().SetContext(ctx).Head(p.serverURL)
	return err == nil
}
