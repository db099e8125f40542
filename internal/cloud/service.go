// Package cloud orchestrates authentication, session state and file sync
// for the FxHabit cloud client. All public operations return result values,
// never raise across the boundary; the worst case is a forced logout.
package cloud

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/itachi2230/fxHabit/internal/cloudapi"
	"github.com/itachi2230/fxHabit/internal/config"
	"github.com/itachi2230/fxHabit/internal/netcheck"
	"github.com/itachi2230/fxHabit/internal/session"
	"github.com/itachi2230/fxHabit/internal/utils"
)

// Service owns the session store, the connectivity prober and the API
// client. It is the only component that mutates session state.
type Service struct {
	cfg    *config.Config
	store  *session.Store
	prober *netcheck.Prober
	api    *cloudapi.Client

	mu      sync.Mutex
	current *session.Session
}

func New(cfg *config.Config) *Service {
	s := &Service{
		cfg:    cfg,
		store:  session.NewStore(cfg.Dir()),
		prober: netcheck.New(cfg.ServerURL),
	}
	s.current = s.store.Load()
	s.api = cloudapi.New(cfg.ServerURL, s)
	return s
}

// Tokens implements cloudapi.TokenStore.
func (s *Service) Tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.AccessToken, s.current.RefreshToken
}

// StoreTokens implements cloudapi.TokenStore.
func (s *Service) StoreTokens(access, refresh string) error {
	s.mu.Lock()
	s.current = &session.Session{AccessToken: access, RefreshToken: refresh}
	snapshot := *s.current
	s.mu.Unlock()
	return s.store.Save(&snapshot)
}

// ClearSession implements cloudapi.TokenStore.
func (s *Service) ClearSession() {
	s.mu.Lock()
	s.current = &session.Session{}
	s.mu.Unlock()
	if err := s.store.Clear(); err != nil {
		slog.Warn("session clear", "error", err)
	}
}

// LoggedIn reports whether an access token is currently held.
func (s *Service) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.LoggedIn()
}

// Status computes the current connectivity/session classification. Never
// cached; connectivity can change between calls.
func (s *Service) Status(ctx context.Context) netcheck.Status {
	return s.prober.Probe(ctx, s.LoggedIn())
}

// Login establishes a session. On success the token pair is persisted and
// the profile cache is refreshed best-effort.
func (s *Service) Login(ctx context.Context, identifier, password string) AuthOutcome {
	if out := statusOutcome(s.Status(ctx)); !out.OK() {
		return out
	}

	tok, err := s.api.Login(ctx, identifier, password)
	if err != nil {
		slog.Error("login", "identifier", identifier, "error", err)
		return errOutcome(err)
	}

	if err := s.StoreTokens(tok.Token, tok.RefreshToken); err != nil {
		slog.Error("login: persist session", "error", err)
		return AuthUnknown
	}

	if _, err := s.RefreshProfile(ctx); err != nil {
		// session is valid either way
		slog.Warn("login: profile fetch", "error", err)
	}

	slog.Info("login ok", "identifier", identifier,
		"token", utils.MaskSecret(tok.Token), "refresh", tok.RefreshToken != "")
	return AuthOK
}

// Register creates an account and, on success, immediately logs in with the
// same credentials; registration alone yields no session.
func (s *Service) Register(ctx context.Context, params *cloudapi.RegisterParams) AuthOutcome {
	if out := statusOutcome(s.Status(ctx)); !out.OK() {
		return out
	}

	if err := s.api.Register(ctx, params); err != nil {
		slog.Error("register", "email", params.Email, "error", err)
		return errOutcome(err)
	}

	identifier := params.Email
	if identifier == "" {
		identifier = params.Phone
	}
	return s.Login(ctx, identifier, params.Password)
}

// Refresh rotates the token pair. It is a no-op false when no refresh token
// is held; on any failure the prior state is left untouched.
func (s *Service) Refresh(ctx context.Context) bool {
	_, refresh := s.Tokens()
	if refresh == "" {
		return false
	}

	tok, err := s.api.RefreshTokens(ctx, refresh)
	if err != nil {
		slog.Warn("token refresh", "error", err)
		return false
	}

	newRefresh := tok.RefreshToken
	if newRefresh == "" {
		newRefresh = refresh
	}
	if err := s.StoreTokens(tok.Token, newRefresh); err != nil {
		slog.Error("token refresh: persist", "error", err)
		return false
	}
	return true
}

// Logout clears in-memory tokens and deletes both session files. Idempotent.
func (s *Service) Logout() {
	s.ClearSession()
	slog.Info("logged out")
}

// CachedProfile returns the locally cached profile without any network
// round trip, or nil when none is cached.
func (s *Service) CachedProfile() *session.Profile {
	return s.store.LoadProfile()
}

// RefreshProfile fetches the profile from the server, re-populates the local
// cache and pulls the profile picture into the image cache directory.
func (s *Service) RefreshProfile(ctx context.Context) (*session.Profile, error) {
	user, err := s.api.Me(ctx)
	if err != nil {
		return nil, err
	}

	p := s.store.LoadProfile()
	if p == nil {
		p = &session.Profile{}
	}
	p.FullName = user.FullName
	p.Email = user.Email
	p.Phone = user.Phone
	p.Bio = user.Bio

	if user.ProfilePicture != "" {
		imgPath, err := s.api.DownloadProfileImage(ctx, user.ProfilePicture, s.imageCacheDir())
		if err != nil {
			slog.Warn("profile image download", "file", user.ProfilePicture, "error", err)
		} else {
			p.ImagePath = imgPath
		}
	}

	if err := s.store.SaveProfile(p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile pushes changed profile fields to the server and refreshes
// the local cache from its response.
func (s *Service) UpdateProfile(ctx context.Context, params *cloudapi.ProfileParams) AuthOutcome {
	if out := statusOutcome(s.Status(ctx)); !out.OK() {
		return out
	}

	user, err := s.api.UpdateProfile(ctx, params)
	if err != nil {
		slog.Error("profile update", "error", err)
		return errOutcome(err)
	}

	p := s.store.LoadProfile()
	if p == nil {
		p = &session.Profile{}
	}
	p.FullName = user.FullName
	p.Phone = user.Phone
	p.Bio = user.Bio
	if err := s.store.SaveProfile(p); err != nil {
		slog.Warn("profile cache", "error", err)
	}
	return AuthOK
}

func (s *Service) imageCacheDir() string {
	return filepath.Join(s.cfg.Dir(), "cache")
}
