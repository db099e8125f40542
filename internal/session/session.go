// Package session persists the cloud session across process restarts.
//
// Two files live next to the client config: session.json holds the token
// pair and is the sole source of truth for "is a user logged in", while
// profile.json caches profile metadata so the UI can render it before any
// network round trip. Writes are atomic (temp file + rename) so a crash
// mid-write never leaves a truncated file behind.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofrs/flock"

	"github.com/itachi2230/fxHabit/internal/utils"
)

const (
	sessionFileName = "session.json"
	profileFileName = "profile.json"
	lockFileName    = ".session.lock"
)

// Session is the persisted token pair. A non-empty access token implies a
// prior successful login or refresh.
type Session struct {
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// LoggedIn reports whether the session holds an access token.
func (s *Session) LoggedIn() bool {
	return s != nil && s.AccessToken != ""
}

// Profile is the locally cached view of the signed-in user.
type Profile struct {
	FullName  string     `json:"fullName"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Bio       string     `json:"bio,omitempty"`
	ImagePath string     `json:"imagePath,omitempty"`
	LastSync  *time.Time `json:"lastSync,omitempty"`
}

// Store reads and writes session state under a single directory. Access is
// serialized with an in-process mutex plus a file lock, so concurrent
// operations and a second client process cannot clobber each other.
type Store struct {
	dir string
	mu  sync.Mutex
	fl  *flock.Flock
}

func NewStore(dir string) *Store {
	return &Store{
		dir: dir,
		fl:  flock.New(filepath.Join(dir, lockFileName)),
	}
}

func (st *Store) sessionPath() string { return filepath.Join(st.dir, sessionFileName) }
func (st *Store) profilePath() string { return filepath.Join(st.dir, profileFileName) }

// Load returns the persisted session. A missing or unparseable file yields
// an empty session, never an error.
func (st *Store) Load() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	var s Session
	data, err := os.ReadFile(st.sessionPath())
	if err != nil {
		return &Session{}
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return &Session{}
	}
	return &s
}

// Save persists the session atomically.
func (st *Store) Save(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.lock(); err != nil {
		return err
	}
	defer st.fl.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("session save: %w", err)
	}
	return writeAtomic(st.sessionPath(), data)
}

// Clear removes both the session and the cached profile. Safe to call when
// neither exists.
func (st *Store) Clear() error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if err := st.lock(); err != nil {
		return err
	}
	defer st.fl.Unlock()

	var firstErr error
	for _, path := range []string{st.sessionPath(), st.profilePath()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("session clear: %w", err)
		}
	}
	return firstErr
}

// LoadProfile returns the cached profile, or nil when none is cached.
func (st *Store) LoadProfile() *Profile {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := os.ReadFile(st.profilePath())
	if err != nil {
		return nil
	}
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	return &p
}

// SaveProfile persists the profile cache atomically.
func (st *Store) SaveProfile(p *Profile) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("profile save: %w", err)
	}
	return writeAtomic(st.profilePath(), data)
}

// SetLastSync stamps the cached profile with the time of the last completed
// sync, creating the cache if needed.
func (st *Store) SetLastSync(at time.Time) error {
	p := st.LoadProfile()
	if p == nil {
		p = &Profile{}
	}
	p.LastSync = &at
	return st.SaveProfile(p)
}

func (st *Store) lock() error {
	if err := utils.EnsureDir(st.dir); err != nil {
		return err
	}
	if err := st.fl.Lock(); err != nil {
		return fmt.Errorf("session lock: %w", err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
