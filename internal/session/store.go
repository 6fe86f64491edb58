package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

// Store owns the persisted session state: access token, logged-in profile
// and the cached credit balance. It is the single writer of the session
// file; every other component goes through its methods. Safe for use from
// concurrent command goroutines.
type Store struct {
	mu   sync.Mutex
	path string
	api  *client.Client

	session domain.Session

	// bidMarks remembers the viewer's last accepted bid per listing so a
	// freshly bid-on card can show the new highest before the next fetch.
	// Transient — never persisted.
	bidMarks map[uuid.UUID]int
}

// Open hydrates the store from disk. On first visit the cached credit
// balance initialises to defaultCredits and is persisted immediately.
func Open(path string, api *client.Client, defaultCredits int) (*Store, error) {
	s := &Store{
		path:     path,
		api:      api,
		bidMarks: make(map[uuid.UUID]int),
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		s.session = domain.Session{Credits: defaultCredits}
		if err := s.persist(); err != nil {
			return nil, fmt.Errorf("session.Open: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("session.Open: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &s.session); err != nil {
			return nil, fmt.Errorf("session.Open: decode %s: %w", path, err)
		}
	}

	api.SetToken(s.session.AccessToken)
	return s, nil
}

// Login validates credentials locally, authenticates against the API and
// persists the resulting token and profile. Validation failures never reach
// the network.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Profile, error) {
	if err := domain.ValidateCredentials(email, password); err != nil {
		return domain.Profile{}, err
	}

	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("session.Login: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.AccessToken = result.AccessToken
	s.session.Profile = result.Profile()
	s.api.SetToken(result.AccessToken)
	if err := s.persist(); err != nil {
		return domain.Profile{}, fmt.Errorf("session.Login: %w", err)
	}

	log.Info().Str("user", result.Name).Msg("logged in")
	return result.Profile(), nil
}

// Register validates inputs locally and creates the account. The caller
// logs in afterwards.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	if err := domain.ValidateRegistration(name, email, password); err != nil {
		return err
	}
	if err := s.api.Register(ctx, name, email, password); err != nil {
		return fmt.Errorf("session.Register: %w", err)
	}
	return nil
}

// Logout clears the token, profile and per-listing bid markers. Idempotent.
// The cached credit balance survives, matching the original behaviour of
// the persisted balance outliving the login.
func (s *Store) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session.AccessToken = ""
	s.session.Profile = domain.Profile{}
	s.bidMarks = make(map[uuid.UUID]int)
	s.api.SetToken("")

	if err := s.persist(); err != nil {
		return fmt.Errorf("session.Logout: %w", err)
	}
	return nil
}

// CurrentUser returns the logged-in profile, if any.
func (s *Store) CurrentUser() (domain.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.AccessToken == "" {
		return domain.Profile{}, false
	}
	return s.session.Profile, true
}

// LoggedIn reports whether the store holds an access token.
func (s *Store) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.LoggedIn()
}

// UpdateProfile replaces the persisted profile after a remote edit.
func (s *Store) UpdateProfile(p domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Profile = p
	if err := s.persist(); err != nil {
		return fmt.Errorf("session.UpdateProfile: %w", err)
	}
	return nil
}

// Credits returns the cached credit balance.
func (s *Store) Credits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Credits
}

// SetCredits overwrites and persists the cached credit balance.
func (s *Store) SetCredits(credits int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Credits = credits
	if err := s.persist(); err != nil {
		return fmt.Errorf("session.SetCredits: %w", err)
	}
	return nil
}

// MarkBid records the viewer's accepted bid for a listing.
func (s *Store) MarkBid(id uuid.UUID, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bidMarks[id] = amount
}

// BidMark returns the viewer's last accepted bid for a listing, if any.
func (s *Store) BidMark(id uuid.UUID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	amount, ok := s.bidMarks[id]
	return amount, ok
}

// persist writes the session file. Callers hold s.mu (or own s exclusively
// during Open).
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(s.session, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
