package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

func newTestStore(t *testing.T, handler http.Handler) (*Store, string, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if handler == nil {
			http.NotFound(w, r)
			return
		}
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "session.json")
	api := client.New(srv.URL, "key", "")
	store, err := Open(path, api, 1000)
	require.NoError(t, err)
	return store, path, &calls
}

func TestOpen_InitialisesDefaultCredits(t *testing.T) {
	store, path, _ := newTestStore(t, nil)

	assert.Equal(t, 1000, store.Credits())
	assert.False(t, store.LoggedIn())

	// The fresh session is persisted immediately.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var persisted domain.Session
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, 1000, persisted.Credits)
}

func TestOpen_HydratesExistingSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	existing := domain.Session{
		AccessToken: "tok",
		Profile:     domain.Profile{Name: "ann"},
		Credits:     640,
	}
	data, err := json.Marshal(existing)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	api := client.New("http://unused.invalid", "key", "")
	store, err := Open(path, api, 1000)
	require.NoError(t, err)

	assert.Equal(t, 640, store.Credits())
	user, ok := store.CurrentUser()
	require.True(t, ok)
	assert.Equal(t, "ann", user.Name)
}

func TestLogin_ValidationNeverReachesNetwork(t *testing.T) {
	store, _, calls := newTestStore(t, nil)
	before := calls.Load()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong domain", "ann@gmail.com", "hunter2hunter2"},
		{"short password", "ann@stud.noroff.no", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.True(t, domain.IsValidation(err))
		})
	}
	assert.Equal(t, before, calls.Load(), "validation failures must not hit the API")
}

func TestLogin_PersistsTokenAndProfile(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"data": client.LoginResult{Name: "ann", Email: "ann@stud.noroff.no", AccessToken: "tok-1"},
		})
	})
	store, path, _ := newTestStore(t, handler)

	profile, err := store.Login(context.Background(), "ann@stud.noroff.no", "hunter2hunter2")
	require.NoError(t, err)
	assert.Equal(t, "ann", profile.Name)
	assert.True(t, store.LoggedIn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var persisted domain.Session
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, "tok-1", persisted.AccessToken)
	assert.Equal(t, "ann", persisted.Profile.Name)
}

func TestLogout_KeepsCreditsAndIsIdempotent(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{ //nolint:errcheck
			"data": client.LoginResult{Name: "ann", AccessToken: "tok-1"},
		})
	})
	store, _, _ := newTestStore(t, handler)

	_, err := store.Login(context.Background(), "ann@stud.noroff.no", "hunter2hunter2")
	require.NoError(t, err)
	require.NoError(t, store.SetCredits(750))
	store.MarkBid(uuid.New(), 80)

	require.NoError(t, store.Logout())
	require.NoError(t, store.Logout())

	assert.False(t, store.LoggedIn())
	assert.Equal(t, 750, store.Credits(), "the balance survives logout")
	_, ok := store.CurrentUser()
	assert.False(t, ok)
}

func TestBidMarks(t *testing.T) {
	store, _, _ := newTestStore(t, nil)
	id := uuid.New()

	_, ok := store.BidMark(id)
	assert.False(t, ok)

	store.MarkBid(id, 120)
	amount, ok := store.BidMark(id)
	require.True(t, ok)
	assert.Equal(t, 120, amount)
}
