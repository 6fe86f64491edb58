package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ankiiin/auction-house-sp2/internal/session"
	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

func newTestDashboard(t *testing.T) dashboardModel {
	t.Helper()
	api := client.New("http://unused.invalid", "key", "")
	store, err := session.Open(filepath.Join(t.TempDir(), "session.json"), api, 1000)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return newDashboardModel(api, store)
}

func testProfile() domain.Profile {
	return domain.Profile{
		Name:  "ann",
		Email: "ann@stud.noroff.no",
		Bio:   "collector of odd ceramics",
		Listings: []domain.Listing{
			{ID: uuid.New(), Title: "vase", EndsAt: time.Now().Add(time.Hour)},
			{ID: uuid.New(), Title: "clock", EndsAt: time.Now().Add(-time.Hour)},
		},
	}
}

func TestDashboard_RendersProfileAndListings(t *testing.T) {
	m := newTestDashboard(t)
	m, _ = m.Update(profileLoadedMsg{profile: testProfile()})

	got := m.View()
	for _, want := range []string{"ann", "ann@stud.noroff.no", "odd ceramics", "your listings (2)", "vase", "clock"} {
		if !strings.Contains(got, want) {
			t.Errorf("View() missing %q:\n%s", want, got)
		}
	}
}

func TestDashboard_OwnExpiredListingsStayVisible(t *testing.T) {
	m := newTestDashboard(t)
	m, _ = m.Update(profileLoadedMsg{profile: testProfile()})

	got := m.View()
	if !strings.Contains(got, "clock") || !strings.Contains(got, "ended") {
		t.Errorf("an owner's ended listing should render with its state:\n%s", got)
	}
}

func TestDashboard_DeleteRequiresConfirmation(t *testing.T) {
	m := newTestDashboard(t)
	m, _ = m.Update(profileLoadedMsg{profile: testProfile()})

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	if cmd != nil {
		t.Fatal("d alone must not delete")
	}
	if got := m.View(); !strings.Contains(got, "y to confirm") {
		t.Errorf("View() missing confirmation prompt:\n%s", got)
	}

	// Any key but y cancels.
	m, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if cmd != nil {
		t.Error("cancelled confirmation must not delete")
	}
	if m.confirming {
		t.Error("confirmation should be cleared")
	}
}

func TestDashboard_ConfirmedDeleteIssuesCommand(t *testing.T) {
	m := newTestDashboard(t)
	m, _ = m.Update(profileLoadedMsg{profile: testProfile()})

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("y should issue the delete command")
	}
}

func TestDashboard_EditKeyOpensForm(t *testing.T) {
	profile := testProfile()
	m := newTestDashboard(t)
	m, _ = m.Update(profileLoadedMsg{profile: profile})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if cmd == nil {
		t.Fatal("e should produce a command")
	}
	msg, ok := cmd().(showEditListingMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want showEditListingMsg", cmd())
	}
	if msg.listing.Title != "vase" {
		t.Errorf("listing = %q, want the selected one", msg.listing.Title)
	}
}

func TestDashboard_ProfileEditKey(t *testing.T) {
	m := newTestDashboard(t)
	m, _ = m.Update(profileLoadedMsg{profile: testProfile()})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	if cmd == nil {
		t.Fatal("p should produce a command")
	}
	if _, ok := cmd().(showProfileEditMsg); !ok {
		t.Fatalf("cmd() = %T, want showProfileEditMsg", cmd())
	}
}

func TestDashboard_EmptyListings(t *testing.T) {
	m := newTestDashboard(t)
	profile := testProfile()
	profile.Listings = nil
	m, _ = m.Update(profileLoadedMsg{profile: profile})

	if got := m.View(); !strings.Contains(got, "no listings yet") {
		t.Errorf("View() missing empty state:\n%s", got)
	}
}
