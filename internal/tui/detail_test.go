package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

var errFake = errors.New("fake failure")

func testListing() domain.Listing {
	base := time.Now().Add(-time.Hour)
	return domain.Listing{
		ID:          uuid.New(),
		Title:       "porcelain vase",
		Description: "hand painted, small chip on the rim",
		EndsAt:      time.Now().Add(6 * time.Hour),
		Seller:      &domain.Seller{Name: "bob"},
		Bids: []domain.Bid{
			{Amount: 40, Bidder: domain.Bidder{Name: "carol"}, Created: base},
			{Amount: 75, Bidder: domain.Bidder{Name: "dave"}, Created: base.Add(30 * time.Minute)},
		},
	}
}

func TestDetailView_RendersListing(t *testing.T) {
	m := newDetailModel(nil)
	m, _ = m.Update(detailLoadedMsg{listing: testListing()})

	got := m.View()
	for _, want := range []string{"porcelain vase", "@bob", "hand painted", "75 credits", "@carol", "@dave"} {
		if !strings.Contains(got, want) {
			t.Errorf("View() missing %q:\n%s", want, got)
		}
	}
}

func TestDetailView_BidHistoryNewestFirst(t *testing.T) {
	m := newDetailModel(nil)
	m, _ = m.Update(detailLoadedMsg{listing: testListing()})

	got := m.View()
	daveAt := strings.Index(got, "@dave")
	carolAt := strings.Index(got, "@carol")
	if daveAt == -1 || carolAt == -1 {
		t.Fatalf("View() missing bidders:\n%s", got)
	}
	if daveAt > carolAt {
		t.Error("newest bid should render before older ones")
	}
}

func TestDetailView_NoBids(t *testing.T) {
	l := testListing()
	l.Bids = nil
	m := newDetailModel(nil)
	m, _ = m.Update(detailLoadedMsg{listing: l})

	got := m.View()
	if !strings.Contains(got, "no bids yet") {
		t.Errorf("View() missing empty-history text:\n%s", got)
	}
	if !strings.Contains(got, "0 credits") {
		t.Errorf("View() should show a zero current bid:\n%s", got)
	}
}

func TestDetailView_EndedListing(t *testing.T) {
	l := testListing()
	l.EndsAt = time.Now().Add(-time.Minute)
	m := newDetailModel(nil)
	m, _ = m.Update(detailLoadedMsg{listing: l})

	if got := m.View(); !strings.Contains(got, "ended") {
		t.Errorf("View() missing ended marker:\n%s", got)
	}

	m2, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if cmd != nil {
		t.Error("b on an ended listing must not open the bid modal")
	}
	if got := m2.View(); !strings.Contains(got, "this auction has ended") {
		t.Errorf("View() missing ended notice:\n%s", got)
	}
}

func TestDetailView_BidKeyOpensModal(t *testing.T) {
	l := testListing()
	m := newDetailModel(nil)
	m, _ = m.Update(detailLoadedMsg{listing: l})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	if cmd == nil {
		t.Fatal("b should produce a command")
	}
	msg, ok := cmd().(showBidModalMsg)
	if !ok {
		t.Fatalf("cmd() = %T, want showBidModalMsg", cmd())
	}
	if msg.currentHighest != 75 {
		t.Errorf("currentHighest = %d, want 75", msg.currentHighest)
	}
}

func TestDetailView_Error(t *testing.T) {
	m := newDetailModel(nil)
	m, _ = m.Update(detailLoadedMsg{err: errFake})

	if got := m.View(); !strings.Contains(got, "fake failure") {
		t.Errorf("View() missing error:\n%s", got)
	}
}
