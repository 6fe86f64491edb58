package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ankiiin/auction-house-sp2/internal/feed"
)

// feedPageMsg carries the result of one feed controller page load. The
// requested field records the page the load started from, which can differ
// from page.NextPage-1 when the controller skipped fully filtered pages.
type feedPageMsg struct {
	requested int
	page      feed.Page
	err       error
}

// feedModel renders the paginated public feed with infinite scroll: moving
// the cursor near the bottom loads the next page and appends, leaving
// already-rendered cards untouched.
type feedModel struct {
	ctrl      *feed.Controller
	threshold int

	cards    []feed.Card
	cursor   int
	nextPage int
	lastPage bool
	loading  bool
	err      error
	width    int
	height   int
}

func newFeedModel(ctrl *feed.Controller, threshold int) feedModel {
	return feedModel{ctrl: ctrl, threshold: threshold, nextPage: 1}
}

// Init reloads the feed from the first page.
func (m feedModel) Init() tea.Cmd {
	m.ctrl.Reset()
	return m.loadPage(1)
}

// loadPage claims the single-flight slot and fetches one page. A trigger
// while a load is in flight returns nil and is dropped.
func (m feedModel) loadPage(page int) tea.Cmd {
	ctrl := m.ctrl
	if !ctrl.TryBegin() {
		return nil
	}
	return func() tea.Msg {
		defer ctrl.End()
		p, err := ctrl.LoadPage(context.Background(), page)
		return feedPageMsg{requested: page, page: p, err: err}
	}
}

func (m feedModel) Update(msg tea.Msg) (feedModel, tea.Cmd) {
	switch msg := msg.(type) {
	case feedPageMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.requested == 1 {
			// Fresh reload: replace instead of append.
			m.cards = msg.page.Cards
			m.cursor = 0
		} else {
			m.cards = append(m.cards, msg.page.Cards...)
		}
		m.nextPage = msg.page.NextPage
		m.lastPage = msg.page.LastPage
		return m, nil

	case bidPlacedMsg:
		for i := range m.cards {
			if m.cards[i].Listing.ID == msg.listingID {
				m.cards[i].Highest = msg.newHighest
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m feedModel) updateKeys(msg tea.KeyMsg) (feedModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.cards)-1 {
			m.cursor++
		}
		if cmd := m.maybeLoadMore(); cmd != nil {
			m.loading = true
			return m, cmd
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "G":
		if len(m.cards) > 0 {
			m.cursor = len(m.cards) - 1
		}
		if cmd := m.maybeLoadMore(); cmd != nil {
			m.loading = true
			return m, cmd
		}
	case "enter":
		if m.cursor < len(m.cards) {
			card := m.cards[m.cursor]
			return m, func() tea.Msg { return showDetailMsg{listingID: card.Listing.ID} }
		}
	case "b":
		if m.cursor < len(m.cards) {
			card := m.cards[m.cursor]
			return m, func() tea.Msg {
				return showBidModalMsg{listingID: card.Listing.ID, currentHighest: card.Highest}
			}
		}
	case "/":
		return m, func() tea.Msg { return showSearchMsg{} }
	case "r":
		m.ctrl.Reset()
		m.loading = true
		m.cards = nil
		m.cursor = 0
		m.lastPage = false
		return m, m.loadPage(1)
	}
	return m, nil
}

// maybeLoadMore triggers the next page when the cursor crosses the
// near-bottom threshold and no load is in flight.
func (m feedModel) maybeLoadMore() tea.Cmd {
	if m.lastPage || len(m.cards) == 0 {
		return nil
	}
	if m.cursor < len(m.cards)-m.threshold {
		return nil
	}
	return m.loadPage(m.nextPage)
}

func (m feedModel) View() string {
	if m.err != nil {
		return "\n " + errorStyle.Render("error: "+m.err.Error()) + "\n " + dimStyle.Render("r to retry")
	}
	if len(m.cards) == 0 {
		if m.loading || m.nextPage == 1 {
			return "\n " + dimStyle.Render("loading listings...")
		}
		return "\n " + dimStyle.Render("no active listings")
	}

	now := time.Now()
	var b strings.Builder
	for i, card := range m.cards {
		cursor := "  "
		titleStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			titleStyle = selectedStyle
		}

		seller := ""
		if card.Listing.Seller != nil {
			seller = sellerStyle.Render("@" + card.Listing.Seller.Name)
		}

		fmt.Fprintf(&b, "%s%s  %s  %s  %s\n",
			cursor,
			titleStyle.Render(truncStr(card.Listing.Title, 40)),
			bidStyle.Render(fmt.Sprintf("%d cr", card.Highest)),
			metaStyle.Render(timeLeft(card.Listing.EndsAt, now)),
			seller,
		)
		if i == m.cursor && card.Listing.Description != "" {
			fmt.Fprintf(&b, "    %s\n", dimStyle.Render(truncStr(oneLine(card.Listing.Description), 70)))
		}
	}

	if m.loading {
		b.WriteString("\n " + dimStyle.Render("loading more..."))
	} else if m.lastPage && m.cursor >= len(m.cards)-1 {
		b.WriteString("\n " + metaStyle.Render("end of feed"))
	}

	return b.String()
}
