package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

const minSearchLen = 2

type searchResultsMsg struct {
	query    string
	listings []domain.Listing
	err      error
}

// searchModel is the search overlay: a query input plus matching listings.
// Selecting a result closes the overlay and opens the listing detail.
type searchModel struct {
	client *client.Client

	query     string
	results   []domain.Listing
	cursor    int
	searching bool
	errMsg    string
	closed    bool
	selected  *domain.Listing
}

func newSearchModel(c *client.Client) searchModel {
	return searchModel{client: c}
}

func (m searchModel) runSearch() (searchModel, tea.Cmd) {
	query := strings.TrimSpace(m.query)
	if len([]rune(query)) < minSearchLen {
		m.errMsg = fmt.Sprintf("type at least %d characters", minSearchLen)
		return m, nil
	}
	m.searching = true
	m.errMsg = ""
	c := m.client
	return m, func() tea.Msg {
		listings, err := c.SearchListings(context.Background(), query)
		return searchResultsMsg{query: query, listings: listings, err: err}
	}
}

func (m searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case searchResultsMsg:
		m.searching = false
		if msg.query != strings.TrimSpace(m.query) {
			// Stale result from an earlier query.
			return m, nil
		}
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		active := msg.listings[:0:0]
		now := time.Now()
		for _, l := range msg.listings {
			if !l.Expired(now) {
				active = append(active, l)
			}
		}
		m.results = active
		m.cursor = 0
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.closed = true
			return m, nil
		case "enter":
			if len(m.results) > 0 && m.cursor < len(m.results) {
				selected := m.results[m.cursor]
				m.selected = &selected
				m.closed = true
				return m, nil
			}
			return m.runSearch()
		case "down", "ctrl+n":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
		case "backspace":
			m.query = editRune(m.query, "backspace")
		default:
			if len(msg.Runes) == 1 {
				m.query = editRune(m.query, msg.String())
			}
		}
	}
	return m, nil
}

func (m searchModel) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s %s█\n", accentStyle.Render("search:"), m.query)

	switch {
	case m.searching:
		b.WriteString("\n " + dimStyle.Render("searching..."))
	case m.errMsg != "":
		b.WriteString("\n " + errorStyle.Render(m.errMsg))
	case len(m.results) == 0 && m.query != "":
		b.WriteString("\n " + dimStyle.Render("no matches, enter to search"))
	}

	now := time.Now()
	for i, l := range m.results {
		cursor := "  "
		titleStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			titleStyle = selectedStyle
		}
		seller := ""
		if l.Seller != nil {
			seller = sellerStyle.Render("@" + l.Seller.Name)
		}
		fmt.Fprintf(&b, "%s%s  %s  %s  %s\n",
			cursor,
			titleStyle.Render(truncStr(l.Title, 40)),
			bidStyle.Render(fmt.Sprintf("%d cr", l.HighestBid())),
			metaStyle.Render(timeLeft(l.EndsAt, now)),
			seller)
	}

	return b.String()
}
