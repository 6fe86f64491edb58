package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ankiiin/auction-house-sp2/internal/browser"
	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

type detailLoadedMsg struct {
	listing domain.Listing
	err     error
}

type copyResultMsg struct{ err error }

// detailModel shows one listing: media, description, seller, time left and
// the bid history, newest first.
type detailModel struct {
	client *client.Client

	listingID uuid.UUID
	listing   *domain.Listing
	err       error
	statusMsg string
	width     int
	height    int
}

func newDetailModel(c *client.Client) detailModel {
	return detailModel{client: c}
}

// load fetches the listing fresh, with bids and seller embedded.
func (m detailModel) load(id uuid.UUID) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		listing, err := c.GetListing(context.Background(), id)
		return detailLoadedMsg{listing: listing, err: err}
	}
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		listing := msg.listing
		m.listing = &listing
		m.listingID = listing.ID
		return m, nil

	case bidPlacedMsg:
		// Re-fetch so the history includes the accepted bid.
		if m.listing != nil && m.listing.ID == msg.listingID {
			return m, m.load(m.listingID)
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "link copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m detailModel) updateKeys(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	switch msg.String() {
	case "b":
		if m.listing != nil && !m.listing.Expired(time.Now()) {
			listing := m.listing
			return m, func() tea.Msg {
				return showBidModalMsg{listingID: listing.ID, currentHighest: listing.HighestBid()}
			}
		}
		m.statusMsg = "this auction has ended"
	case "c":
		if m.listing != nil {
			link := listingLink(m.listing.ID)
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(link)}
			}
		}
	case "o":
		if m.listing != nil && len(m.listing.Media) > 0 {
			browser.Open(m.listing.Media[0].URL) //nolint:errcheck // best-effort browser open
		}
	case "r":
		if m.listing != nil {
			return m, m.load(m.listingID)
		}
	}
	return m, nil
}

func (m detailModel) View() string {
	if m.err != nil {
		return "\n " + errorStyle.Render("error: "+m.err.Error())
	}
	if m.listing == nil {
		return "\n " + dimStyle.Render("loading...")
	}

	l := m.listing
	now := time.Now()

	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render(l.Title) + "\n")

	seller := "unknown seller"
	if l.Seller != nil {
		seller = "@" + l.Seller.Name
	}
	left := timeLeft(l.EndsAt, now)
	leftStyle := metaStyle
	if l.Expired(now) {
		leftStyle = endedStyle
	}
	fmt.Fprintf(&b, " %s  %s\n\n", sellerStyle.Render(seller), leftStyle.Render(left))

	desc := l.Description
	if desc == "" {
		desc = "No description provided."
	}
	b.WriteString(" " + normalStyle.Render(truncStr(oneLine(desc), 76)) + "\n")

	if len(l.Media) > 0 {
		alt := l.Media[0].Alt
		if alt == "" {
			alt = "image"
		}
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("["+alt+"]"), dimStyle.Render(truncStr(l.Media[0].URL, 60)))
	}

	fmt.Fprintf(&b, "\n %s %s\n\n",
		goldStyle.Render("current bid:"),
		bidStyle.Render(fmt.Sprintf("%d credits", l.HighestBid())))

	b.WriteString(" " + metaStyle.Render("bid history") + "\n")
	bids := l.BidsNewestFirst()
	if len(bids) == 0 {
		b.WriteString(" " + dimStyle.Render("no bids yet") + "\n")
	} else {
		for i, bid := range bids {
			if i >= 10 {
				fmt.Fprintf(&b, " %s\n", dimStyle.Render(fmt.Sprintf("... and %d more", len(bids)-i)))
				break
			}
			fmt.Fprintf(&b, " %s %s %s\n",
				sellerStyle.Render("@"+bid.Bidder.Name),
				bidStyle.Render(fmt.Sprintf("%d cr", bid.Amount)),
				metaStyle.Render(formatTime(bid.Created)))
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg))
	}

	return b.String()
}

// listingLink is the shareable API URL for a listing.
func listingLink(id uuid.UUID) string {
	return "https://v2.api.noroff.dev/auction/listings/" + id.String()
}
