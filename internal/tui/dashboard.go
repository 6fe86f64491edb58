package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ankiiin/auction-house-sp2/internal/session"
	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

type profileLoadedMsg struct {
	profile domain.Profile
	err     error
}

type listingDeletedMsg struct {
	listingID uuid.UUID
	err       error
}

// dashboardModel is the logged-in user's view: profile details plus their
// own listings with create, edit and delete actions.
type dashboardModel struct {
	client *client.Client
	store  *session.Store

	profile    *domain.Profile
	cursor     int
	confirming bool // delete confirmation pending on the selected listing
	err        error
	statusMsg  string
	width      int
	height     int
}

func newDashboardModel(c *client.Client, store *session.Store) dashboardModel {
	return dashboardModel{client: c, store: store}
}

func (m dashboardModel) Init() tea.Cmd {
	user, ok := m.store.CurrentUser()
	if !ok {
		return nil
	}
	c := m.client
	name := user.Name
	return func() tea.Msg {
		profile, err := c.GetProfile(context.Background(), name)
		return profileLoadedMsg{profile: profile, err: err}
	}
}

func (m dashboardModel) deleteSelected() (dashboardModel, tea.Cmd) {
	m.confirming = false
	if m.profile == nil || m.cursor >= len(m.profile.Listings) {
		return m, nil
	}
	id := m.profile.Listings[m.cursor].ID
	c := m.client
	return m, func() tea.Msg {
		err := c.DeleteListing(context.Background(), id)
		return listingDeletedMsg{listingID: id, err: err}
	}
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		profile := msg.profile
		m.profile = &profile
		if m.cursor >= len(profile.Listings) {
			m.cursor = 0
		}
		return m, nil

	case listingDeletedMsg:
		if msg.err != nil {
			log.Warn().Err(msg.err).Stringer("listing", msg.listingID).Msg("delete failed")
			m.statusMsg = "delete failed: " + msg.err.Error()
			return m, nil
		}
		m.statusMsg = "listing deleted"
		return m, m.Init()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m dashboardModel) updateKeys(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	if m.confirming {
		switch msg.String() {
		case "y":
			return m.deleteSelected()
		default:
			m.confirming = false
		}
		return m, nil
	}

	m.statusMsg = ""
	switch msg.String() {
	case "j", "down":
		if m.profile != nil && m.cursor < len(m.profile.Listings)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.profile != nil && m.cursor < len(m.profile.Listings) {
			id := m.profile.Listings[m.cursor].ID
			return m, func() tea.Msg { return showDetailMsg{listingID: id} }
		}
	case "e":
		if m.profile != nil && m.cursor < len(m.profile.Listings) {
			listing := m.profile.Listings[m.cursor]
			return m, func() tea.Msg { return showEditListingMsg{listing: listing} }
		}
	case "d":
		if m.profile != nil && m.cursor < len(m.profile.Listings) {
			m.confirming = true
		}
	case "p":
		return m, func() tea.Msg { return showProfileEditMsg{} }
	case "r":
		return m, m.Init()
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.err != nil {
		return "\n " + errorStyle.Render("error: "+m.err.Error()) + "\n " + dimStyle.Render("r to retry")
	}
	if m.profile == nil {
		return "\n " + dimStyle.Render("loading profile...")
	}

	p := m.profile
	now := time.Now()

	var b strings.Builder
	fmt.Fprintf(&b, " %s  %s\n",
		selectedStyle.Render(p.Name),
		creditsStyle.Render(fmt.Sprintf("%d credits", m.store.Credits())))
	b.WriteString(" " + metaStyle.Render(p.Email) + "\n")
	if p.Bio != "" {
		b.WriteString(" " + normalStyle.Render(truncStr(oneLine(p.Bio), 70)) + "\n")
	}
	if p.Avatar.URL != "" {
		fmt.Fprintf(&b, " %s %s\n", metaStyle.Render("[avatar]"), dimStyle.Render(truncStr(p.Avatar.URL, 60)))
	}

	fmt.Fprintf(&b, "\n %s\n", metaStyle.Render(fmt.Sprintf("your listings (%d)", len(p.Listings))))
	if len(p.Listings) == 0 {
		b.WriteString(" " + dimStyle.Render("no listings yet, press n to create one") + "\n")
	}
	for i, l := range p.Listings {
		cursor := "  "
		titleStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			titleStyle = selectedStyle
		}
		left := timeLeft(l.EndsAt, now)
		leftStyle := metaStyle
		if l.Expired(now) {
			leftStyle = endedStyle
		}
		fmt.Fprintf(&b, "%s%s  %s  %s\n",
			cursor,
			titleStyle.Render(truncStr(l.Title, 40)),
			bidStyle.Render(fmt.Sprintf("%d cr", l.HighestBid())),
			leftStyle.Render(left))
	}

	if m.confirming {
		b.WriteString("\n " + errorStyle.Render("delete this listing? y to confirm, any other key to cancel"))
	} else if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg))
	}

	return b.String()
}
