package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/ankiiin/auction-house-sp2/internal/bidding"
	"github.com/ankiiin/auction-house-sp2/internal/feed"
	"github.com/ankiiin/auction-house-sp2/internal/ledger"
	"github.com/ankiiin/auction-house-sp2/internal/session"
	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

type view int

const (
	viewFeed view = iota
	viewDetail
	viewDashboard
	viewCreate
	viewProfileEdit
)

// showDetailMsg switches to the detail view for one listing.
type showDetailMsg struct {
	listingID uuid.UUID
}

// showBidModalMsg opens the bid overlay on a listing.
type showBidModalMsg struct {
	listingID      uuid.UUID
	currentHighest int
}

// showSearchMsg opens the search overlay.
type showSearchMsg struct{}

// showEditListingMsg opens the listing form prefilled for editing.
type showEditListingMsg struct {
	listing domain.Listing
}

// showProfileEditMsg opens the profile form.
type showProfileEditMsg struct{}

// bidPlacedMsg is broadcast to every view after an accepted bid so cached
// highest-bid figures stay current.
type bidPlacedMsg struct {
	listingID  uuid.UUID
	newHighest int
	newBalance int
}

// creditsRefreshedMsg carries the remote credit balance.
type creditsRefreshedMsg struct {
	balance int
	err     error
}

// App is the root Bubbletea model.
type App struct {
	client *client.Client
	store  *session.Store
	ledger *ledger.Ledger

	view        view
	feed        feedModel
	detail      detailModel
	dashboard   dashboardModel
	create      listingFormModel
	profileEdit profileFormModel

	bid        bidModal
	bidOpen    bool
	search     searchModel
	searchOpen bool

	credits int
	width   int
	height  int
	frame   int // logo shimmer animation frame
}

// NewApp creates the TUI application. The feed controller is built by the
// caller so page size and viewer identity come from configuration.
func NewApp(c *client.Client, store *session.Store, led *ledger.Ledger, ctrl *feed.Controller, scrollThreshold int) App {
	return App{
		client:    c,
		store:     store,
		ledger:    led,
		feed:      newFeedModel(ctrl, scrollThreshold),
		dashboard: newDashboardModel(c, store),
		credits:   store.Credits(),
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.feed.Init(), shimmerTickCmd(), a.refreshCredits())
}

// refreshCredits reconciles the cached balance against the server.
func (a App) refreshCredits() tea.Cmd {
	led := a.ledger
	return func() tea.Msg {
		balance, err := led.Refresh(context.Background())
		return creditsRefreshedMsg{balance: balance, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.feed, _ = a.feed.Update(bodyMsg)
		a.detail, _ = a.detail.Update(bodyMsg)
		a.dashboard, _ = a.dashboard.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case creditsRefreshedMsg:
		if msg.err == nil {
			a.credits = msg.balance
		}
		return a, nil

	case showDetailMsg:
		a.view = viewDetail
		a.detail = newDetailModel(a.client)
		return a, a.detail.load(msg.listingID)

	case showBidModalMsg:
		if !a.store.LoggedIn() {
			return a, nil
		}
		a.bidOpen = true
		a.bid = newBidModal(bidding.New(a.client, a.ledger), msg.listingID, msg.currentHighest)
		return a, nil

	case showSearchMsg:
		a.searchOpen = true
		a.search = newSearchModel(a.client)
		return a, nil

	case showEditListingMsg:
		a.view = viewCreate
		a.create = newListingEditModel(a.client, msg.listing)
		return a, nil

	case showProfileEditMsg:
		a.view = viewProfileEdit
		a.profileEdit = newProfileFormModel(a.client, a.store)
		return a, nil

	case bidPlacedMsg:
		a.credits = msg.newBalance
		a.feed, _ = a.feed.Update(msg)
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if a.bidOpen {
			return a.routeBid(msg)
		}
		if a.searchOpen {
			return a.routeSearch(msg)
		}
		if !a.isEditing() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				if a.view != viewFeed {
					a.view = viewFeed
					return a, a.feed.Init()
				}
				return a, nil
			case "2":
				if a.view != viewDashboard && a.store.LoggedIn() {
					a.view = viewDashboard
					return a, a.dashboard.Init()
				}
				return a, nil
			case "n":
				if a.view != viewCreate && a.store.LoggedIn() {
					a.view = viewCreate
					a.create = newListingFormModel(a.client)
				}
				return a, nil
			case "esc":
				return a.back(), nil
			}
		} else if msg.String() == "esc" {
			return a.back(), nil
		}
	}

	if a.bidOpen {
		return a.routeBid(msg)
	}
	if a.searchOpen {
		return a.routeSearch(msg)
	}
	return a.routeView(msg)
}

// routeBid forwards a message to the bid overlay and handles its closing.
func (a App) routeBid(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.bid, cmd = a.bid.Update(msg)
	if !a.bid.closed {
		return a, cmd
	}
	a.bidOpen = false
	if placed := a.bid.placed; placed != nil {
		a.store.MarkBid(placed.listingID, placed.result.NewHighest)
		notify := func() tea.Msg {
			return bidPlacedMsg{
				listingID:  placed.listingID,
				newHighest: placed.result.NewHighest,
				newBalance: placed.result.NewBalance,
			}
		}
		return a, tea.Batch(cmd, notify, a.refreshCredits())
	}
	return a, cmd
}

// routeSearch forwards a message to the search overlay and handles selection.
func (a App) routeSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if !a.search.closed {
		return a, cmd
	}
	a.searchOpen = false
	if a.search.selected != nil {
		id := a.search.selected.ID
		return a, tea.Batch(cmd, func() tea.Msg { return showDetailMsg{listingID: id} })
	}
	return a, cmd
}

func (a App) routeView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.view {
	case viewFeed:
		a.feed, cmd = a.feed.Update(msg)
	case viewDetail:
		a.detail, cmd = a.detail.Update(msg)
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.Update(msg)
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
		if a.create.saved {
			a.view = viewDashboard
			return a, a.dashboard.Init()
		}
	case viewProfileEdit:
		a.profileEdit, cmd = a.profileEdit.Update(msg)
		if a.profileEdit.saved {
			a.view = viewDashboard
			return a, a.dashboard.Init()
		}
	}
	return a, cmd
}

// back returns from the current view to its parent.
func (a App) back() App {
	switch a.view {
	case viewDetail, viewDashboard:
		a.view = viewFeed
	case viewCreate, viewProfileEdit:
		if a.store.LoggedIn() {
			a.view = viewDashboard
		} else {
			a.view = viewFeed
		}
	}
	return a
}

func (a App) isEditing() bool {
	return a.view == viewCreate || a.view == viewProfileEdit
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)

	statusLine := ""
	if user, ok := a.store.CurrentUser(); ok {
		statusLine = metaStyle.Render("@"+user.Name) + " " + creditsStyle.Render(fmt.Sprintf("%d credits", a.credits))
	} else {
		statusLine = dimStyle.Render("browsing as guest")
	}

	header := centerLine(logo, a.width) + "\n" + centerLine(statusLine, a.width)

	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Feed", viewFeed},
		{"2", "You", viewDashboard},
	}
	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		active := t.v == a.view || (t.v == viewFeed && a.view == viewDetail)
		if active {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	var body string
	var help string
	switch a.view {
	case viewFeed:
		body = a.feed.View()
		help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("b", "bid") + "  " + helpEntry("/", "search") + "  " + helpEntry("n", "new") + "  " + helpEntry("q", "quit")
	case viewDetail:
		body = a.detail.View()
		help = " " + helpEntry("b", "bid") + "  " + helpEntry("c", "copy link") + "  " + helpEntry("o", "open image") + "  " + helpEntry("esc", "back")
	case viewDashboard:
		body = a.dashboard.View()
		help = " " + helpEntry("n", "new") + "  " + helpEntry("e", "edit") + "  " + helpEntry("d", "delete") + "  " + helpEntry("p", "profile") + "  " + helpEntry("esc", "back")
	case viewCreate:
		body = a.create.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
	case viewProfileEdit:
		body = a.profileEdit.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+s", "save") + "  " + helpEntry("esc", "cancel")
	}

	if a.bidOpen {
		body = a.bid.View()
		help = " " + helpEntry("enter", "submit") + "  " + helpEntry("esc", "cancel")
	}
	if a.searchOpen {
		body = a.search.View()
		help = " " + helpEntry("enter", "search/open") + "  " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}

// centerLine pads a rendered line to center it within width.
func centerLine(s string, width int) string {
	pad := (width - lipgloss.Width(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}
