package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ankiiin/auction-house-sp2/internal/bidding"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

type bidResultMsg struct {
	listingID uuid.UUID
	result    bidding.Result
	err       error
}

// bidModal is the overlay for placing a bid on a listing. It owns a bidding
// workflow for the duration of the overlay; once a bid is accepted the modal
// marks itself closed and the root model reads the result off it.
type bidModal struct {
	workflow *bidding.Workflow

	input      string
	errMsg     string
	submitting bool
	closed     bool
	placed     *bidResultMsg
}

func newBidModal(wf *bidding.Workflow, listingID uuid.UUID, currentHighest int) bidModal {
	wf.Open(listingID, currentHighest)
	return bidModal{workflow: wf}
}

func (m bidModal) submit() (bidModal, tea.Cmd) {
	amount, err := strconv.Atoi(strings.TrimSpace(m.input))
	if err != nil {
		m.errMsg = "enter a whole number of credits"
		return m, nil
	}
	m.submitting = true
	m.errMsg = ""
	wf := m.workflow
	return m, func() tea.Msg {
		result, err := wf.Submit(context.Background(), amount)
		return bidResultMsg{listingID: wf.ListingID(), result: result, err: err}
	}
}

func (m bidModal) Update(msg tea.Msg) (bidModal, tea.Cmd) {
	switch msg := msg.(type) {
	case bidResultMsg:
		m.submitting = false
		if msg.err != nil {
			var verr *domain.ValidationError
			if errors.As(msg.err, &verr) {
				m.errMsg = verr.Reason
			} else {
				log.Warn().Err(msg.err).Stringer("listing", msg.listingID).Msg("bid failed")
				m.errMsg = msg.err.Error()
			}
			return m, nil
		}
		m.placed = &msg
		m.closed = true
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			m.workflow.Close()
			m.closed = true
			return m, nil
		case "enter":
			return m.submit()
		default:
			if msg.Type == tea.KeyBackspace {
				m.input = editRune(m.input, "backspace")
				return m, nil
			}
			if len(msg.Runes) == 1 && msg.Runes[0] >= '0' && msg.Runes[0] <= '9' && len(m.input) < 9 {
				m.input += string(msg.Runes)
			}
			return m, nil
		}
	}
	return m, nil
}

func (m bidModal) View() string {
	var b strings.Builder
	fmt.Fprintf(&b, " %s\n\n", accentStyle.Render("place a bid"))
	fmt.Fprintf(&b, " current highest: %s\n\n",
		bidStyle.Render(fmt.Sprintf("%d credits", m.workflow.CurrentHighest())))

	input := m.input
	if input == "" {
		input = inputPlaceholderStyle.Render("amount")
	}
	fmt.Fprintf(&b, " your bid: %s\n", input)

	switch {
	case m.submitting:
		b.WriteString("\n " + dimStyle.Render("placing bid..."))
	case m.errMsg != "":
		b.WriteString("\n " + errorStyle.Render(m.errMsg))
	}

	b.WriteString("\n\n " + helpEntry("enter", "submit") + "  " + helpEntry("esc", "cancel"))
	return b.String()
}
