package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

type listingField int

const (
	fieldTitle listingField = iota
	fieldDescription
	fieldMediaURL
	fieldEndsAt
	numListingFields

	maxDescriptionLen = 280
	endsAtLayout      = "2006-01-02 15:04"
)

type listingSavedMsg struct {
	listing domain.Listing
	created bool
	err     error
}

// listingFormModel is the create/edit form for a listing. In edit mode the
// deadline field is locked, matching the remote API which rejects endsAt
// changes after creation.
type listingFormModel struct {
	client *client.Client

	editing   bool
	listingID uuid.UUID
	fields    [numListingFields]string
	focus     listingField
	statusMsg string
	submitted bool
	saved     bool
}

func newListingFormModel(c *client.Client) listingFormModel {
	m := listingFormModel{client: c}
	m.fields[fieldEndsAt] = time.Now().Add(72 * time.Hour).Format(endsAtLayout)
	return m
}

// newListingEditModel prefills the form from an existing listing.
func newListingEditModel(c *client.Client, l domain.Listing) listingFormModel {
	m := listingFormModel{client: c, editing: true, listingID: l.ID}
	m.fields[fieldTitle] = l.Title
	m.fields[fieldDescription] = l.Description
	if len(l.Media) > 0 {
		m.fields[fieldMediaURL] = l.Media[0].URL
	}
	m.fields[fieldEndsAt] = l.EndsAt.Format(endsAtLayout)
	return m
}

func (m listingFormModel) Update(msg tea.Msg) (listingFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case listingSavedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			return m, nil
		}
		m.saved = true
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m listingFormModel) updateKeys(msg tea.KeyMsg) (listingFormModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = m.nextField(1)
	case "shift+tab", "up":
		m.focus = m.nextField(-1)
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	case "enter":
		m.focus = m.nextField(1)
	default:
		key := msg.String()
		if len(msg.Runes) == 1 {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		} else if key == " " {
			m.fields[m.focus] += " "
		}
	}
	return m, nil
}

// nextField advances focus, skipping the locked deadline field in edit mode.
func (m listingFormModel) nextField(step listingField) listingField {
	f := m.focus
	for {
		f = (f + step + numListingFields) % numListingFields
		if m.editing && f == fieldEndsAt {
			continue
		}
		return f
	}
}

func (m listingFormModel) validate() (client.CreateListingRequest, string) {
	var req client.CreateListingRequest

	title := strings.TrimSpace(m.fields[fieldTitle])
	if title == "" {
		return req, "title is required"
	}
	desc := strings.TrimSpace(m.fields[fieldDescription])
	if len([]rune(desc)) > maxDescriptionLen {
		return req, fmt.Sprintf("description must be %d characters or fewer", maxDescriptionLen)
	}

	var media []domain.Media
	if raw := strings.TrimSpace(m.fields[fieldMediaURL]); raw != "" {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
			return req, "image must be a valid http(s) URL"
		}
		media = append(media, domain.Media{URL: raw, Alt: title})
	}

	endsAt, err := time.ParseInLocation(endsAtLayout, strings.TrimSpace(m.fields[fieldEndsAt]), time.Local)
	if err != nil {
		return req, "deadline must look like " + endsAtLayout
	}
	if !m.editing {
		now := time.Now()
		if !endsAt.After(now) {
			return req, "deadline must be in the future"
		}
		if endsAt.After(now.AddDate(1, 0, 0)) {
			return req, "deadline must be within one year"
		}
	}

	req = client.CreateListingRequest{
		Title:       title,
		Description: desc,
		Media:       media,
		EndsAt:      endsAt,
	}
	return req, ""
}

func (m listingFormModel) submit() (listingFormModel, tea.Cmd) {
	req, problem := m.validate()
	if problem != "" {
		m.statusMsg = problem
		return m, nil
	}

	m.submitted = true
	c := m.client
	if m.editing {
		id := m.listingID
		update := client.UpdateListingRequest{
			Title:       req.Title,
			Description: req.Description,
			Media:       req.Media,
		}
		return m, func() tea.Msg {
			listing, err := c.UpdateListing(context.Background(), id, update)
			return listingSavedMsg{listing: listing, err: err}
		}
	}
	return m, func() tea.Msg {
		listing, err := c.CreateListing(context.Background(), req)
		return listingSavedMsg{listing: listing, created: true, err: err}
	}
}

func (m listingFormModel) View() string {
	var b strings.Builder

	heading := "new listing"
	if m.editing {
		heading = "edit listing"
	}
	b.WriteString(" " + accentStyle.Render(heading) + "\n\n")

	labels := [numListingFields]string{"title", "description", "image url", "ends at"}
	for i := listingField(0); i < numListingFields; i++ {
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		value := m.fields[i]
		if i == m.focus {
			value += "█"
		}
		if m.editing && i == fieldEndsAt {
			fmt.Fprintf(&b, " %s %s: %s %s\n", cursor, style.Render(labels[i]), m.fields[i], dimStyle.Render("(locked)"))
			continue
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(labels[i]), value)
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render("saving..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	} else {
		b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%d/%d description characters", len([]rune(m.fields[fieldDescription])), maxDescriptionLen)))
	}

	return b.String()
}
