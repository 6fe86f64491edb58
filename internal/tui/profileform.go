package tui

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ankiiin/auction-house-sp2/internal/session"
	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
)

type profileField int

const (
	fieldAvatar profileField = iota
	fieldBanner
	fieldBio
	numProfileFields

	maxBioLen = 160
)

type profileSavedMsg struct {
	profile domain.Profile
	err     error
}

// profileFormModel edits the logged-in user's avatar, banner and bio.
type profileFormModel struct {
	client *client.Client
	store  *session.Store

	fields    [numProfileFields]string
	focus     profileField
	statusMsg string
	submitted bool
	saved     bool
}

func newProfileFormModel(c *client.Client, store *session.Store) profileFormModel {
	m := profileFormModel{client: c, store: store}
	if user, ok := store.CurrentUser(); ok {
		m.fields[fieldAvatar] = user.Avatar.URL
		m.fields[fieldBanner] = user.Banner.URL
		m.fields[fieldBio] = user.Bio
	}
	return m
}

func (m profileFormModel) Update(msg tea.Msg) (profileFormModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileSavedMsg:
		m.submitted = false
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			return m, nil
		}
		m.store.UpdateProfile(msg.profile)
		m.saved = true
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m profileFormModel) updateKeys(msg tea.KeyMsg) (profileFormModel, tea.Cmd) {
	if m.submitted {
		return m, nil
	}
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % numProfileFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numProfileFields) % numProfileFields
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	default:
		if len(msg.Runes) == 1 {
			m.fields[m.focus] = editRune(m.fields[m.focus], msg.String())
		}
	}
	return m, nil
}

func (m profileFormModel) submit() (profileFormModel, tea.Cmd) {
	user, ok := m.store.CurrentUser()
	if !ok {
		m.statusMsg = "not logged in"
		return m, nil
	}

	var req client.UpdateProfileRequest
	for _, f := range []struct {
		field profileField
		dst   *domain.Media
		label string
	}{
		{fieldAvatar, &req.Avatar, "avatar"},
		{fieldBanner, &req.Banner, "banner"},
	} {
		raw := strings.TrimSpace(m.fields[f.field])
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "https" && u.Scheme != "http" || u.Host == "" {
			m.statusMsg = f.label + " must be a valid http(s) URL"
			return m, nil
		}
		*f.dst = domain.Media{URL: raw, Alt: user.Name + " " + f.label}
	}

	bio := strings.TrimSpace(m.fields[fieldBio])
	if len([]rune(bio)) > maxBioLen {
		m.statusMsg = fmt.Sprintf("bio must be %d characters or fewer", maxBioLen)
		return m, nil
	}
	req.Bio = bio

	m.submitted = true
	c := m.client
	name := user.Name
	return m, func() tea.Msg {
		profile, err := c.UpdateProfile(context.Background(), name, req)
		return profileSavedMsg{profile: profile, err: err}
	}
}

func (m profileFormModel) View() string {
	var b strings.Builder
	b.WriteString(" " + accentStyle.Render("edit profile") + "\n\n")

	labels := [numProfileFields]string{"avatar url", "banner url", "bio"}
	for i := profileField(0); i < numProfileFields; i++ {
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
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, style.Render(labels[i]), value)
	}

	b.WriteString("\n")
	if m.submitted {
		b.WriteString(" " + dimStyle.Render("saving..."))
	} else if m.statusMsg != "" {
		b.WriteString(" " + errorStyle.Render(m.statusMsg))
	}

	return b.String()
}
