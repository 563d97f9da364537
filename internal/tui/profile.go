package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emaquis/maquis/pkg/client"
	"github.com/emaquis/maquis/pkg/domain"
)

type profileField int

const (
	profName profileField = iota
	profEmail
	profTelephone
	profCountry
	numProfileFields
)

var profileLabels = [numProfileFields]string{
	"Nom",
	"Email",
	"Téléphone",
	"Pays",
}

type profileModel struct {
	client *client.Client

	profile *domain.User
	fields  [numProfileFields]string
	focus   profileField
	editing bool

	loading   bool
	saving    bool
	err       error
	statusMsg string
}

type profileLoadedMsg struct {
	profile *domain.User
	err     error
}

type profileSavedMsg struct {
	profile *domain.User
	err     error
}

func newProfileModel(c *client.Client) profileModel {
	return profileModel{client: c, loading: true}
}

func (m profileModel) Init() tea.Cmd {
	return m.loadProfile()
}

func (m profileModel) loadProfile() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		p, err := c.GetProfile(context.Background())
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (m *profileModel) fill(p *domain.User) {
	m.profile = p
	m.fields[profName] = p.DisplayName()
	m.fields[profEmail] = p.Email
	m.fields[profTelephone] = p.Telephone
	m.fields[profCountry] = p.Country
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil && msg.profile != nil {
			m.fill(msg.profile)
		}
		return m, nil

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.statusMsg = ""
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.editing = false
		m.statusMsg = "profil mis à jour !"
		if msg.profile != nil {
			m.fill(msg.profile)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m profileModel) updateKeys(msg tea.KeyMsg) (profileModel, tea.Cmd) {
	m.statusMsg = ""
	if !m.editing {
		switch msg.String() {
		case "e":
			if m.profile != nil {
				m.editing = true
				m.focus = profName
			}
		case "r":
			m.loading = true
			return m, m.loadProfile()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		m.editing = false
		if m.profile != nil {
			m.fill(m.profile) // discard unsaved edits
		}
	case "tab", "down", "enter":
		m.focus = (m.focus + 1) % numProfileFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numProfileFields) % numProfileFields
	case "ctrl+s":
		return m.save()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m profileModel) save() (profileModel, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.saving = true
	update := client.ProfileUpdate{
		Name:      strings.TrimSpace(m.fields[profName]),
		Email:     strings.TrimSpace(m.fields[profEmail]),
		Telephone: strings.TrimSpace(m.fields[profTelephone]),
		Country:   strings.TrimSpace(m.fields[profCountry]),
	}
	c := m.client
	return m, func() tea.Msg {
		p, err := c.UpdateProfile(context.Background(), update)
		return profileSavedMsg{profile: p, err: err}
	}
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString(" " + accentStyle.Render("PROFIL GESTIONNAIRE") + "\n\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("chargement du profil..."))
		return b.String()
	case m.err != nil:
		b.WriteString(" " + errStyle.Render("erreur: "+truncStr(m.err.Error(), 70)))
		return b.String()
	case m.profile == nil:
		b.WriteString(" " + dimStyle.Render("profil indisponible"))
		return b.String()
	}

	for f := profileField(0); f < numProfileFields; f++ {
		label := profileLabels[f]
		value := m.fields[f]
		if m.editing && f == m.focus {
			b.WriteString(" " + focusedLabelStyle.Render("> "+label) + "\n")
			b.WriteString("   " + normalStyle.Render(value) + accentStyle.Render("█") + "\n")
			continue
		}
		b.WriteString(" " + labelStyle.Render("  "+label) + "\n")
		if value == "" {
			b.WriteString("   " + inputPlaceholderStyle.Render("-") + "\n")
		} else {
			b.WriteString("   " + normalStyle.Render(value) + "\n")
		}
	}

	if m.saving {
		b.WriteString("\n " + dimStyle.Render("enregistrement..."))
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg))
	}
	return b.String()
}
