package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emaquis/maquis/pkg/client"
)

type registerField int

const (
	regNom registerField = iota
	regPrenom
	regEmail
	regTelephone
	regPassword
	regCountry
	numRegisterFields
)

var registerLabels = [numRegisterFields]string{
	"Nom",
	"Prénom",
	"Email",
	"Téléphone",
	"Mot de passe",
	"Pays",
}

// registerJSONFields maps the API's field names (as returned in a
// structured rejection) back onto form fields.
var registerJSONFields = [numRegisterFields]string{
	"nom", "prenom", "email", "telephone", "password", "country",
}

type registerModel struct {
	client *client.Client

	fields     [numRegisterFields]string
	focus      registerField
	submitting bool

	// A rejection is a value, not an error: message plus the field the
	// server blamed, so the form can point at it.
	failMsg   string
	failField string
	success   bool
}

type registerDoneMsg struct {
	res client.RegisterResult
}

func newRegisterModel(c *client.Client) registerModel {
	return registerModel{client: c}
}

func (m registerModel) Init() tea.Cmd {
	return nil
}

func (m registerModel) Update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.submitting = false
		if msg.res.OK {
			m.success = true
			m.failMsg = ""
			m.failField = ""
			return m, nil
		}
		m.failMsg = msg.res.Err.Message
		m.failField = msg.res.Err.Field
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m registerModel) updateKeys(msg tea.KeyMsg) (registerModel, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numRegisterFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numRegisterFields) % numRegisterFields
	case "enter":
		if m.focus == numRegisterFields-1 {
			return m.submit()
		}
		m.focus++
	case "ctrl+s":
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m registerModel) submit() (registerModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.submitting = true
	m.failMsg = ""
	m.failField = ""
	m.success = false

	payload := client.Signup{
		Nom:       strings.TrimSpace(m.fields[regNom]),
		Prenom:    strings.TrimSpace(m.fields[regPrenom]),
		Email:     strings.TrimSpace(m.fields[regEmail]),
		Telephone: strings.TrimSpace(m.fields[regTelephone]),
		Password:  m.fields[regPassword],
		Country:   strings.TrimSpace(m.fields[regCountry]),
	}
	c := m.client
	return m, func() tea.Msg {
		return registerDoneMsg{res: c.Register(context.Background(), payload)}
	}
}

func (m registerModel) View() string {
	var b strings.Builder
	b.WriteString(" " + accentStyle.Render("INSCRIPTION GESTIONNAIRE") + "\n\n")

	for f := registerField(0); f < numRegisterFields; f++ {
		label := registerLabels[f]
		value := m.fields[f]
		if f == regPassword {
			value = strings.Repeat("*", len([]rune(value)))
		}
		blamed := m.failField != "" && m.failField == registerJSONFields[f]
		switch {
		case f == m.focus:
			b.WriteString(" " + focusedLabelStyle.Render("> "+label) + "\n")
			b.WriteString("   " + normalStyle.Render(value) + accentStyle.Render("█") + "\n")
		case blamed:
			b.WriteString(" " + errStyle.Render("  "+label) + "\n")
			b.WriteString("   " + errStyle.Render(value) + "\n")
		default:
			b.WriteString(" " + labelStyle.Render("  "+label) + "\n")
			if value == "" {
				b.WriteString("   " + inputPlaceholderStyle.Render("...") + "\n")
			} else {
				b.WriteString("   " + dimStyle.Render(value) + "\n")
			}
		}
	}

	if m.submitting {
		b.WriteString("\n " + dimStyle.Render("création du compte..."))
	}
	if m.failMsg != "" {
		b.WriteString("\n " + errStyle.Render(m.failMsg))
	}
	if m.success {
		b.WriteString("\n " + okStyle.Render("compte créé avec succès !") + " " + dimStyle.Render("esc pour se connecter"))
	}
	return b.String()
}
