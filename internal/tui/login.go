package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emaquis/maquis/pkg/client"
)

type loginField int

const (
	loginUsername loginField = iota
	loginPassword
	loginCountry
	numLoginFields
)

var loginLabels = [numLoginFields]string{
	"Nom d'utilisateur",
	"Mot de passe",
	"Pays",
}

type loginModel struct {
	client *client.Client

	fields     [numLoginFields]string
	focus      loginField
	submitting bool
	errMsg     string
}

// loginDoneMsg carries the auth endpoint result. An empty token with a
// nil error means the remote rejected the credentials.
type loginDoneMsg struct {
	res *client.LoginResult
	err error
}

func newLoginModel(c *client.Client) loginModel {
	return loginModel{client: c}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		switch {
		case msg.err != nil:
			m.errMsg = "erreur de connexion"
		case msg.res == nil || msg.res.Token == "":
			m.errMsg = "identifiants invalides"
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m loginModel) updateKeys(msg tea.KeyMsg) (loginModel, tea.Cmd) {
	m.errMsg = ""
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numLoginFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numLoginFields) % numLoginFields
	case "enter":
		if m.focus == numLoginFields-1 {
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

func (m loginModel) submit() (loginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	creds := client.Credentials{
		Username: strings.TrimSpace(m.fields[loginUsername]),
		Password: m.fields[loginPassword],
		Country:  strings.TrimSpace(m.fields[loginCountry]),
	}
	if creds.Username == "" || creds.Password == "" {
		m.errMsg = "nom d'utilisateur et mot de passe requis"
		return m, nil
	}
	m.submitting = true
	c := m.client
	return m, func() tea.Msg {
		res, err := c.LoginGestionnaire(context.Background(), creds)
		return loginDoneMsg{res: res, err: err}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString(" " + accentStyle.Render("CONNEXION GESTIONNAIRE") + "\n\n")

	for f := loginField(0); f < numLoginFields; f++ {
		label := loginLabels[f]
		value := m.fields[f]
		if f == loginPassword {
			value = strings.Repeat("*", len([]rune(value)))
		}
		if f == m.focus {
			b.WriteString(" " + focusedLabelStyle.Render("> "+label) + "\n")
			b.WriteString("   " + normalStyle.Render(value) + accentStyle.Render("█") + "\n")
		} else {
			b.WriteString(" " + labelStyle.Render("  "+label) + "\n")
			if value == "" {
				b.WriteString("   " + inputPlaceholderStyle.Render("...") + "\n")
			} else {
				b.WriteString("   " + dimStyle.Render(value) + "\n")
			}
		}
	}

	if m.submitting {
		b.WriteString("\n " + dimStyle.Render("connexion..."))
	}
	if m.errMsg != "" {
		b.WriteString("\n " + errStyle.Render(m.errMsg))
	}
	b.WriteString("\n\n " + dimStyle.Render("pas de compte ?") + " " + helpEntry("ctrl+r", "s'inscrire"))
	return b.String()
}
