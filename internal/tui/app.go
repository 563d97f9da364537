package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/emaquis/maquis/internal/session"
	"github.com/emaquis/maquis/pkg/client"
)

type view int

const (
	viewLogin view = iota
	viewRegister
	viewStock
	viewForm
	viewProfile
)

// SessionChangedMsg is forwarded into the program whenever the session
// transitions, including transitions triggered outside the TUI loop.
type SessionChangedMsg struct {
	State session.State
}

// App is the root Bubbletea model.
type App struct {
	client  *client.Client
	session *session.Session
	version string

	view     view
	login    loginModel
	register registerModel
	stock    stockModel
	form     formModel
	profile  profileModel

	authenticated bool
	userName      string
	width         int
	height        int
	frame         int // logo shimmer animation frame
}

// NewApp creates a new TUI application.
func NewApp(c *client.Client, sess *session.Session, version string) App {
	a := App{
		client:   c,
		session:  sess,
		version:  version,
		login:    newLoginModel(c),
		register: newRegisterModel(c),
		stock:    newStockModel(c),
		form:     newFormModel(c),
		profile:  newProfileModel(c),
	}
	a.applyState(sess.Snapshot())
	if a.authenticated {
		a.view = viewStock
	}
	return a
}

func (a *App) applyState(st session.State) {
	a.authenticated = st.Authenticated
	if st.User != nil {
		a.userName = st.User.DisplayName()
	} else {
		a.userName = ""
	}
}

func (a App) Init() tea.Cmd {
	if a.authenticated {
		return tea.Batch(shimmerTickCmd(), a.stock.Init())
	}
	return shimmerTickCmd()
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.stock, _ = a.stock.Update(bodyMsg)
		a.form, _ = a.form.Update(bodyMsg)
		a.profile, _ = a.profile.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case SessionChangedMsg:
		wasAuthenticated := a.authenticated
		a.applyState(msg.State)
		if wasAuthenticated && !a.authenticated {
			a.view = viewLogin
			a.login = newLoginModel(a.client)
			a.login.errMsg = "session expirée, reconnectez-vous"
		}
		return a, nil

	case loginDoneMsg:
		if msg.err == nil && msg.res != nil && msg.res.Token != "" {
			a.session.Login(&msg.res.User, msg.res.Token)
			a.applyState(a.session.Snapshot())
			a.view = viewStock
			a.stock = newStockModel(a.client)
			a.profile = newProfileModel(a.client)
			return a, a.stock.Init()
		}
		var cmd tea.Cmd
		a.login, cmd = a.login.Update(msg)
		return a, cmd

	case editProductMsg:
		a.form = newFormModel(a.client)
		a.form.prefill(msg.product)
		a.view = viewForm
		return a, nil

	case productSavedMsg:
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		if msg.err == nil {
			return a, tea.Batch(cmd, a.stock.loadProducts())
		}
		return a, cmd

	case tea.KeyMsg:
		if !a.authenticated {
			switch msg.String() {
			case "ctrl+c":
				return a, tea.Quit
			case "ctrl+r":
				if a.view == viewRegister {
					a.view = viewLogin
				} else {
					a.view = viewRegister
					a.register = newRegisterModel(a.client)
				}
				return a, nil
			case "esc":
				if a.view == viewRegister {
					a.view = viewLogin
					return a, nil
				}
			}
			break
		}

		if !a.isEditing() {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				if a.view != viewStock {
					a.view = viewStock
					return a, a.stock.Init()
				}
				return a, nil
			case "2":
				if a.view != viewForm {
					a.view = viewForm
					a.form = newFormModel(a.client)
					return a, nil
				}
				return a, nil
			case "3":
				if a.view != viewProfile {
					a.view = viewProfile
					return a, a.profile.Init()
				}
				return a, nil
			case "ctrl+d":
				a.session.Logout()
				a.applyState(a.session.Snapshot())
				a.view = viewLogin
				a.login = newLoginModel(a.client)
				return a, nil
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		} else if msg.String() == "esc" && a.view == viewForm {
			a.view = viewStock
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewLogin:
		a.login, cmd = a.login.Update(msg)
	case viewRegister:
		a.register, cmd = a.register.Update(msg)
	case viewStock:
		a.stock, cmd = a.stock.Update(msg)
	case viewForm:
		a.form, cmd = a.form.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

func (a App) isEditing() bool {
	switch a.view {
	case viewForm:
		return true
	case viewStock:
		return a.stock.searching
	case viewProfile:
		return a.profile.editing
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	// Identity line below logo
	metaLine := ""
	if a.authenticated {
		parts := []string{}
		if a.userName != "" {
			parts = append(parts, a.userName)
		}
		parts = append(parts, "connecté")
		metaLine = metaStyle.Render(strings.Join(parts, " . "))
	} else {
		metaLine = metaStyle.Render("eMaquis " + a.version)
	}
	metaWidth := lipgloss.Width(metaLine)
	metaPad := (a.width - metaWidth) / 2
	if metaPad < 0 {
		metaPad = 0
	}
	header += "\n" + strings.Repeat(" ", metaPad) + metaLine

	var tabBar string
	var body string
	var help string

	if !a.authenticated {
		tabBar = ""
		switch a.view {
		case viewRegister:
			body = a.register.View()
			help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("ctrl+s", "créer le compte") + "  " + helpEntry("esc", "connexion")
		default:
			body = a.login.View()
			help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("enter", "se connecter") + "  " + helpEntry("ctrl+r", "s'inscrire") + "  " + helpEntry("ctrl+c", "quitter")
		}
		chrome := 4
		body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")
		return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
	}

	// Tab bar: 1 Stock  2 Ajouter  3 Profil
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Stock", viewStock},
		{"2", "Ajouter", viewForm},
		{"3", "Profil", viewProfile},
	}
	colWidth := a.width / len(tabs)
	var tb strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == a.view {
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
		tb.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	tabBar = tb.String()

	switch a.view {
	case viewStock:
		body = a.stock.View()
		if a.stock.detail {
			help = " " + helpEntry("1-3", "onglets") + "  " + helpEntry("e", "modifier") + "  " + helpEntry("c", "copier id") + "  " + helpEntry("esc", "retour")
		} else if a.stock.searching {
			help = " " + helpEntry("enter", "valider") + "  " + helpEntry("esc", "annuler")
		} else {
			help = " " + helpEntry("1-3", "onglets") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "rechercher") + "  " + helpEntry("t", "catégorie") + "  " + helpEntry("d", "supprimer") + "  " + helpEntry("ctrl+d", "déconnexion") + "  " + helpEntry("q", "quitter")
		}
	case viewForm:
		body = a.form.View()
		help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("ctrl+s", "enregistrer") + "  " + helpEntry("esc", "annuler")
	case viewProfile:
		body = a.profile.View()
		if a.profile.editing {
			help = " " + helpEntry("tab", "champ suivant") + "  " + helpEntry("ctrl+s", "enregistrer") + "  " + helpEntry("esc", "annuler")
		} else {
			help = " " + helpEntry("1-3", "onglets") + "  " + helpEntry("e", "modifier") + "  " + helpEntry("r", "recharger") + "  " + helpEntry("ctrl+d", "déconnexion") + "  " + helpEntry("q", "quitter")
		}
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}
