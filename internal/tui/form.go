package tui

import (
	"context"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emaquis/maquis/pkg/client"
	"github.com/emaquis/maquis/pkg/domain"
)

type formField int

const (
	fieldName formField = iota
	fieldQuantity
	fieldPrice
	fieldCategorie
	fieldSession
	numFormFields
)

var formLabels = [numFormFields]string{
	"Nom du produit",
	"Quantité",
	"Prix (FCFA)",
	"Catégorie",
	"Session (ObjectId)",
}

type formModel struct {
	client *client.Client

	fields    [numFormFields]string
	focus     formField
	editingID string // non-empty when editing an existing product

	submitting bool
	err        string
	statusMsg  string
}

// productSavedMsg reports the outcome of a create or update.
type productSavedMsg struct {
	product *domain.Product
	updated bool
	err     error
}

func newFormModel(c *client.Client) formModel {
	return formModel{client: c}
}

// prefill loads an existing product into the form for editing.
func (m *formModel) prefill(p domain.Product) {
	m.editingID = p.ObjectID()
	m.fields[fieldName] = p.Name
	if n, ok := p.Count(); ok {
		m.fields[fieldQuantity] = strconv.Itoa(n)
	} else {
		m.fields[fieldQuantity] = ""
	}
	if p.Price > 0 {
		m.fields[fieldPrice] = strconv.FormatFloat(p.Price, 'f', -1, 64)
	} else {
		m.fields[fieldPrice] = ""
	}
	m.fields[fieldCategorie] = p.Categorie.Name
	m.fields[fieldSession] = p.Session
	m.focus = fieldName
	m.err = ""
	m.statusMsg = ""
}

// reset clears the form back to create mode.
func (m *formModel) reset() {
	*m = formModel{client: m.client}
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productSavedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = truncStr(msg.err.Error(), 70)
			return m, nil
		}
		session := m.fields[fieldSession]
		m.reset()
		// The sale session rarely changes between entries.
		m.fields[fieldSession] = session
		if msg.updated {
			m.statusMsg = "produit modifié avec succès"
		} else {
			m.statusMsg = "produit ajouté avec succès"
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m formModel) updateKeys(msg tea.KeyMsg) (formModel, tea.Cmd) {
	m.statusMsg = ""

	switch msg.String() {
	case "ctrl+s":
		return m.submit()
	case "tab", "down":
		m.focus = (m.focus + 1) % numFormFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numFormFields) % numFormFields
	case "enter":
		if m.focus == numFormFields-1 {
			return m.submit()
		}
		m.focus++
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
	}
	return m, nil
}

func (m formModel) submit() (formModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	in, err := m.input()
	if err != "" {
		m.err = err
		return m, nil
	}
	m.err = ""
	m.submitting = true

	c := m.client
	editingID := m.editingID
	return m, func() tea.Msg {
		if editingID != "" {
			p, err := c.UpdateProduct(context.Background(), editingID, in)
			return productSavedMsg{product: p, updated: true, err: err}
		}
		p, err := c.CreateProduct(context.Background(), in)
		return productSavedMsg{product: p, err: err}
	}
}

// input validates the form and builds the API payload.
func (m formModel) input() (domain.ProductInput, string) {
	var in domain.ProductInput

	in.Name = strings.TrimSpace(m.fields[fieldName])
	if in.Name == "" {
		return in, "le nom du produit est requis"
	}
	if q := strings.TrimSpace(m.fields[fieldQuantity]); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 0 {
			return in, "la quantité doit être un entier positif"
		}
		in.Quantity = n
	}
	if p := strings.TrimSpace(m.fields[fieldPrice]); p != "" {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil || v < 0 {
			return in, "le prix doit être un nombre positif"
		}
		in.Price = v
	}
	in.Categorie = strings.TrimSpace(m.fields[fieldCategorie])
	in.Session = strings.TrimSpace(m.fields[fieldSession])
	if !domain.IsObjectID(in.Session) {
		return in, "la session doit être un ObjectId valide (24 caractères)"
	}
	return in, ""
}

func (m formModel) View() string {
	var b strings.Builder
	title := "AJOUTER UN PRODUIT"
	if m.editingID != "" {
		title = "MODIFIER UN PRODUIT"
	}
	b.WriteString(" " + accentStyle.Render(title) + "\n\n")

	for f := formField(0); f < numFormFields; f++ {
		label := formLabels[f]
		value := m.fields[f]
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
		b.WriteString("\n " + dimStyle.Render("enregistrement..."))
	}
	if m.err != "" {
		b.WriteString("\n " + errStyle.Render(m.err))
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg))
	}
	return b.String()
}
