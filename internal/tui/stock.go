package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/emaquis/maquis/pkg/client"
	"github.com/emaquis/maquis/pkg/domain"
)

type stockModel struct {
	client *client.Client

	all     []domain.Product // as loaded from the API
	visible []domain.Product // after client-side search + category filter

	cursor    int
	search    string
	searching bool // typing in the search box
	catFilter string

	detail     bool
	history    []domain.StockEntry
	historyErr error

	confirmDelete bool

	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

type productsLoadedMsg struct {
	products []domain.Product
	err      error
}

type productDeletedMsg struct {
	id  string
	err error
}

type historyLoadedMsg struct {
	entries []domain.StockEntry
	err     error
}

type copyResultMsg struct{ err error }

// editProductMsg asks the app to open the product form pre-filled.
type editProductMsg struct {
	product domain.Product
}

func newStockModel(c *client.Client) stockModel {
	return stockModel{client: c, loading: true}
}

func (m stockModel) Init() tea.Cmd {
	return m.loadProducts()
}

func (m stockModel) loadProducts() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		products, err := c.ListProducts(context.Background(), 1, listPageSize)
		return productsLoadedMsg{products: products, err: err}
	}
}

func (m stockModel) loadHistory(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		hist, err := c.ProductHistory(context.Background(), id, 1, 10)
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{entries: hist.Data}
	}
}

func (m stockModel) deleteProduct(id string) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		err := c.DeleteProduct(context.Background(), id)
		return productDeletedMsg{id: id, err: err}
	}
}

// applyFilters recomputes the visible list from the loaded one.
func (m *stockModel) applyFilters() {
	m.visible = domain.FilterByCategory(domain.FilterByName(m.all, m.search), m.catFilter)
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

func (m stockModel) selected() (domain.Product, bool) {
	if m.cursor < len(m.visible) {
		return m.visible[m.cursor], true
	}
	return domain.Product{}, false
}

func (m stockModel) Update(msg tea.Msg) (stockModel, tea.Cmd) {
	switch msg := msg.(type) {
	case productsLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.all = msg.products
			m.applyFilters()
		}
		return m, nil

	case productDeletedMsg:
		m.confirmDelete = false
		if msg.err != nil {
			m.statusMsg = "suppression impossible: " + truncStr(msg.err.Error(), 60)
			return m, nil
		}
		// Drop the product locally; no full reload needed.
		kept := m.all[:0]
		for _, p := range m.all {
			if p.ObjectID() != msg.id {
				kept = append(kept, p)
			}
		}
		m.all = kept
		m.applyFilters()
		m.detail = false
		m.statusMsg = "produit supprimé"
		return m, nil

	case historyLoadedMsg:
		m.history = msg.entries
		m.historyErr = msg.err
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = "copie impossible"
		} else {
			m.statusMsg = "identifiant copié"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m stockModel) updateSearch(msg tea.KeyMsg) (stockModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
	case "esc":
		m.searching = false
		m.search = ""
		m.applyFilters()
	default:
		m.search = editRune(m.search, msg.String())
		m.applyFilters()
	}
	return m, nil
}

func (m stockModel) updateConfirm(msg tea.KeyMsg) (stockModel, tea.Cmd) {
	switch msg.String() {
	case "y", "o": // oui
		if p, ok := m.selected(); ok {
			return m, m.deleteProduct(p.ObjectID())
		}
		m.confirmDelete = false
	case "n", "esc":
		m.confirmDelete = false
	}
	return m, nil
}

func (m stockModel) updateDetail(msg tea.KeyMsg) (stockModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.detail = false
	case "e":
		if p, ok := m.selected(); ok {
			return m, func() tea.Msg { return editProductMsg{product: p} }
		}
	case "d":
		m.confirmDelete = true
	case "c":
		if p, ok := m.selected(); ok {
			id := p.ObjectID()
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(id)}
			}
		}
	}
	return m, nil
}

func (m stockModel) updateList(msg tea.KeyMsg) (stockModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if p, ok := m.selected(); ok {
			m.detail = true
			m.history = nil
			m.historyErr = nil
			return m, m.loadHistory(p.ObjectID())
		}
	case "/":
		m.searching = true
		m.search = ""
		m.applyFilters()
	case "t":
		m.catFilter = nextCategory(domain.CategoryNames(m.all), m.catFilter)
		m.cursor = 0
		m.applyFilters()
	case "e":
		if p, ok := m.selected(); ok {
			return m, func() tea.Msg { return editProductMsg{product: p} }
		}
	case "d":
		if _, ok := m.selected(); ok {
			m.confirmDelete = true
		}
	case "c":
		if p, ok := m.selected(); ok {
			id := p.ObjectID()
			return m, func() tea.Msg {
				return copyResultMsg{err: clipboard.WriteAll(id)}
			}
		}
	case "r":
		m.loading = true
		return m, m.loadProducts()
	}
	return m, nil
}

// nextCategory cycles: no filter -> first -> ... -> last -> no filter.
func nextCategory(names []string, current string) string {
	if len(names) == 0 {
		return ""
	}
	if current == "" {
		return names[0]
	}
	for i, name := range names {
		if strings.EqualFold(name, current) {
			if i+1 < len(names) {
				return names[i+1]
			}
			return ""
		}
	}
	return ""
}

func (m stockModel) View() string {
	if m.detail {
		return m.viewDetail()
	}

	var b strings.Builder
	b.WriteString(" " + accentStyle.Render("STOCK") + "  " +
		metaStyle.Render(fmt.Sprintf("%d produits", len(m.visible))) + "\n")

	// Search line
	if m.searching {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ rechercher..."))
	}
	// Category filter indicator
	if m.catFilter != "" {
		b.WriteString("   " + categoryStyle.Render("["+m.catFilter+"]") + " " + helpKeyStyle.Render("t"))
	} else {
		b.WriteString("   " + dimStyle.Render("[toutes catégories]") + " " + helpKeyStyle.Render("t"))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(" " + dimStyle.Render("chargement du stock..."))
	case m.err != nil:
		b.WriteString(" " + errStyle.Render("erreur de chargement: "+truncStr(m.err.Error(), 70)))
	case len(m.visible) == 0:
		b.WriteString(" " + dimStyle.Render("aucun produit"))
	default:
		for i, p := range m.visible {
			b.WriteString(m.renderRow(i, p) + "\n")
		}
	}

	if m.confirmDelete {
		if p, ok := m.selected(); ok {
			b.WriteString("\n " + warnStyle.Render(fmt.Sprintf("supprimer %q ? (o/n)", p.Name)))
		}
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg))
	}
	return b.String()
}

func (m stockModel) renderRow(i int, p domain.Product) string {
	name := truncStr(p.Name, 32)
	qty := "-"
	if n, ok := p.Count(); ok {
		qty = fmt.Sprintf("%d", n)
	}
	cat := p.Categorie.Name
	if cat == "" {
		cat = "-"
	}
	price := "-"
	if p.Price > 0 {
		price = formatFCFA(p.Price)
	}
	avail := unavailableStyle.Render("épuisé")
	if p.Available {
		avail = availableStyle.Render("dispo")
	}

	line := fmt.Sprintf(" %-34s %4s  %-14s %14s  %s",
		name, qty, truncStr(cat, 14), price, avail)
	if i == m.cursor {
		return selectedRowBg.Render(selectedStyle.Render(line))
	}
	return normalStyle.Render(line)
}

func (m stockModel) viewDetail() string {
	p, ok := m.selected()
	if !ok {
		return " " + dimStyle.Render("aucun produit sélectionné")
	}

	var b strings.Builder
	b.WriteString(" " + accentStyle.Render(p.Name) + "\n\n")
	if n, ok := p.Count(); ok {
		b.WriteString(" " + labelStyle.Render("Quantité : ") + fmt.Sprintf("%d", n) + "\n")
	}
	if p.Categorie.Name != "" {
		b.WriteString(" " + labelStyle.Render("Catégorie: ") + categoryStyle.Render(p.Categorie.Name) + "\n")
	}
	if p.Price > 0 {
		b.WriteString(" " + labelStyle.Render("Prix     : ") + priceStyle.Render(formatFCFA(p.Price)) + "\n")
	}
	if p.Available {
		b.WriteString(" " + labelStyle.Render("Statut   : ") + availableStyle.Render("disponible") + "\n")
	} else {
		b.WriteString(" " + labelStyle.Render("Statut   : ") + unavailableStyle.Render("épuisé") + "\n")
	}
	b.WriteString(" " + metaStyle.Render(p.ObjectID()) + "\n")

	b.WriteString("\n " + sectionHeaderStyle.Render("MOUVEMENTS") + "\n")
	switch {
	case m.historyErr != nil:
		b.WriteString(" " + dimStyle.Render("historique indisponible") + "\n")
	case m.history == nil:
		b.WriteString(" " + dimStyle.Render("chargement...") + "\n")
	case len(m.history) == 0:
		b.WriteString(" " + dimStyle.Render("aucun mouvement") + "\n")
	default:
		for _, e := range m.history {
			delta := fmt.Sprintf("%+d", e.Delta)
			style := okStyle
			if e.Delta < 0 {
				style = errStyle
			}
			reason := e.Reason
			if reason == "" {
				reason = "-"
			}
			b.WriteString(fmt.Sprintf(" %s  %-20s %s\n",
				style.Render(fmt.Sprintf("%6s", delta)),
				truncStr(reason, 20),
				metaStyle.Render(formatTime(e.CreatedAt))))
		}
	}

	if m.confirmDelete {
		b.WriteString("\n " + warnStyle.Render(fmt.Sprintf("supprimer %q ? (o/n)", p.Name)))
	}
	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg))
	}
	return b.String()
}
