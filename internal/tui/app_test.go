package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emaquis/maquis/internal/credstore"
	"github.com/emaquis/maquis/internal/session"
	"github.com/emaquis/maquis/pkg/client"
	"github.com/emaquis/maquis/pkg/domain"
)

func newTestApp(t *testing.T) App {
	t.Helper()
	sess := session.New(credstore.NewMemStore())
	a := NewApp(nil, sess, "test")
	a.width = 80
	a.height = 24
	return a
}

func newAuthenticatedApp(t *testing.T) App {
	t.Helper()
	a := newTestApp(t)
	a.session.Login(&domain.User{Name: "Kouamé"}, "T1")
	a.applyState(a.session.Snapshot())
	a.view = viewStock
	a.stock.loading = false
	return a
}

func asApp(t *testing.T, m tea.Model) App {
	t.Helper()
	a, ok := m.(App)
	if !ok {
		t.Fatalf("expected App, got %T", m)
	}
	return a
}

func TestAppStartsOnLoginWhenLoggedOut(t *testing.T) {
	a := newTestApp(t)
	if a.view != viewLogin {
		t.Errorf("expected login view, got %d", a.view)
	}
	view := a.View()
	if !strings.Contains(view, "CONNEXION GESTIONNAIRE") {
		t.Errorf("expected login screen, got:\n%s", view)
	}
}

func TestAppStartsOnStockWhenSessionHydrated(t *testing.T) {
	sess := session.New(credstore.NewMemStore())
	sess.Login(&domain.User{Name: "Kouamé"}, "T1")
	a := NewApp(nil, sess, "test")
	if a.view != viewStock {
		t.Errorf("expected stock view for authenticated session, got %d", a.view)
	}
}

func TestAppLoginSuccessSwitchesToStock(t *testing.T) {
	a := newTestApp(t)
	m, cmd := a.Update(loginDoneMsg{res: &client.LoginResult{
		Token: "T1",
		User:  domain.User{Name: "Kouamé"},
	}})
	a = asApp(t, m)

	if a.view != viewStock {
		t.Errorf("expected stock view after login, got %d", a.view)
	}
	if cmd == nil {
		t.Error("expected stock load command after login")
	}
	st := a.session.Snapshot()
	if !st.Authenticated || st.Token != "T1" {
		t.Errorf("expected session logged in, got %+v", st)
	}
}

func TestAppLoginRejectionStaysOnLogin(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(loginDoneMsg{res: &client.LoginResult{}})
	a = asApp(t, m)

	if a.view != viewLogin {
		t.Errorf("expected to stay on login view, got %d", a.view)
	}
	if a.session.Snapshot().Authenticated {
		t.Error("expected session still logged out")
	}
	if !strings.Contains(a.View(), "identifiants invalides") {
		t.Error("expected rejection message rendered")
	}
}

func TestAppRegisterToggle(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	a = asApp(t, m)
	if a.view != viewRegister {
		t.Fatalf("expected register view after ctrl+r, got %d", a.view)
	}
	if !strings.Contains(a.View(), "INSCRIPTION GESTIONNAIRE") {
		t.Error("expected register screen rendered")
	}

	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = asApp(t, m)
	if a.view != viewLogin {
		t.Errorf("expected back on login after esc, got %d", a.view)
	}
}

func TestAppTabSwitching(t *testing.T) {
	a := newAuthenticatedApp(t)

	m, cmd := a.Update(keyMsg("3"))
	a = asApp(t, m)
	if a.view != viewProfile {
		t.Errorf("expected profile view after 3, got %d", a.view)
	}
	if cmd == nil {
		t.Error("expected profile load command")
	}

	m, _ = a.Update(keyMsg("1"))
	a = asApp(t, m)
	if a.view != viewStock {
		t.Errorf("expected stock view after 1, got %d", a.view)
	}

	m, _ = a.Update(keyMsg("2"))
	a = asApp(t, m)
	if a.view != viewForm {
		t.Errorf("expected form view after 2, got %d", a.view)
	}
}

func TestAppFormCapturesDigits(t *testing.T) {
	a := newAuthenticatedApp(t)
	m, _ := a.Update(keyMsg("2"))
	a = asApp(t, m)

	// Quantity and price need digits, so number keys are form input
	// here, not tab shortcuts.
	a.form.focus = fieldQuantity
	m, _ = a.Update(keyMsg("3"))
	a = asApp(t, m)
	if a.view != viewForm {
		t.Fatalf("expected to stay on form view, got %d", a.view)
	}
	if a.form.fields[fieldQuantity] != "3" {
		t.Errorf("expected digit typed into quantity, got %q", a.form.fields[fieldQuantity])
	}

	// esc leaves the form; tabs work again.
	m, _ = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	a = asApp(t, m)
	if a.view != viewStock {
		t.Fatalf("expected stock view after esc, got %d", a.view)
	}
	m, _ = a.Update(keyMsg("3"))
	a = asApp(t, m)
	if a.view != viewProfile {
		t.Errorf("expected profile view after 3, got %d", a.view)
	}
}

func TestAppTabsHiddenWhenLoggedOut(t *testing.T) {
	a := newTestApp(t)
	view := a.View()
	if strings.Contains(view, "Stock") {
		t.Errorf("expected no tab bar when logged out, got:\n%s", view)
	}
}

func TestAppEditProductOpensPrefilledForm(t *testing.T) {
	a := newAuthenticatedApp(t)
	qty := 24
	m, _ := a.Update(editProductMsg{product: domain.Product{
		MongoID:  "64f1b2c3d4e5f6a7b8c9d0e1",
		Name:     "Castel 65cl",
		Quantity: &qty,
	}})
	a = asApp(t, m)

	if a.view != viewForm {
		t.Fatalf("expected form view, got %d", a.view)
	}
	if a.form.editingID != "64f1b2c3d4e5f6a7b8c9d0e1" {
		t.Errorf("expected form prefilled, got editingID=%q", a.form.editingID)
	}
	if !strings.Contains(a.View(), "MODIFIER UN PRODUIT") {
		t.Error("expected edit title rendered")
	}
}

func TestAppProductSavedReloadsStock(t *testing.T) {
	a := newAuthenticatedApp(t)
	a.view = viewForm
	_, cmd := a.Update(productSavedMsg{product: &domain.Product{Name: "Castel 65cl"}})
	if cmd == nil {
		t.Error("expected reload command after save")
	}
}

func TestAppSessionLossReturnsToLogin(t *testing.T) {
	a := newAuthenticatedApp(t)
	a.session.Logout()
	m, _ := a.Update(SessionChangedMsg{State: a.session.Snapshot()})
	a = asApp(t, m)

	if a.view != viewLogin {
		t.Errorf("expected login view after session loss, got %d", a.view)
	}
	if !strings.Contains(a.View(), "session expirée") {
		t.Error("expected expiry notice rendered")
	}
}

func TestAppLogoutKey(t *testing.T) {
	a := newAuthenticatedApp(t)
	m, _ := a.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	a = asApp(t, m)

	if a.session.Snapshot().Authenticated {
		t.Error("expected session logged out after ctrl+d")
	}
	if a.view != viewLogin {
		t.Errorf("expected login view after logout, got %d", a.view)
	}
}

func TestAppHeaderShowsUserName(t *testing.T) {
	a := newAuthenticatedApp(t)
	view := a.View()
	if !strings.Contains(view, "Kouamé") {
		t.Errorf("expected user name in header, got:\n%s", view)
	}
	if !strings.Contains(view, "connecté") {
		t.Errorf("expected connected badge in header, got:\n%s", view)
	}
}

func TestAppQuitKeys(t *testing.T) {
	a := newAuthenticatedApp(t)
	_, cmd := a.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}
