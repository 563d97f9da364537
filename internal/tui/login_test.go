package tui

import (
	"strings"
	"testing"

	"github.com/emaquis/maquis/pkg/client"
	"github.com/emaquis/maquis/pkg/domain"
)

func TestLoginViewRendersLabels(t *testing.T) {
	m := newLoginModel(nil)
	view := m.View()
	if !strings.Contains(view, "CONNEXION GESTIONNAIRE") {
		t.Errorf("expected title in view, got:\n%s", view)
	}
	if !strings.Contains(view, "Nom d'utilisateur") {
		t.Errorf("expected username label, got:\n%s", view)
	}
	if !strings.Contains(view, "Mot de passe") {
		t.Errorf("expected password label, got:\n%s", view)
	}
}

func TestLoginPasswordMasked(t *testing.T) {
	m := newLoginModel(nil)
	m.fields[loginPassword] = "secret"
	view := m.View()
	if strings.Contains(view, "secret") {
		t.Errorf("expected password masked, got:\n%s", view)
	}
	if !strings.Contains(view, "******") {
		t.Errorf("expected asterisks for password, got:\n%s", view)
	}
}

func TestLoginSubmitRequiresCredentials(t *testing.T) {
	m := newLoginModel(nil)
	m2, cmd := m.submit()
	if cmd != nil {
		t.Error("expected no command for empty credentials")
	}
	if m2.errMsg == "" {
		t.Error("expected validation message for empty credentials")
	}
}

func TestLoginSubmitSendsCommand(t *testing.T) {
	m := newLoginModel(nil)
	m.fields[loginUsername] = "kouame"
	m.fields[loginPassword] = "motdepasse"
	m2, cmd := m.submit()
	if cmd == nil {
		t.Fatal("expected a login command")
	}
	if !m2.submitting {
		t.Error("expected submitting=true")
	}
}

func TestLoginRejectionShowsInvalidCredentials(t *testing.T) {
	m := newLoginModel(nil)
	m.submitting = true
	m, _ = m.Update(loginDoneMsg{res: &client.LoginResult{}})
	if m.errMsg != "identifiants invalides" {
		t.Errorf("expected rejection message, got %q", m.errMsg)
	}

	view := m.View()
	if !strings.Contains(view, "identifiants invalides") {
		t.Errorf("expected rejection in view, got:\n%s", view)
	}
}

func TestLoginTransportErrorShowsGenericMessage(t *testing.T) {
	m := newLoginModel(nil)
	m.submitting = true
	m, _ = m.Update(loginDoneMsg{err: errFake("dial tcp: refused")})
	if m.errMsg != "erreur de connexion" {
		t.Errorf("expected transport error message, got %q", m.errMsg)
	}
}

func TestLoginSuccessHandledByApp(t *testing.T) {
	// A successful login is consumed by the root model, not here; the
	// login model only clears its submitting flag.
	m := newLoginModel(nil)
	m.submitting = true
	m, _ = m.Update(loginDoneMsg{res: &client.LoginResult{
		Token: "T",
		User:  domain.User{Name: "Kouamé"},
	}})
	if m.submitting {
		t.Error("expected submitting=false after result")
	}
	if m.errMsg != "" {
		t.Errorf("expected no error on success, got %q", m.errMsg)
	}
}
