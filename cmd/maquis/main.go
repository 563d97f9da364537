package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/emaquis/maquis/internal/browser"
	"github.com/emaquis/maquis/internal/config"
	"github.com/emaquis/maquis/internal/credstore"
	"github.com/emaquis/maquis/internal/session"
	"github.com/emaquis/maquis/internal/tui"
	"github.com/emaquis/maquis/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("maquis " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(cfg)
		case "logout":
			return runLogout(cfg)
		case "dashboard":
			return runDashboard()
		}
	}

	store, err := credstore.NewFileStore(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	sess := session.New(store)
	sess.Hydrate(context.Background())

	c := client.New(cfg.APIURL,
		client.WithToken(cfg.Token),
		client.WithSession(sess),
		client.WithCredentialStore(store),
	)

	app := tui.NewApp(c, sess, version)
	p := tea.NewProgram(app, tea.WithAltScreen())

	// Session transitions can originate outside the TUI loop, a 401 on
	// any request being the usual case. Forward them into the program.
	unsubscribe := sess.Subscribe(func(st session.State) {
		p.Send(tui.SessionChangedMsg{State: st})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// runLogin prompts for credentials on stdin and stores the session token.
func runLogin(cfg config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Nom d'utilisateur: ")
	username, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read username: %w", err)
	}
	fmt.Print("Mot de passe: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	fmt.Print("Pays (optionnel): ")
	country, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("read country: %w", err)
	}

	creds := client.Credentials{
		Username: strings.TrimSpace(username),
		Password: strings.TrimSpace(password),
		Country:  strings.TrimSpace(country),
	}
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("username and password are required")
	}

	store, err := credstore.NewFileStore(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	sess := session.New(store)

	c := client.New(cfg.APIURL, client.WithSession(sess), client.WithCredentialStore(store))
	res, err := c.LoginGestionnaire(context.Background(), creds)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if res.Token == "" {
		return fmt.Errorf("login: identifiants invalides")
	}

	sess.Login(&res.User, res.Token)
	// Persistence is asynchronous; write the token directly too so the
	// command can exit immediately without racing the store.
	if err := store.Set(context.Background(), credstore.TokenKey, res.Token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	name := res.User.DisplayName()
	if name == "" {
		name = creds.Username
	}
	fmt.Printf("Connecté en tant que %s\n", name)
	return nil
}

// runLogout removes the stored token. Logging out twice is fine.
func runLogout(cfg config.Config) error {
	store, err := credstore.NewFileStore(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("open credential store: %w", err)
	}
	if err := store.Remove(context.Background(), credstore.TokenKey); err != nil {
		return fmt.Errorf("remove token: %w", err)
	}
	fmt.Println("Déconnecté.")
	return nil
}

func runDashboard() error {
	if err := browser.Open(config.DashboardURL); err != nil {
		fmt.Println(config.DashboardURL)
	}
	return nil
}

func printHelp() {
	fmt.Println(`maquis - gestion de stock eMaquis dans le terminal

Usage:
  maquis              lancer l'interface
  maquis login        se connecter (invite sur stdin)
  maquis logout       supprimer le jeton enregistré
  maquis dashboard    ouvrir le tableau de bord web
  maquis version      afficher la version

Environment:
  MAQUIS_API_URL      URL de l'API (défaut: ` + config.DefaultAPIURL + `)
  MAQUIS_TOKEN        jeton d'authentification (prioritaire sur le fichier)
  MAQUIS_CONFIG_DIR   répertoire de configuration (défaut: ~/.maquis)`)
}
