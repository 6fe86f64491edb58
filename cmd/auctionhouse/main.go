package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/ankiiin/auction-house-sp2/internal/config"
	"github.com/ankiiin/auction-house-sp2/internal/feed"
	"github.com/ankiiin/auction-house-sp2/internal/ledger"
	"github.com/ankiiin/auction-house-sp2/internal/logger"
	"github.com/ankiiin/auction-house-sp2/internal/session"
	"github.com/ankiiin/auction-house-sp2/internal/tui"
	"github.com/ankiiin/auction-house-sp2/pkg/client"
	"github.com/ankiiin/auction-house-sp2/pkg/domain"
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
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogPath(), cfg.Debug)

	api := client.New(cfg.API.BaseURL, cfg.API.Key, "")
	store, err := session.Open(cfg.SessionPath(), api, cfg.Credits.Default)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("auctionhouse " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			return runLogin(store)
		case "register":
			return runRegister(store)
		case "logout":
			return runLogout(store)
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	led := ledger.New(store, api)
	viewer := func() string {
		user, ok := store.CurrentUser()
		if !ok {
			return ""
		}
		return user.Name
	}
	ctrl := feed.New(api, viewer, cfg.Feed.PageSize)

	app := tui.NewApp(api, store, led, ctrl, cfg.Feed.ScrollThreshold)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// prompt reads one line of input from stdin.
func prompt(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func runLogin(store *session.Store) error {
	email, err := prompt("email: ")
	if err != nil {
		return err
	}
	password, err := prompt("password: ")
	if err != nil {
		return err
	}

	profile, err := store.Login(context.Background(), email, password)
	if err != nil {
		if domain.IsValidation(err) {
			return err
		}
		log.Warn().Err(err).Msg("login failed")
		return fmt.Errorf("login failed: %w", err)
	}
	fmt.Printf("Logged in as %s. Run auctionhouse to browse.\n", profile.Name)
	return nil
}

func runRegister(store *session.Store) error {
	name, err := prompt("username: ")
	if err != nil {
		return err
	}
	email, err := prompt("email (" + domain.EmailSuffix + "): ")
	if err != nil {
		return err
	}
	password, err := prompt("password: ")
	if err != nil {
		return err
	}

	if err := store.Register(context.Background(), name, email, password); err != nil {
		if domain.IsValidation(err) {
			return err
		}
		log.Warn().Err(err).Msg("registration failed")
		return fmt.Errorf("registration failed: %w", err)
	}
	fmt.Println("Registered. Run auctionhouse login to sign in.")
	return nil
}

func runLogout(store *session.Store) error {
	if !store.LoggedIn() {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := store.Logout(); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func printHelp() {
	fmt.Print(`auctionhouse — terminal auction house

usage:
  auctionhouse            launch the TUI
  auctionhouse login      sign in with a stud.noroff.no account
  auctionhouse register   create an account
  auctionhouse logout     clear the saved session
  auctionhouse version    print the version

environment:
  AUCTION_API_URL         API base URL
  AUCTION_API_KEY         API key header value
  AUCTION_STATE_DIR       session and log directory
  DEBUG                   enable debug logging
`)
}
