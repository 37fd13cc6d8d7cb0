// Command todoterm is a terminal client for a shared todo backend.
// It signs the user in, loads the synchronization store, and runs the
// Bubble Tea interface.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/nhle/todoterm/internal/api"
	"github.com/nhle/todoterm/internal/app"
	"github.com/nhle/todoterm/internal/config"
	"github.com/nhle/todoterm/internal/credential"
	"github.com/nhle/todoterm/internal/logging"
	"github.com/nhle/todoterm/internal/notify"
	"github.com/nhle/todoterm/internal/realtime"
	"github.com/nhle/todoterm/internal/session"
	"github.com/nhle/todoterm/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "todoterm:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", config.DefaultConfigPath(), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logger, logFile, err := logging.Open(config.DefaultLogPath(), cfg.Display.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	sess := session.NewManager(credential.NewSystemStore())
	client := api.NewClient(cfg.API.BaseURL, sess)
	sess.SetAuthAPI(client)

	ctx := context.Background()
	if !sess.Verify(ctx) {
		if err := signIn(ctx, sess); err != nil {
			return err
		}
	}

	var history *notify.History
	if cfg.Notifications.History {
		history, err = notify.NewHistory(cfg.Notifications.HistoryPath)
		if err != nil {
			logger.Warn("toast history disabled", "err", err)
		} else {
			defer history.Close()
		}
	}
	feed := notify.NewFeed(16, history)

	s := store.New(client, feed, logger)

	var refresh <-chan struct{}
	if cfg.Realtime.Enabled {
		refresher := app.NewRefresher(s)
		refresh = refresher.Signal()
		sub := realtime.NewSubscriber(cfg.Realtime.URL, refresher, logger)

		subCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := sub.Run(subCtx); err != nil && subCtx.Err() == nil {
				logger.Error("relay subscription stopped", "err", err)
			}
		}()
	}

	program := tea.NewProgram(
		app.New(s, sess, feed, refresh),
		tea.WithAltScreen(),
	)
	_, err = program.Run()
	return err
}

// signIn runs the pre-TUI login/register flow in the plain terminal.
func signIn(ctx context.Context, sess *session.Manager) error {
	for {
		var (
			mode     = "login"
			email    string
			username string
			password string
		)

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title("Welcome to todoterm").
					Options(
						huh.NewOption("Sign in", "login"),
						huh.NewOption("Create an account", "register"),
					).
					Value(&mode),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}

		if mode == "register" {
			regForm := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().Title("Email").Value(&email).Validate(required("Email")),
					huh.NewInput().Title("Username").Value(&username).Validate(required("Username")),
					huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
						Value(&password).Validate(required("Password")),
				),
			)
			if err := regForm.Run(); err != nil {
				return err
			}

			_, err := sess.Register(ctx, api.RegisterRequest{
				Email:    strings.TrimSpace(email),
				Username: strings.TrimSpace(username),
				Password: password,
			})
			if err != nil {
				fmt.Fprintln(os.Stderr, "registration failed:", err)
				continue
			}
			fmt.Println("Account created. Sign in to continue.")
			continue
		}

		loginForm := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().Title("Email or username").Value(&username).
					Validate(required("Email or username")),
				huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
					Value(&password).Validate(required("Password")),
			),
		)
		if err := loginForm.Run(); err != nil {
			return err
		}

		user, err := sess.Login(ctx, api.LoginRequest{
			Username: strings.TrimSpace(username),
			Password: password,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "login failed:", err)
			continue
		}

		fmt.Printf("Signed in as %s.\n", user.Username)
		return nil
	}
}

func required(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
