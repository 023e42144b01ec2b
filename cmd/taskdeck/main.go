package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/notify"
	"taskdeck/internal/session"
	"taskdeck/internal/state"
	"taskdeck/internal/ui"
	"taskdeck/internal/ui/styles"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", os.Getenv("TASKDECK_CONFIG"), "path to a config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("taskdeck", version)
		return
	}

	// a .env next to the binary is convenient in development
	_ = godotenv.Load()

	cfg := config.MustLoad(*configPath)

	logger, closeLog, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer closeLog()

	db, err := state.Open(cfg.StatePath)
	if err != nil {
		logger.Error("open state db", "error", err)
		fmt.Fprintln(os.Stderr, "state:", err)
		os.Exit(1)
	}
	defer db.Close()

	var store session.Store
	if cfg.TokenStorage == config.StorageSession {
		store = session.NewMemoryStore()
	} else {
		store = session.NewDurableStore(db)
	}
	mgr := session.NewManager(store)
	mgr.Subscribe(func(authenticated bool) {
		logger.Info("auth state changed", "authenticated", authenticated)
	})

	client := api.New(api.Options{
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.Timeout,
		Token:          mgr.Token,
		OnUnauthorized: mgr.HandleUnauthorized,
		Logger:         logger,
	})
	poller := notify.NewPoller(client)

	if theme, err := db.GetSetting(ui.ThemeSetting); err == nil && theme != "" {
		styles.SetCurrent(theme)
	}

	logger.Info("starting", "version", version, "api", cfg.APIBaseURL, "origin", client.Origin(), "storage", cfg.TokenStorage)

	app := ui.NewApp(logger, cfg, mgr, client, poller, db)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("program exited", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger writes structured logs to a file; the TUI owns the terminal
func newLogger(level string) (*slog.Logger, func(), error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, err
		}
		dir = filepath.Join(home, ".local", "state")
	}
	dir = filepath.Join(dir, "taskdeck")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(filepath.Join(dir, "taskdeck.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: lvl}))
	return logger, func() { f.Close() }, nil
}
