package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/pmt/internal/api"
	"github.com/tgienger/pmt/internal/config"
	"github.com/tgienger/pmt/internal/db"
	"github.com/tgienger/pmt/internal/session"
	"github.com/tgienger/pmt/internal/ui"
	"github.com/tgienger/pmt/internal/ui/route"
	"github.com/tgienger/pmt/internal/ui/styles"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("pmt", flag.ContinueOnError)
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "backend base URL (env PMT_API_URL)")
	fs.StringVar(&cfg.StartRoute, "route", "", "open this screen instead of the last one, e.g. /tasks")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Printf("pmt %s (commit: %s, built: %s)\n", version, commit, date)
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	var start route.Route
	if cfg.StartRoute != "" {
		r, err := route.Parse(cfg.StartRoute)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		start = r
	}

	if err := cfg.EnsureDir(); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		return 1
	}

	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		return 1
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.ParseLogLevel()})))
	slog.Info("starting", "version", version, "api", cfg.APIURL)

	if err := styles.Use(cfg.Theme); err != nil {
		slog.Warn("keeping default theme", "error", err)
	}

	database, err := db.New(cfg.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing database: %v\n", err)
		return 1
	}
	defer database.Close()

	sessions := session.New(database)
	if exp, ok := sessions.ExpiresAt(); ok {
		slog.Info("stored session", "expires", exp)
	}
	client := api.New(cfg.APIURL, sessions, cfg.Timeout)

	app := ui.NewApp(client, sessions, database, start)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		slog.Error("program exited", "error", err)
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		return 1
	}
	return 0
}
