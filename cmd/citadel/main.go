package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"
	"golang.org/x/text/language"

	"github.com/mmcdole/citadel/internal/adapter"
	"github.com/mmcdole/citadel/internal/browse"
	"github.com/mmcdole/citadel/internal/cache"
	"github.com/mmcdole/citadel/internal/catalog"
	"github.com/mmcdole/citadel/internal/favorites"
	"github.com/mmcdole/citadel/internal/nav"
	"github.com/mmcdole/citadel/internal/query"
	"github.com/mmcdole/citadel/internal/theme"
	"github.com/mmcdole/citadel/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var (
		showVersion bool
		listOnly    bool
		saveConfig  bool
		configFile  string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&listOnly, "list", false, "print the page for the query and exit")
	flag.StringVar(&configFile, "config", "", "config file (default ~/.config/citadel/config.yaml)")
	flag.BoolVar(&saveConfig, "save-config", false, "write the effective config to the config file and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: citadel [flags] [query]\n\n")
		fmt.Fprintf(flag.CommandLine.Output(), "query is an address bar string such as \"page=2&q=rick&status=alive\".\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("citadel %s\n", Version)
		return
	}

	if saveConfig {
		if err := writeEffectiveConfig(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(configFile, flag.Arg(0), listOnly); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// writeEffectiveConfig saves defaults merged with the file and environment
func writeEffectiveConfig(configFile string) error {
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	path, err := adapter.SaveConfig(cfg, configFile)
	if err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func run(configFile, link string, listOnly bool) error {
	// Load configuration
	cfg, err := adapter.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
		logCloser = io.NopCloser(nil)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("starting citadel", "version", Version)

	params, err := query.ParseParams(link)
	if err != nil {
		return fmt.Errorf("invalid query %q: %w", link, err)
	}

	// Durable state shared with other running instances
	origin, err := adapter.OpenStorage(cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer origin.Close()
	storage := origin.Context()

	favs := favorites.New(storage, logger)
	defaultTheme, err := theme.Parse(cfg.UI.Theme)
	if err != nil {
		logger.Warn("invalid theme in config, using dark", "theme", cfg.UI.Theme)
		defaultTheme = theme.Dark
	}
	themes := theme.New(storage, defaultTheme, logger)

	locale, err := language.Parse(cfg.UI.Locale)
	if err != nil {
		logger.Warn("invalid locale in config, using English", "locale", cfg.UI.Locale, "error", err)
		locale = language.English
	}

	// Remote catalog behind the page cache
	client := catalog.NewClient(catalog.Options{
		BaseURL:           cfg.Catalog.BaseURL,
		Timeout:           cfg.Catalog.Timeout,
		RequestsPerSecond: cfg.Catalog.RequestsPerSecond,
		UserAgent:         cfg.Catalog.UserAgent,
	}, logger)
	pages := cache.New(client, logger)

	history := nav.NewHistory(params)
	controller := browse.NewController(history, pages, favs, browse.NewPipeline(locale), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	controller.Start(ctx)
	defer controller.Close()

	if listOnly || !term.IsTerminal(int(os.Stdout.Fd())) {
		return printPage(ctx, controller, favs, os.Stdout)
	}

	model, unsubscribe := tui.NewModel(tui.Deps{
		Browse:    controller,
		History:   history,
		Favorites: favs,
		Theme:     themes,
		Catalog:   client,
		Opener:    adapter.NewOpener(cfg.UI.Viewer, cfg.UI.ViewerArgs, logger),
		Logger:    logger,
	})
	defer unsubscribe()

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
