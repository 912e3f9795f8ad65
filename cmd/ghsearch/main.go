package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/pkg/browser"
	"github.com/sirupsen/logrus"

	"ghsearch/internal/config"
	"ghsearch/internal/eventbus"
	"ghsearch/internal/github"
	"ghsearch/internal/search"
	"ghsearch/internal/ui"
)

// CLI holds the command line flags. Empty values fall back to the config file.
type CLI struct {
	Token    string           `help:"GitHub token. Overrides the config file, GH_TOKEN, GITHUB_TOKEN and gh credentials."`
	Config   string           `help:"Path to the config file." type:"path" placeholder:"PATH"`
	APIURL   string           `name:"api-url" help:"GitHub API base URL." placeholder:"URL"`
	Debounce string           `help:"Pause after typing before searching, e.g. 250ms. 0s searches on every keystroke." placeholder:"DURATION"`
	Theme    string           `help:"Color theme (light or dark)." placeholder:"THEME"`
	Query    string           `short:"q" help:"Run a single search, print the results and exit."`
	JSON     bool             `name:"json" help:"Print --query results as JSON."`
	LogFile  string           `name:"log-file" help:"Log file path." type:"path" placeholder:"PATH"`
	Debug    bool             `help:"Enable debug logging."`
	Version  kong.VersionFlag `help:"Print version information and exit."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("ghsearch"),
		kong.Description("Search GitHub repositories from the terminal."),
		kong.UsageOnError(),
		kong.Vars{"version": Get().String()},
	)

	if err := run(&cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "ghsearch: %v\n", err)
		os.Exit(1)
	}
}

func run(cli *CLI, stdout io.Writer) error {
	bus := eventbus.New()
	defer bus.Close()

	cfgPath := cli.Config
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfgSvc := config.NewConfigServiceAt(cfgPath, bus)
	cfg, err := cfgSvc.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cli); err != nil {
		return err
	}

	logFile, err := setupLogging(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() {
		// drain pending events into the log before closing it
		bus.Close()
		logFile.Close()
	}()
	logEvents(bus)

	token, source := config.ResolveToken(cli.Token, cfg, nil)
	logrus.WithFields(logrus.Fields{
		"config":  cfgSvc.Path(),
		"api":     cfg.APIBaseURL,
		"token":   config.MaskToken(token),
		"source":  source,
		"version": Get().Version,
	}).Info("starting ghsearch")

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}
	client, err := github.NewClient(github.Options{
		BaseURL:    cfg.APIBaseURL,
		Token:      token,
		UserAgent:  github.DefaultUserAgent + "/" + Get().Version,
		HTTPClient: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return err
	}

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc := search.NewService(ctx, client, bus)
	defer svc.Close()

	if cli.Query != "" {
		return runOnce(ctx, svc, cli.Query, cli.JSON, stdout)
	}
	return runTUI(ctx, svc, bus, cfg, cfgSvc)
}

// applyFlags overrides config values with the flags that were given
func applyFlags(cfg *config.Config, cli *CLI) error {
	if cli.APIURL != "" {
		cfg.APIBaseURL = cli.APIURL
	}
	if cli.Debounce != "" {
		cfg.UISettings.Debounce = cli.Debounce
	}
	if cli.Theme != "" {
		cfg.UISettings.Theme = cli.Theme
	}
	if cli.LogFile != "" {
		cfg.Log.File = cli.LogFile
	}
	if cli.Debug {
		cfg.Log.Level = logrus.DebugLevel.String()
	}
	return cfg.Validate()
}

func runTUI(ctx context.Context, svc *search.Service, bus eventbus.EventBus, cfg *config.Config, cfgSvc config.ConfigService) error {
	b := browser.New("", io.Discard, io.Discard)
	model := ui.NewModel(svc, bus, cfg, cfgSvc, &b)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	// Forward state replacements to the UI without blocking the bus
	fwdCtx, stopForwarding := context.WithCancel(ctx)
	defer stopForwarding()
	fwd := newStateForwarder(p.Send)
	go fwd.Run(fwdCtx)
	unsubscribe := svc.Subscribe(fwd.Push)
	defer unsubscribe()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
