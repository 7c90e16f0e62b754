// Package app wires configuration, credentials, the backend clients and the
// terminal UI together and runs the program until the user quits.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"openingfinder/internal/api"
	"openingfinder/internal/auth"
	"openingfinder/internal/config"
	"openingfinder/internal/domain"
	"openingfinder/internal/eventbus"
	"openingfinder/internal/logging"
	"openingfinder/internal/logic"
	"openingfinder/internal/ui"
	"openingfinder/internal/ui/services/action"
	"openingfinder/internal/ui/services/notify"
	"openingfinder/internal/ui/services/query"
)

const eventBuffer = 100

// IO carries the process streams so tests can substitute them
type IO struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdIO returns the process streams
func StdIO() IO {
	return IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run parses args, starts the UI and blocks until it exits
func Run(args []string, stdio IO) error {
	fs, configPath, help, err := parseFlags(args, stdio.Err)
	if err != nil {
		return err
	}
	if help {
		usage(fs, stdio.Out)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	env, err := setup(ctx, fs, configPath, stdio)
	if err != nil {
		return err
	}
	defer env.close()

	return env.run(ctx)
}

func parseFlags(args []string, errOut io.Writer) (*pflag.FlagSet, string, bool, error) {
	fs := pflag.NewFlagSet("openingfinder", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	config.RegisterFlags(fs)
	configPath := fs.String("config", "", "Path to configuration file")
	help := fs.BoolP("help", "h", false, "Show usage")
	fs.Usage = func() { usage(fs, errOut) }

	if err := fs.Parse(args); err != nil {
		return nil, "", false, err
	}
	return fs, *configPath, *help, nil
}

func usage(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: openingfinder [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Search project openings and apply for them from the terminal.")
	fmt.Fprintln(w)
	fmt.Fprint(w, fs.FlagUsages())
}

// environment holds everything a running program needs
type environment struct {
	cfg       *config.Config
	configs   config.ConfigService
	creds     auth.Credentials
	bus       eventbus.EventBus
	notifier  *notify.Channel
	query     *query.Service
	actions   *action.Service
	applied   logic.AppliedStore
	log       zerolog.Logger
	logCloser io.Closer
}

func setup(ctx context.Context, fs *pflag.FlagSet, configPath string, stdio IO) (*environment, error) {
	loader := config.NewConfigService(config.WithFlags(fs), config.WithPath(configPath))
	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	logger, closer, err := logging.New(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		Human: cfg.Log.Format == config.LogFormatConsole,
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("config", loader.Path()).Int("page_size", cfg.UISettings.PageSize).Msg("starting openingfinder")

	creds, err := resolveCredentials(cfg, stdio)
	if err != nil {
		closer.Close()
		return nil, err
	}

	bus := eventbus.New(logger)
	// the UI saves through a flag-free service so overrides are never written back
	configs := config.NewConfigService(config.WithPath(configPath), config.WithBus(bus))

	notifier := notify.NewChannel(cfg.UISettings.Timeout(), notify.WithBus(bus))
	if creds.Expired(time.Now()) {
		logger.Warn().Time("expires_at", creds.ExpiresAt).Msg("bearer token has expired")
		notifier.Show(domain.MsgTokenExpired, domain.SeverityWarning)
	}

	searcher := api.NewSearchClient(cfg.Search.BaseURL, logger, api.WithMaxRPS(cfg.Search.MaxRPS))
	allocator := api.NewAllocationClient(cfg.Allocation.BaseURL, nil, logger)
	applied := logic.NewMemoryAppliedStore(logic.DefaultAppliedCapacity)

	qs := query.NewService(ctx, searcher, creds, notifier,
		query.WithBus(bus),
		query.WithLogger(logger),
		query.WithPageSize(cfg.UISettings.PageSize),
	)
	as := action.NewService(allocator, creds, notifier,
		action.WithBus(bus),
		action.WithLogger(logger),
		action.WithAppliedStore(applied),
	)

	return &environment{
		cfg:       cfg,
		configs:   configs,
		creds:     creds,
		bus:       bus,
		notifier:  notifier,
		query:     qs,
		actions:   as,
		applied:   applied,
		log:       logger,
		logCloser: closer,
	}, nil
}

// resolveCredentials finds the token and reads its claims; the prompt is only
// offered when stdin is a terminal
func resolveCredentials(cfg *config.Config, stdio IO) (auth.Credentials, error) {
	src := auth.Source{Token: cfg.Auth.Token, TokenFile: cfg.Auth.TokenFile}
	if f, ok := stdio.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		src.Prompt = f
		src.PromptOut = stdio.Err
	}

	raw, err := auth.ResolveToken(src)
	if err != nil {
		return auth.Credentials{}, err
	}
	return auth.ParseToken(raw, cfg.Auth.UserID)
}

func (e *environment) run(ctx context.Context) error {
	model := ui.NewModel(ui.Deps{
		Context:  ctx,
		Config:   e.cfg,
		Configs:  e.configs,
		Query:    e.query,
		Actions:  e.actions,
		Notifier: e.notifier,
		Applied:  e.applied,
		Pager:    ui.NewOvPager(),
		Logger:   e.log,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	eventChan := make(chan eventbus.DomainEvent, eventBuffer)
	for _, eventType := range eventbus.AllEvents {
		unsubscribe := e.bus.Subscribe(eventType, func(event eventbus.DomainEvent) {
			select {
			case eventChan <- event:
			default:
				e.log.Warn().Str("event", string(event.Type())).Msg("event channel full, dropping event")
			}
		})
		defer unsubscribe()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-gctx.Done():
				return nil
			}
		}
	})

	var runErr error
	g.Go(func() error {
		_, err := p.Run()
		runErr = err
		// stop the forwarder whatever the outcome
		return errProgramExited
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errProgramExited) {
		return err
	}

	e.query.Wait()
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", runErr)
	}
	e.log.Info().Int("applied", e.applied.Count()).Msg("openingfinder exited")
	return nil
}

var errProgramExited = errors.New("program exited")

func (e *environment) close() {
	e.bus.Close()
	_ = e.logCloser.Close()
}
