// Package cli maps command lines onto keystore and venue actions.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/vadiminshakov/renexcli/config"
	"github.com/vadiminshakov/renexcli/internal/keystore"
	"github.com/vadiminshakov/renexcli/internal/prompt"
	"github.com/vadiminshakov/renexcli/internal/render"
	"github.com/vadiminshakov/renexcli/internal/session"
)

// App holds what every action needs. Each Execute runs exactly one command.
type App struct {
	loadConfig  func() (config.Config, error)
	cfg         config.Config
	cfgLoaded   bool
	asker       prompt.Asker
	unlocker    *keystore.Unlocker
	out         io.Writer
	errOut      io.Writer
	printer     *render.Printer
	newLogger   func(verbose bool) *zap.Logger
	logger      *zap.Logger
	sessionOpts []session.Option
	now         func() time.Time
}

// Option configures an App.
type Option func(*App)

// WithAsker replaces the terminal prompts.
func WithAsker(a prompt.Asker) Option {
	return func(app *App) {
		app.asker = a
	}
}

// WithUnlocker replaces the default unlocker, e.g. to use light scrypt parameters.
func WithUnlocker(u *keystore.Unlocker) Option {
	return func(app *App) {
		app.unlocker = u
	}
}

// WithOutput sets where results and cobra messages are written.
func WithOutput(out, errOut io.Writer) Option {
	return func(app *App) {
		app.out = out
		app.errOut = errOut
	}
}

// WithLoggerFactory builds the logger once --verbose is known.
func WithLoggerFactory(f func(verbose bool) *zap.Logger) Option {
	return func(app *App) {
		app.newLogger = f
	}
}

// WithSessionOptions is passed to every session the App opens.
func WithSessionOptions(opts ...session.Option) Option {
	return func(app *App) {
		app.sessionOpts = append(app.sessionOpts, opts...)
	}
}

// WithClock sets the time used for relative ages.
func WithClock(now func() time.Time) Option {
	return func(app *App) {
		app.now = now
	}
}

// New creates an App. loadConfig runs only once a command has passed argument
// validation, so a broken settings file never hides a usage error.
func New(loadConfig func() (config.Config, error), opts ...Option) *App {
	app := &App{
		loadConfig: loadConfig,
		unlocker:  keystore.NewUnlocker(),
		out:       os.Stdout,
		errOut:    os.Stderr,
		newLogger: func(bool) *zap.Logger { return zap.NewNop() },
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.asker == nil {
		app.asker = prompt.NewTerminal(app.errOut)
	}
	app.printer = render.NewPrinter(app.out)
	return app
}

// Execute parses args and runs the selected command.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.newRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// settings loads the configuration on first use.
func (a *App) settings() error {
	if a.cfgLoaded {
		return nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.cfgLoaded = true
	return nil
}

func (a *App) sessionConfig(signer *keystore.Signer) session.Config {
	cfg := session.Config{
		Network:       a.cfg.Network,
		Endpoint:      a.cfg.Endpoint(),
		Signer:        signer,
		StorageDir:    a.cfg.StorageDir(),
		AutoNormalize: a.cfg.AutoNormalizeOrders,
	}
	if signer != nil {
		cfg.Address = signer.Address
	}
	return cfg
}

func (a *App) sessionOptions() []session.Option {
	opts := make([]session.Option, 0, len(a.sessionOpts)+1)
	opts = append(opts, session.WithLogger(a.logger))
	return append(opts, a.sessionOpts...)
}
